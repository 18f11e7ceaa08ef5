package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runStep(t *testing.T, fn stepFunc, in lists, cfg config) (lists, ActionRecord) {
	t.Helper()

	out, record, err := fn(in, cfg)
	require.NoError(t, err)
	return out, record
}

func TestSortOrdersByDisplayNameThenEmail(t *testing.T) {
	in := parseLists(Request{
		To: []string{
			"zed@external.com",
			"Alice <alice@corp.com>",
			"bob@corp.com",
		},
	})

	out, record := runStep(t, stepSort, in, config{})

	assert.Equal(t, []string{
		"Alice <alice@corp.com>",
		"bob@corp.com",
		"zed@external.com",
	}, out.snapshot().To)
	assert.Equal(t, 3, record.Processed)
	assert.Equal(t, 0, record.Changed)
}

func TestSortIsCaseInsensitive(t *testing.T) {
	in := parseLists(Request{
		To: []string{"CAROL@corp.com", "alice@corp.com", "Bob@corp.com"},
	})

	out, _ := runStep(t, stepSort, in, config{})

	assert.Equal(t, []string{
		"alice@corp.com", "Bob@corp.com", "CAROL@corp.com",
	}, out.snapshot().To)
}

func TestSortPreservesMembership(t *testing.T) {
	in := parseLists(Request{
		To:  []string{"c@x.com", "a@x.com"},
		Cc:  []string{"b@x.com"},
		Bcc: []string{"z@x.com", "y@x.com"},
	})

	out, _ := runStep(t, stepSort, in, config{})

	assert.Equal(t, in.total(), out.total())
	assert.ElementsMatch(t, in.snapshot().To, out.snapshot().To)
	assert.ElementsMatch(t, in.snapshot().Bcc, out.snapshot().Bcc)
}

func TestSortIsIdempotent(t *testing.T) {
	in := parseLists(Request{
		To: []string{"Dana <dana@x.com>", "b@x.com", "a@x.com"},
	})

	once, _ := runStep(t, stepSort, in, config{})
	twice, _ := runStep(t, stepSort, once, config{})

	assert.Equal(t, once.snapshot(), twice.snapshot())
}
