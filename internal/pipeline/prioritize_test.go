package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrioritizeInternalBeforeExternal(t *testing.T) {
	in := parseLists(Request{
		To: []string{"b@partner.com", "a@corp.com", "c@external.com"},
	})
	cfg := config{internalDomains: []string{"corp.com", "partner.com"}}

	out, record := runStep(t, stepPrioritize, in, cfg)

	assert.Equal(t, []string{
		"a@corp.com", "b@partner.com", "c@external.com",
	}, out.snapshot().To)
	assert.Equal(t, 3, record.Processed)
}

func TestPrioritizeNeverRemovesEntries(t *testing.T) {
	in := parseLists(Request{
		To:  []string{"x@external.com", "a@corp.com"},
		Cc:  []string{"y@elsewhere.org"},
		Bcc: []string{"b@corp.com"},
	})
	cfg := config{internalDomains: []string{"corp.com"}}

	out, _ := runStep(t, stepPrioritize, in, cfg)

	assert.Equal(t, in.total(), out.total())
	assert.Equal(t, []string{"a@corp.com", "x@external.com"}, out.snapshot().To)
	assert.Equal(t, []string{"y@elsewhere.org"}, out.snapshot().Cc)
}

func TestPrioritizePreservesOrderWithinGroups(t *testing.T) {
	in := parseLists(Request{
		To: []string{
			"z@corp.com", "ext2@other.com", "a@corp.com", "ext1@other.com",
		},
	})
	cfg := config{internalDomains: []string{"corp.com"}}

	out, _ := runStep(t, stepPrioritize, in, cfg)

	assert.Equal(t, []string{
		"z@corp.com", "a@corp.com", "ext2@other.com", "ext1@other.com",
	}, out.snapshot().To)
}

func TestPrioritizeAlphabetizesWithinGroups(t *testing.T) {
	in := parseLists(Request{
		To: []string{
			"z@corp.com", "ext2@other.com", "a@corp.com", "ext1@other.com",
		},
	})
	cfg := config{
		internalDomains: []string{"corp.com"},
		alphabetical:    true,
	}

	out, _ := runStep(t, stepPrioritize, in, cfg)

	assert.Equal(t, []string{
		"a@corp.com", "z@corp.com", "ext1@other.com", "ext2@other.com",
	}, out.snapshot().To)
}

func TestPrioritizeSubdomainInheritsPriority(t *testing.T) {
	in := parseLists(Request{
		To: []string{"b@partner.com", "a@mail.corp.com"},
	})
	cfg := config{internalDomains: []string{"corp.com", "partner.com"}}

	out, _ := runStep(t, stepPrioritize, in, cfg)

	assert.Equal(t, []string{
		"a@mail.corp.com", "b@partner.com",
	}, out.snapshot().To)
}

func TestPrioritizeIsIdempotent(t *testing.T) {
	in := parseLists(Request{
		To: []string{"c@x.com", "b@partner.com", "a@corp.com"},
	})
	cfg := config{internalDomains: []string{"corp.com", "partner.com"}}

	once, _ := runStep(t, stepPrioritize, in, cfg)
	twice, _ := runStep(t, stepPrioritize, once, cfg)

	assert.Equal(t, once.snapshot(), twice.snapshot())
}
