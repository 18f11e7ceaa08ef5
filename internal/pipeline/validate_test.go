package pipeline

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/mailgroom/internal/typo"
)

func TestCheckFormat(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		wantReason string
	}{
		{"valid", "a@example.com", ""},
		{"valid with subdomain", "a.b@mail.example.com", ""},
		{"valid with plus tag", "a+tag@example.com", ""},
		{"empty", "", "empty address"},
		{"whitespace only", "   ", "empty address"},
		{"missing at", "aexample.com", "missing @"},
		{"two ats", "a@b@example.com", "more than one @"},
		{"empty local", "@example.com", "empty local or domain part"},
		{"empty domain", "a@", "empty local or domain part"},
		{
			"local too long",
			strings.Repeat("a", 65) + "@example.com",
			"local part longer than 64 characters",
		},
		{
			"domain too long",
			"a@" + strings.Repeat("d.", 127) + "com",
			"domain longer than 253 characters",
		},
		{"domain without dot", "a@example", "domain has no dot"},
		{"forbidden characters", "a b@example.com", "invalid characters"},
		{"consecutive dots", "a..b@example.com", "consecutive dots"},
		{"leading dot", ".a@example.com", "leading or trailing dot"},
		{"trailing dot", "a@example.com.", "leading or trailing dot"},
		{"dot right after at", "a@.example.com", "dot adjacent to @"},
		{"dot right before at", "a.@example.com", "dot adjacent to @"},
		{"leading hyphen in domain", "a@-example.com", "leading or trailing hyphen"},
		{"trailing hyphen in local", "a-@example.com", "leading or trailing hyphen"},
		{"single-letter tld", "a@example.c", "top-level domain shorter than 2 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantReason, CheckFormat(tt.email))
		})
	}
}

func TestValidateExcludesErrorsKeepsWarnings(t *testing.T) {
	in := parseLists(Request{
		To: []string{
			"good@example.com",
			"user@gmial.com",
			"@example.com",
		},
	})
	cfg := config{typo: typo.DefaultOptions()}

	out, record := runStep(t, stepValidate, in, cfg)

	// The error entry is dropped, the warning entry stays.
	assert.Equal(t, []string{
		"good@example.com", "user@gmial.com",
	}, out.snapshot().To)
	assert.Equal(t, 1, record.Changed)

	byStatus := map[string]int{}
	for _, o := range record.Outcomes {
		byStatus[o.Status]++
	}
	assert.Equal(t, 1, byStatus[StatusValid])
	assert.Equal(t, 1, byStatus[StatusWarning])
	assert.Equal(t, 1, byStatus[StatusError])

	for _, o := range record.Outcomes {
		if o.Status == StatusWarning {
			assert.Equal(t, "user@gmail.com", o.Suggestion)
		}
	}
}

func TestValidateRecordsRemovedEntries(t *testing.T) {
	in := parseLists(Request{
		To:  []string{"bad address"},
		Bcc: []string{"a@example"},
	})
	cfg := config{typo: typo.DefaultOptions()}

	out, record := runStep(t, stepValidate, in, cfg)

	assert.Equal(t, 0, out.total())
	assert.Len(t, record.Removed, 2)
	// Unparseable input is a validation failure, not a crash.
	assert.Equal(t, FieldTo, record.Removed[0].Field)
}

func TestValidateIsIdempotent(t *testing.T) {
	in := parseLists(Request{
		To: []string{"good@example.com", "user@gmial.com", "nope"},
		Cc: []string{"also.good@example.com"},
	})
	cfg := config{typo: typo.DefaultOptions()}

	once, _ := runStep(t, stepValidate, in, cfg)
	twice, record := runStep(t, stepValidate, once, cfg)

	assert.Equal(t, once.snapshot(), twice.snapshot())
	assert.Equal(t, 0, record.Changed)
}
