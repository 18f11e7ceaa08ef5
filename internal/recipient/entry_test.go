package recipient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantName  string
		wantEmail string
	}{
		{
			name:      "bare address",
			input:     "bob@corp.com",
			wantName:  "",
			wantEmail: "bob@corp.com",
		},
		{
			name:      "display name with address",
			input:     "Bob Smith <bob@corp.com>",
			wantName:  "Bob Smith",
			wantEmail: "bob@corp.com",
		},
		{
			name:      "surrounding whitespace",
			input:     "  Bob Smith   <  bob@corp.com  >  ",
			wantName:  "Bob Smith",
			wantEmail: "bob@corp.com",
		},
		{
			name:      "empty display name",
			input:     "<bob@corp.com>",
			wantName:  "",
			wantEmail: "bob@corp.com",
		},
		{
			name:      "angle brackets inside name are part of prefix",
			input:     "Bob <x> Smith <bob@corp.com>",
			wantName:  "Bob <x> Smith",
			wantEmail: "bob@corp.com",
		},
		{
			name:      "malformed input degrades to address guess",
			input:     "not an email",
			wantName:  "",
			wantEmail: "not an email",
		},
		{
			name:      "empty string",
			input:     "",
			wantName:  "",
			wantEmail: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := Parse(tt.input)
			assert.Equal(t, tt.wantName, entry.Name)
			assert.Equal(t, tt.wantEmail, entry.Email)
		})
	}
}

func TestEntryKey(t *testing.T) {
	a := Parse("Bob <Bob@CORP.com>")
	b := Parse("bob@corp.com")

	assert.Equal(t, a.Key(), b.Key())
	// Display case is preserved.
	assert.Equal(t, "Bob@CORP.com", a.Email)
}

func TestEntrySortKey(t *testing.T) {
	assert.Equal(t, "Bob", Parse("Bob <bob@corp.com>").SortKey())
	assert.Equal(t, "bob@corp.com", Parse("bob@corp.com").SortKey())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "user@example.com", Normalize("  User@Example.Com  "))
	assert.Equal(t, "", Normalize("   "))
}
