package typo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckKnownMisspelling(t *testing.T) {
	result := Check("user@gmial.com", DefaultOptions())

	assert.True(t, result.HasTypo)
	assert.Equal(t, "user@gmail.com", result.Suggestion)
}

func TestCheckSimilarity(t *testing.T) {
	tests := []struct {
		name           string
		address        string
		wantTypo       bool
		wantSuggestion string
	}{
		{
			name:           "one-character slip near gmail",
			address:        "user@gmaik.com",
			wantTypo:       true,
			wantSuggestion: "user@gmail.com",
		},
		{
			name:           "wrong tld near outlook",
			address:        "user@outlook.con",
			wantTypo:       true,
			wantSuggestion: "user@outlook.com",
		},
		{
			name:     "two transposed characters score below the bound",
			address:  "user@yahoo.cmo",
			wantTypo: false,
		},
		{
			name:     "exact provider is never a typo",
			address:  "user@gmail.com",
			wantTypo: false,
		},
		{
			name:     "exact provider similar to another provider",
			address:  "user@mail.com",
			wantTypo: false,
		},
		{
			name:     "unrelated corporate domain",
			address:  "user@corp.com",
			wantTypo: false,
		},
		{
			name:     "length difference beyond threshold is not compared",
			address:  "user@gm.com",
			wantTypo: false,
		},
		{
			name:     "malformed address",
			address:  "no-at-sign",
			wantTypo: false,
		},
		{
			name:     "empty local part",
			address:  "@gmial.com",
			wantTypo: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Check(tt.address, DefaultOptions())
			assert.Equal(t, tt.wantTypo, result.HasTypo)
			if tt.wantTypo {
				assert.Equal(t, tt.wantSuggestion, result.Suggestion)
			} else {
				assert.Empty(t, result.Suggestion)
			}
		})
	}
}

func TestCheckThresholdsAreConfigurable(t *testing.T) {
	// With an impossible similarity bound nothing is ever flagged by
	// the distance scan; the static table still hits.
	strict := Options{MaxLengthDelta: 2, MinSimilarity: 1.0}

	assert.False(t, Check("user@gmaik.com", strict).HasTypo)
	assert.True(t, Check("user@gmial.com", strict).HasTypo)
}
