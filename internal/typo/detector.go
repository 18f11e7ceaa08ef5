// Package typo flags addresses whose domain looks like a misspelled
// public email provider. It only ever suggests a correction; it never
// rewrites the address itself.
package typo

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Options holds the tunable thresholds for the similarity check. The
// defaults are empirical: provider domains within 2 characters of
// length and above 0.80 normalized similarity are close enough to be a
// plausible slip of the fingers.
type Options struct {
	// MaxLengthDelta is the largest absolute length difference between
	// the address domain and a provider domain for the pair to be
	// compared at all.
	MaxLengthDelta int

	// MinSimilarity is the exclusive lower bound on normalized
	// edit-distance similarity ((maxLen - distance) / maxLen) for a
	// provider to be proposed as the correction.
	MinSimilarity float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MaxLengthDelta: 2,
		MinSimilarity:  0.80,
	}
}

// Result is the outcome of a typo check. Suggestion is the full
// corrected address and is only set when HasTypo is true.
type Result struct {
	HasTypo    bool
	Suggestion string
}

// knownMisspellings maps frequently observed misspelled provider
// domains to their correction. Consulted before the similarity scan so
// common cases resolve without any distance computation.
var knownMisspellings = map[string]string{
	"gmial.com":    "gmail.com",
	"gmal.com":     "gmail.com",
	"gamil.com":    "gmail.com",
	"gnail.com":    "gmail.com",
	"gmaill.com":   "gmail.com",
	"gmail.co":     "gmail.com",
	"gmail.cm":     "gmail.com",
	"yahooo.com":   "yahoo.com",
	"yaho.com":     "yahoo.com",
	"yhaoo.com":    "yahoo.com",
	"hotmial.com":  "hotmail.com",
	"hotmil.com":   "hotmail.com",
	"hotmall.com":  "hotmail.com",
	"hotmai.com":   "hotmail.com",
	"outlok.com":   "outlook.com",
	"outloook.com": "outlook.com",
	"outlook.co":   "outlook.com",
	"iclould.com":  "icloud.com",
	"icoud.com":    "icloud.com",
}

// commonProviders are the public provider domains the similarity scan
// compares against, in scan order.
var commonProviders = []string{
	"gmail.com",
	"yahoo.com",
	"hotmail.com",
	"outlook.com",
	"aol.com",
	"icloud.com",
	"protonmail.com",
	"mail.com",
	"live.com",
	"msn.com",
}

// Check inspects the address's domain for a likely provider typo. The
// known-misspelling table is consulted first; otherwise each common
// provider within Options.MaxLengthDelta characters of length is scored
// by normalized edit-distance similarity and the first provider above
// Options.MinSimilarity wins.
func Check(address string, opts Options) Result {
	parts := strings.Split(strings.TrimSpace(address), "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Result{}
	}

	local := parts[0]
	domain := strings.ToLower(parts[1])

	if correct, ok := knownMisspellings[domain]; ok {
		return Result{HasTypo: true, Suggestion: local + "@" + correct}
	}

	// An exact provider domain is never a typo. Without this, similar
	// providers would flag each other (gmail.com scores 0.89 against
	// mail.com).
	for _, provider := range commonProviders {
		if domain == provider {
			return Result{}
		}
	}

	for _, provider := range commonProviders {
		delta := len(domain) - len(provider)
		if delta < 0 {
			delta = -delta
		}
		if delta > opts.MaxLengthDelta {
			continue
		}

		maxLen := len(domain)
		if len(provider) > maxLen {
			maxLen = len(provider)
		}
		if maxLen == 0 {
			continue
		}

		distance := levenshtein.ComputeDistance(domain, provider)
		similarity := float64(maxLen-distance) / float64(maxLen)
		if similarity > opts.MinSimilarity {
			return Result{HasTypo: true, Suggestion: local + "@" + provider}
		}
	}

	return Result{}
}
