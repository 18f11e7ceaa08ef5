package recipient

import (
	"regexp"
	"strings"
)

// displayPattern matches the "Display Name <address>" form: a non-greedy
// prefix, then an angle-bracketed address at the end of the string.
var displayPattern = regexp.MustCompile(`^(.*?)<([^>]+)>$`)

// Entry is a single recipient. Raw holds the canonical string form as
// given by the user (either "address" or "Display Name <address>"),
// which is what steps carry through and emit; Name and Email are the
// parsed parts.
type Entry struct {
	Raw   string
	Name  string
	Email string
}

// Parse extracts a display name and address from a free-form recipient
// string. It never fails: a string without an angle-bracketed address is
// treated as the address itself, so malformed input degrades to a
// best-effort guess that falls through validation downstream.
func Parse(raw string) Entry {
	trimmed := strings.TrimSpace(raw)

	if m := displayPattern.FindStringSubmatch(trimmed); m != nil {
		return Entry{
			Raw:   trimmed,
			Name:  strings.TrimSpace(m[1]),
			Email: strings.TrimSpace(m[2]),
		}
	}

	return Entry{Raw: trimmed, Email: trimmed}
}

// ParseAll parses a slice of recipient strings.
func ParseAll(raws []string) []Entry {
	entries := make([]Entry, 0, len(raws))
	for _, raw := range raws {
		entries = append(entries, Parse(raw))
	}
	return entries
}

// Key returns the normalized address used for duplicate detection and
// domain matching. Display case is preserved in Email; comparisons are
// always case-insensitive.
func (e Entry) Key() string {
	return Normalize(e.Email)
}

// SortKey returns the string the sort step orders by: the display name
// when present, otherwise the address.
func (e Entry) SortKey() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Email
}

// String returns the canonical string form of the entry.
func (e Entry) String() string {
	return e.Raw
}

// Normalize normalizes an email address for consistent comparison
// by converting to lowercase and trimming whitespace.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
