package pipeline

import "github.com/nhle/mailgroom/internal/recipient"

// ListSnapshot is the string form of the three lists at one point in
// the run, kept on every ActionRecord so each step's input and output
// can be reported verbatim.
type ListSnapshot struct {
	To  []string `json:"to"`
	Cc  []string `json:"cc"`
	Bcc []string `json:"bcc"`
}

// Removal records one entry a step dropped and why.
type Removal struct {
	Field  Field  `json:"field"`
	Entry  string `json:"entry"`
	Reason string `json:"reason"`
}

// Validation classifications.
const (
	StatusValid   = "valid"
	StatusWarning = "warning"
	StatusError   = "error"
)

// Outcome is the per-entry result of the validate step. Suggestion is
// set for warning outcomes where the typo detector proposed a
// correction.
type Outcome struct {
	Field      Field  `json:"field"`
	Entry      string `json:"entry"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ExternalReport is the summary produced by the flagExt step: counts
// and the external entries grouped by their literal domain.
type ExternalReport struct {
	Total    int                 `json:"total"`
	Internal int                 `json:"internal"`
	External int                 `json:"external"`
	Domains  map[string][]string `json:"domains"`
}

// ActionRecord is the audit entry one executed step leaves behind. It
// is created by the step and immutable afterwards; the host layer
// consumes it for reporting.
type ActionRecord struct {
	Step      string       `json:"step"`
	Input     ListSnapshot `json:"input"`
	Output    ListSnapshot `json:"output"`
	Processed int          `json:"processed"`
	Changed   int          `json:"changed"`
	Skipped   bool         `json:"skipped,omitempty"`

	Removed  []Removal       `json:"removed,omitempty"`
	Outcomes []Outcome       `json:"outcomes,omitempty"`
	External *ExternalReport `json:"external,omitempty"`
}

// lists is the working value threaded through the steps.
type lists struct {
	To  []recipient.Entry
	Cc  []recipient.Entry
	Bcc []recipient.Entry
}

// fields iterates the three lists in fixed priority order (to > cc >
// bcc), which is also the cross-field dedupe order.
func (l lists) fields() []struct {
	Field   Field
	Entries []recipient.Entry
} {
	return []struct {
		Field   Field
		Entries []recipient.Entry
	}{
		{FieldTo, l.To},
		{FieldCc, l.Cc},
		{FieldBcc, l.Bcc},
	}
}

// set replaces the named field's entries.
func (l *lists) set(f Field, entries []recipient.Entry) {
	switch f {
	case FieldTo:
		l.To = entries
	case FieldCc:
		l.Cc = entries
	case FieldBcc:
		l.Bcc = entries
	}
}

func (l lists) total() int {
	return len(l.To) + len(l.Cc) + len(l.Bcc)
}

func (l lists) snapshot() ListSnapshot {
	return ListSnapshot{
		To:  entryStrings(l.To),
		Cc:  entryStrings(l.Cc),
		Bcc: entryStrings(l.Bcc),
	}
}

func entryStrings(entries []recipient.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.String())
	}
	return out
}

// newRecord starts an ActionRecord for a step seeing the given input.
func newRecord(step string, in lists) ActionRecord {
	return ActionRecord{
		Step:      step,
		Input:     in.snapshot(),
		Processed: in.total(),
	}
}
