package pipeline

import (
	"fmt"

	"github.com/nhle/mailgroom/internal/recipient"
)

// stepDedupe removes duplicate addresses in two phases: first within
// each field (keeping the first occurrence), then across fields with
// fixed priority to > cc > bcc, so an address claimed by a
// higher-priority field is dropped from the lower ones. Comparison uses
// the normalized address; display variants of the same address count as
// duplicates.
func stepDedupe(in lists, _ config) (lists, ActionRecord, error) {
	record := newRecord(StepDedupe, in)

	out := in

	// Phase one: per-field.
	for _, f := range in.fields() {
		seen := make(map[string]bool, len(f.Entries))
		kept := make([]recipient.Entry, 0, len(f.Entries))
		for _, e := range f.Entries {
			key := e.Key()
			if seen[key] {
				record.Removed = append(record.Removed, Removal{
					Field:  f.Field,
					Entry:  e.String(),
					Reason: fmt.Sprintf("duplicate of an earlier %s entry", f.Field),
				})
				continue
			}
			seen[key] = true
			kept = append(kept, e)
		}
		out.set(f.Field, kept)
	}

	// Phase two: cross-field, scanning in priority order.
	claimed := make(map[string]Field, out.total())
	for _, f := range out.fields() {
		kept := make([]recipient.Entry, 0, len(f.Entries))
		for _, e := range f.Entries {
			key := e.Key()
			if owner, ok := claimed[key]; ok {
				record.Removed = append(record.Removed, Removal{
					Field:  f.Field,
					Entry:  e.String(),
					Reason: fmt.Sprintf("already present in %s", owner),
				})
				continue
			}
			claimed[key] = f.Field
			kept = append(kept, e)
		}
		out.set(f.Field, kept)
	}

	record.Changed = len(record.Removed)
	record.Output = out.snapshot()
	return out, record, nil
}
