package pipeline

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nhle/mailgroom/internal/recipient"
)

// newCollator returns the collator the reordering steps compare with.
// The locale-neutral tailoring keeps runs byte-identical across
// machines regardless of the host locale.
func newCollator() *collate.Collator {
	return collate.New(language.Und, collate.IgnoreCase)
}

// stepSort reorders each list independently, ascending by display name
// when present and by address otherwise. Entries are never added or
// dropped; sorting an already-sorted list is a no-op.
func stepSort(in lists, _ config) (lists, ActionRecord, error) {
	record := newRecord(StepSort, in)

	c := newCollator()
	out := in
	for _, f := range in.fields() {
		sorted := append([]recipient.Entry(nil), f.Entries...)
		sortEntries(sorted, c)
		out.set(f.Field, sorted)
	}

	record.Output = out.snapshot()
	return out, record, nil
}

// sortEntries orders entries by their sort key under the given
// collator. The sort is stable, so entries with equal keys keep their
// relative input order.
func sortEntries(entries []recipient.Entry, c *collate.Collator) {
	sort.SliceStable(entries, func(i, j int) bool {
		return c.CompareString(entries[i].SortKey(), entries[j].SortKey()) < 0
	})
}
