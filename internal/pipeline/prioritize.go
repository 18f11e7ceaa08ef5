package pipeline

import (
	"sort"

	"github.com/nhle/mailgroom/internal/domains"
	"github.com/nhle/mailgroom/internal/recipient"
)

// stepPrioritize reorders each list so entries matching the internal
// domain list come first, ordered by the matched domain's position in
// that list (earlier domain = higher priority). External entries follow
// in their input order. When the alphabetical option is set, entries
// within the same priority group are additionally ordered like the sort
// step. Nothing is ever removed.
func stepPrioritize(in lists, cfg config) (lists, ActionRecord, error) {
	record := newRecord(StepPrioritize, in)

	c := newCollator()
	out := in
	for _, f := range in.fields() {
		entries := append([]recipient.Entry(nil), f.Entries...)

		// Rank every entry once: matched domain index, or one past the
		// end for externals so they sort after all internal groups.
		rank := make(map[int]int, len(entries))
		for i, e := range entries {
			idx, ok := domains.MatchIndex(e.Key(), cfg.internalDomains)
			if !ok {
				idx = len(cfg.internalDomains)
			}
			rank[i] = idx
		}

		order := make([]int, len(entries))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			ra, rb := rank[order[a]], rank[order[b]]
			if ra != rb {
				return ra < rb
			}
			if cfg.alphabetical {
				return c.CompareString(
					entries[order[a]].SortKey(),
					entries[order[b]].SortKey(),
				) < 0
			}
			return false
		})

		reordered := make([]recipient.Entry, 0, len(entries))
		for _, i := range order {
			reordered = append(reordered, entries[i])
		}
		out.set(f.Field, reordered)
	}

	record.Output = out.snapshot()
	return out, record, nil
}
