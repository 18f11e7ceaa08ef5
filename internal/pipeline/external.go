package pipeline

import (
	"fmt"

	"github.com/nhle/mailgroom/internal/domains"
	"github.com/nhle/mailgroom/internal/recipient"
)

// stepRemoveExternal drops every entry whose domain matches none of the
// configured internal domains. With an empty internal domain list the
// step is a recorded no-op rather than an error: removing everything
// because nothing is configured would be a destructive surprise.
func stepRemoveExternal(in lists, cfg config) (lists, ActionRecord, error) {
	record := newRecord(StepRemoveExternal, in)

	if len(cfg.internalDomains) == 0 {
		record.Skipped = true
		record.Output = in.snapshot()
		return in, record, nil
	}

	out := in
	for _, f := range in.fields() {
		kept := make([]recipient.Entry, 0, len(f.Entries))
		for _, e := range f.Entries {
			if _, ok := domains.MatchIndex(e.Key(), cfg.internalDomains); ok {
				kept = append(kept, e)
				continue
			}
			record.Removed = append(record.Removed, Removal{
				Field:  f.Field,
				Entry:  e.String(),
				Reason: fmt.Sprintf("domain %q is not internal", domains.Domain(e.Key())),
			})
		}
		out.set(f.Field, kept)
	}

	record.Changed = len(record.Removed)
	record.Output = out.snapshot()
	return out, record, nil
}

// stepFlagExternal classifies every entry against the single
// organization domain and summarizes the externals grouped by their
// domain. It never changes the lists; with no organization domain
// configured it records itself as skipped.
func stepFlagExternal(in lists, cfg config) (lists, ActionRecord, error) {
	record := newRecord(StepFlagExternal, in)
	record.Output = in.snapshot()

	if cfg.orgDomain == "" {
		record.Skipped = true
		return in, record, nil
	}

	report := &ExternalReport{
		Total:   in.total(),
		Domains: make(map[string][]string),
	}
	for _, f := range in.fields() {
		for _, e := range f.Entries {
			if domains.IsInternal(e.Key(), cfg.orgDomain) {
				report.Internal++
				continue
			}
			report.External++
			d := domains.Domain(e.Key())
			if d == "" {
				d = "(no domain)"
			}
			report.Domains[d] = append(report.Domains[d], e.String())
		}
	}

	record.External = report
	return in, record, nil
}
