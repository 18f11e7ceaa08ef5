package pipeline

import (
	"regexp"
	"strings"

	"github.com/nhle/mailgroom/internal/recipient"
	"github.com/nhle/mailgroom/internal/typo"
)

// addressPattern is the RFC 5322-ish character-class check: printable
// local part, letter/digit-bounded domain labels. Structural rules
// (dots, hyphens, lengths) are checked separately so each failure
// reports the rule that caused it.
var addressPattern = regexp.MustCompile(
	"^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+" +
		`@[a-zA-Z0-9.-]+$`,
)

// CheckFormat applies the format rules to an address in fixed order
// and returns the first failure's reason, or "" when the address is
// well-formed. The rule order is part of the contract: callers report
// the reason verbatim.
func CheckFormat(email string) string {
	email = strings.TrimSpace(email)

	if email == "" {
		return "empty address"
	}
	if !strings.Contains(email, "@") {
		return "missing @"
	}
	if strings.Count(email, "@") != 1 {
		return "more than one @"
	}

	at := strings.Index(email, "@")
	local, domain := email[:at], email[at+1:]

	if local == "" || domain == "" {
		return "empty local or domain part"
	}
	if len(local) > 64 {
		return "local part longer than 64 characters"
	}
	if len(domain) > 253 {
		return "domain longer than 253 characters"
	}
	if !strings.Contains(domain, ".") {
		return "domain has no dot"
	}
	if !addressPattern.MatchString(email) {
		return "invalid characters"
	}
	if strings.Contains(email, "..") {
		return "consecutive dots"
	}
	if strings.HasPrefix(email, ".") || strings.HasSuffix(email, ".") {
		return "leading or trailing dot"
	}
	if strings.Contains(email, "@.") || strings.Contains(email, ".@") {
		return "dot adjacent to @"
	}
	if strings.HasPrefix(local, "-") || strings.HasSuffix(local, "-") ||
		strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return "leading or trailing hyphen"
	}

	labels := strings.Split(domain, ".")
	if len(labels[len(labels)-1]) < 2 {
		return "top-level domain shorter than 2 characters"
	}

	return ""
}

// stepValidate classifies every entry: format failures become errors
// and are excluded from the output (but kept in the record), typo hits
// become warnings with a suggested correction, everything else is
// valid. Warnings and valid entries pass through unchanged, so
// re-validating a validated state changes nothing.
func stepValidate(in lists, cfg config) (lists, ActionRecord, error) {
	record := newRecord(StepValidate, in)

	out := in
	for _, f := range in.fields() {
		kept := make([]recipient.Entry, 0, len(f.Entries))
		for _, e := range f.Entries {
			if reason := CheckFormat(e.Email); reason != "" {
				record.Outcomes = append(record.Outcomes, Outcome{
					Field:  f.Field,
					Entry:  e.String(),
					Status: StatusError,
					Reason: reason,
				})
				record.Removed = append(record.Removed, Removal{
					Field:  f.Field,
					Entry:  e.String(),
					Reason: reason,
				})
				continue
			}

			outcome := Outcome{
				Field:  f.Field,
				Entry:  e.String(),
				Status: StatusValid,
			}
			if hit := typo.Check(e.Email, cfg.typo); hit.HasTypo {
				outcome.Status = StatusWarning
				outcome.Reason = "possible domain typo"
				outcome.Suggestion = hit.Suggestion
			}
			record.Outcomes = append(record.Outcomes, outcome)
			kept = append(kept, e)
		}
		out.set(f.Field, kept)
	}

	record.Changed = len(record.Removed)
	record.Output = out.snapshot()
	return out, record, nil
}
