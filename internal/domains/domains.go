// Package domains decides whether an address belongs to one of the
// user's configured internal domains. A domain matches a candidate when
// it is equal to it or is a subdomain of it; the candidate list is
// ordered, and the first match wins.
package domains

import "strings"

// placeholderDomain is the setup placeholder shipped in the default
// config; it must never be treated as a real internal domain.
const placeholderDomain = "yourcompany.com"

// MatchIndex returns the index of the first internal domain that the
// address's domain equals or is a subdomain of. The boolean is false
// when the address has no single @, the list is empty, or nothing
// matches.
func MatchIndex(email string, internalDomains []string) (int, bool) {
	domain, ok := domainOf(email)
	if !ok || len(internalDomains) == 0 {
		return 0, false
	}

	for i, candidate := range internalDomains {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		if candidate == "" {
			continue
		}
		if matches(domain, candidate) {
			return i, true
		}
	}

	return 0, false
}

// IsInternal reports whether the address's domain equals or is a
// subdomain of the single organization domain. An address with no
// extractable domain is never internal.
func IsInternal(email, orgDomain string) bool {
	domain, ok := domainOf(email)
	if !ok {
		return false
	}

	org := strings.ToLower(strings.TrimSpace(orgDomain))
	if org == "" {
		return false
	}

	return matches(domain, org)
}

// CleanList filters a configured domain list for use by domain-aware
// steps: entries are trimmed; blanks, the setup placeholder, and
// case-insensitive duplicates are dropped. Order (and therefore
// priority) of the surviving entries is preserved.
func CleanList(list []string) []string {
	seen := make(map[string]bool, len(list))
	cleaned := make([]string, 0, len(list))

	for _, d := range list {
		d = strings.TrimSpace(d)
		key := strings.ToLower(d)
		if key == "" || key == placeholderDomain || seen[key] {
			continue
		}
		seen[key] = true
		cleaned = append(cleaned, d)
	}

	return cleaned
}

// Domain returns the lower-cased, trimmed domain part of an address,
// or "" when the address does not contain exactly one @.
func Domain(email string) string {
	domain, ok := domainOf(email)
	if !ok {
		return ""
	}
	return domain
}

func domainOf(email string) (string, bool) {
	parts := strings.Split(strings.TrimSpace(email), "@")
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(parts[1])), true
}

func matches(domain, candidate string) bool {
	return domain == candidate || strings.HasSuffix(domain, "."+candidate)
}
