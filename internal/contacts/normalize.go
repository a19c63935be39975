package contacts

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizePhone canonicalizes a raw phone string to "+<digits>".
// The heuristic is tuned for Indian numbers: a leading 0 is replaced by
// country code 91 and a bare 10-digit local number gets 91 prepended.
// Returns "" when the input cannot yield at least 10 digits.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)

	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
		// a leading '+' is dropped here; the result is re-prefixed below
	}
	digits := b.String()

	if strings.HasPrefix(digits, "0") {
		digits = "91" + digits[1:]
	} else if len(digits) == 10 {
		digits = "91" + digits
	}

	if len(digits) < 10 {
		return ""
	}
	return "+" + digits
}

// ValidEmail reports whether s has a local@domain.tld shape.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// SplitTags turns a raw tags cell ("customer,vip" possibly quoted) into a
// deduplicated list, preserving first-seen order.
func SplitTags(raw string) []string {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return nil
	}
	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// UnionTags merges tag lists, preserving first-seen order.
func UnionTags(lists ...[]string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, tag := range list {
			if tag == "" || seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}
