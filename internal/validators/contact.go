package validators

import (
	"regexp"
	"strings"
)

var phoneRe = regexp.MustCompile(`^\+?[0-9]{7,15}$`)

// NormalizePhone strips the usual separators. It returns "" when the
// remaining text is not a plausible phone number.
func NormalizePhone(phone string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(phone))

	if !phoneRe.MatchString(cleaned) {
		return ""
	}
	return cleaned
}
