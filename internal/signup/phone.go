package signup

import (
	"fmt"
	"regexp"
	"strings"
)

// phonePattern is the only submittable phone format.
var phonePattern = regexp.MustCompile(`^\(\d{3}\) \d{3}-\d{4}$`)

// SanitizePhone strips everything but digits. Keystrokes are never rejected;
// only the submit action is gated on format.
func SanitizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatPhone renders exactly 10 digits as (XXX) XXX-XXXX. Input of any
// other length comes back sanitized but unformatted.
func FormatPhone(raw string) string {
	digits := SanitizePhone(raw)
	if len(digits) != 10 {
		return digits
	}
	return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
}

// ValidPhone reports whether s is in the submittable format.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(s)
}
