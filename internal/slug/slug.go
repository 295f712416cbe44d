package slug

import (
	"strings"
	"unicode"
)

// Make derives a URL-safe slug from a display name: lowercased, with
// every run of whitespace or punctuation collapsed into a single '-'.
// The same name always produces the same slug.
func Make(name string) string {
	var b strings.Builder
	pendingSep := false

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	return b.String()
}
