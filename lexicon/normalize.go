package lexicon

import "strings"

// Normalize lowercases a term, strips every character outside [a-z0-9- ] and
// collapses internal whitespace. All lexicon keys are indexed by this form,
// and the resolver normalizes candidates the same way before lookup.
func Normalize(s string) string {
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
			lastSpace = false
		case r == ' ', r == '\t', r == '\n':
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}

	return strings.TrimSpace(b.String())
}
