// Package textnorm canonicalizes task titles and tokenizes them for
// classification. The same normalization builds learned-rule keys, so any two
// texts with the same normalized form hit the same rule.
package textnorm

import "strings"

// Normalize lowercases text, strips every rune that is neither a word
// character nor whitespace, trims, and collapses whitespace runs to single
// spaces. Idempotent: Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	lowered := strings.ToLower(text)
	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if isWordRune(r) || r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_'
}

// Stem strips a single common suffix. Intentionally crude: one pass, no
// dictionary, no irregular forms. Words at or below the length threshold are
// left alone so short words like "run" are never over-stripped.
func Stem(word string) string {
	switch {
	case strings.HasSuffix(word, "ing") && len(word) > 4:
		return word[:len(word)-3]
	case strings.HasSuffix(word, "ed") && len(word) > 3:
		return word[:len(word)-2]
	case strings.HasSuffix(word, "s") && len(word) > 3:
		return word[:len(word)-1]
	default:
		return word
	}
}

// Tokens splits normalized text on whitespace and returns the deduplicated
// union of raw tokens and their stems, raw tokens first.
func Tokens(normalized string) []string {
	raw := strings.Fields(normalized)
	seen := make(map[string]struct{}, len(raw)*2)
	out := make([]string, 0, len(raw)*2)
	for _, tok := range raw {
		if _, ok := seen[tok]; !ok {
			seen[tok] = struct{}{}
			out = append(out, tok)
		}
	}
	for _, tok := range raw {
		s := Stem(tok)
		if _, ok := seen[s]; !ok {
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}
