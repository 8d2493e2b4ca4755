package ir

import "strings"

// ValidTokenName reports whether name may appear between percent signs.
// Allowed characters: ASCII letters, digits and _ . : -
func ValidTokenName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isTokenByte(name[i]) {
			return false
		}
	}
	return true
}

func isTokenByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '_', c == '.', c == ':', c == '-':
		return true
	}
	return false
}

// ExpandTokens rewrites every %name% token in s with resolve(name), scanning
// left to right exactly once. Resolved values are copied to the output
// verbatim and never rescanned. A percent sign that does not open a valid
// token is kept as a literal.
func ExpandTokens(s string, resolve func(name string) string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if s[i] != '%' {
			b.WriteByte(s[i])
			i++
			continue
		}
		end := strings.IndexByte(s[i+1:], '%')
		if end < 0 || !ValidTokenName(s[i+1:i+1+end]) {
			b.WriteByte('%')
			i++
			continue
		}
		b.WriteString(resolve(s[i+1 : i+1+end]))
		i += end + 2
	}
	return b.String()
}

// Tokens lists the token names in s in order of appearance, duplicates included.
func Tokens(s string) []string {
	var out []string
	ExpandTokens(s, func(name string) string {
		out = append(out, name)
		return ""
	})
	return out
}
