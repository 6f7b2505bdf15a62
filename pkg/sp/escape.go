package sp

import (
	"net/url"
	"regexp"
	"strings"
)

const upperHex = "0123456789ABCDEF"

var absoluteURL = regexp.MustCompile(`^(?:[a-zA-Z][a-zA-Z0-9+.\-]*:)?//`)

// IsURLAbsolute reports whether v starts with a scheme ("https://") or is
// protocol relative ("//host").
func IsURLAbsolute(v string) bool {
	return absoluteURL.MatchString(v)
}

// EscapeQueryValue makes v safe to place between the single quote delimiters
// of an OData key or function parameter: every quote is doubled and the result
// is percent-encoded. It never fails; control characters are encoded too.
func EscapeQueryValue(v string) string {
	if v == "" {
		return ""
	}

	return escapeComponent(strings.ReplaceAll(v, "'", "''"))
}

// UnescapeQueryValue reverses EscapeQueryValue.
func UnescapeQueryValue(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		decoded = s
	}

	return strings.ReplaceAll(decoded, "''", "'")
}

// QuoteParam prepares v for a quoted parameter. Quotes are doubled in every
// case. Absolute URLs keep their shape and only get unsafe bytes encoded;
// everything else goes through EscapeQueryValue.
func QuoteParam(v string) string {
	if IsURLAbsolute(v) {
		return neutralize(strings.ReplaceAll(v, "'", "''"))
	}

	return EscapeQueryValue(v)
}

// escapeComponent follows encodeURIComponent: unreserved characters and
// !'()*~ stay literal, every other byte is percent-encoded.
func escapeComponent(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if isComponentSafe(c) {
			b.WriteByte(c)

			continue
		}

		writeEscaped(&b, c)
	}

	return b.String()
}

// neutralize encodes bytes that cannot appear literally in a request line.
func neutralize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= ' ' || c >= 0x7f || c == '#' || c == '"' {
			writeEscaped(&b, c)

			continue
		}

		b.WriteByte(c)
	}

	return b.String()
}

func writeEscaped(b *strings.Builder, c byte) {
	b.WriteByte('%')
	b.WriteByte(upperHex[c>>4])
	b.WriteByte(upperHex[c&0x0f])
}

func isComponentSafe(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}

	switch c {
	case '-', '_', '.', '!', '~', '*', '\'', '(', ')':
		return true
	}

	return false
}
