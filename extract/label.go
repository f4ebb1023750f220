package extract

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

// Label returns the unquoted text of the record's name literal.
// An out-of-range name span yields an empty string.
func (r Record) Label(source []byte) string {
	if r.Name.End() > uint32(len(source)) {
		return ""
	}
	return unquote(string(source[r.Name.Start:r.Name.End()]))
}

// unquote resolves a single- or double-quoted JavaScript string literal.
// Text that cannot be unquoted is returned as-is.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	q := text[0]
	if (q != '\'' && q != '"') || text[len(text)-1] != q {
		return text
	}

	s, ok := decodeEscapes(text[1 : len(text)-1])
	if !ok {
		return text
	}
	return s
}

// decodeEscapes resolves JavaScript escape sequences in the body of a string
// literal. Legacy octal escapes are rejected.
func decodeEscapes(body string) (string, bool) {
	if !strings.Contains(body, `\`) {
		return body, true
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(body) {
			return "", false
		}
		c = body[i+1]
		i += 2

		switch c {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if i < len(body) && body[i] >= '0' && body[i] <= '9' {
				return "", false
			}
			b.WriteByte(0)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			return "", false
		case '\r':
			// Line continuation, CRLF included.
			if i < len(body) && body[i] == '\n' {
				i++
			}
		case '\n':
		case 'x':
			if i+2 > len(body) {
				return "", false
			}
			v, err := strconv.ParseUint(body[i:i+2], 16, 8)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
			i += 2
		case 'u':
			r, n, ok := readCodePoint(body[i:])
			if !ok {
				return "", false
			}
			i += n
			if utf16.IsSurrogate(r) && strings.HasPrefix(body[i:], `\u`) {
				if low, m, ok := readCodePoint(body[i+2:]); ok {
					if pair := utf16.DecodeRune(r, low); pair != utf8.RuneError {
						r = pair
						i += 2 + m
					}
				}
			}
			b.WriteRune(r)
		default:
			// Any other escaped character stands for itself. Multi-byte
			// characters are copied byte by byte.
			b.WriteByte(c)
		}
	}
	return b.String(), true
}

// readCodePoint parses the digits following \u: either four hex digits or a
// braced code point. It returns the rune and the number of bytes consumed.
func readCodePoint(s string) (rune, int, bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return 0, 0, false
		}
		v, err := strconv.ParseUint(s[1:end], 16, 32)
		if err != nil || v > utf8.MaxRune {
			return 0, 0, false
		}
		return rune(v), end + 1, true
	}
	if len(s) < 4 {
		return 0, 0, false
	}
	v, err := strconv.ParseUint(s[:4], 16, 16)
	if err != nil {
		return 0, 0, false
	}
	return rune(v), 4, true
}
