package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnquote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want string
	}{
		{"single quotes", `'hello'`, "hello"},
		{"double quotes", `"hello"`, "hello"},
		{"escaped single quote", `'it\'s'`, "it's"},
		{"double quote inside single quotes", `'say "hi"'`, `say "hi"`},
		{"escaped double quote", `"say \"hi\""`, `say "hi"`},
		{"newline escape", `'a\nb'`, "a\nb"},
		{"unicode", `'héllo'`, "héllo"},
		{"empty literal", `''`, ""},
		{"too short", `'`, `'`},
		{"escaped single quote in double quotes", `"it\'s"`, "it's"},
		{"escaped double quotes in single quotes", `'say \"hi\"'`, `say "hi"`},
		{"hex escape", `'\x41BC'`, "ABC"},
		{"unicode escape", `'caf\u00e9'`, "café"},
		{"braced code point", `'\u{1F600}'`, "\U0001F600"},
		{"surrogate pair", `'\uD83D\uDE00'`, "\U0001F600"},
		{"null escape", `'a\0b'`, "a\x00b"},
		{"line continuation", "'a\\\nb'", "ab"},
		{"non-escape character", `'\q'`, "q"},
		{"backslash", `'a\\b'`, `a\b`},
		{"mismatched quotes kept verbatim", `'hello"`, `'hello"`},
		{"short hex escape kept verbatim", `'\x4'`, `'\x4'`},
		{"code point out of range kept verbatim", `'\u{110000}'`, `'\u{110000}'`},
		{"octal escape kept verbatim", `'\01'`, `'\01'`},
		{"trailing backslash kept verbatim", `'a\'`, `'a\'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, unquote(tt.text))
		})
	}
}

func TestRecordLabel(t *testing.T) {
	t.Parallel()

	source := []byte("test('hello', () => {})")

	r := Record{Name: Span{Start: 5, Length: 7}}
	require.Equal(t, "hello", r.Label(source))

	outOfRange := Record{Name: Span{Start: 20, Length: 10}}
	require.Empty(t, outOfRange.Label(source))
}
