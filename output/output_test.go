package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arjunmahishi/testextract/extract"
)

func sampleResults() []extract.FileResult {
	return []extract.FileResult{
		{
			File:     "math.test.ts",
			Language: extract.LanguageTypeScript,
			Records: []extract.RecordView{
				{
					Kind: extract.KindSuite, Name: "math", Depth: 0, Line: 1, Column: 1,
					Call: extract.Span{Start: 0, Length: 49}, NameSpan: extract.Span{Start: 6, Length: 6},
				},
				{
					Kind: extract.KindTest, Name: "adds", Depth: 1, Line: 2, Column: 3,
					Call: extract.Span{Start: 24, Length: 22}, NameSpan: extract.Span{Start: 29, Length: 6},
				},
			},
		},
		{
			File:     "broken.test.js",
			Language: extract.LanguageJavaScript,
			Records:  []extract.RecordView{},
			Error:    "parse javascript: source contains syntax errors",
		},
	}
}

func newTestWriter(t *testing.T, format Format, compact bool) (*Writer, *bytes.Buffer) {
	t.Helper()

	var buf bytes.Buffer
	w, err := New(Config{Format: format, Compact: compact, NoColor: true, Output: &buf})
	require.NoError(t, err)
	return w, &buf
}

func TestNewUnknownFormat(t *testing.T) {
	_, err := New(Config{Format: "yaml"})
	require.EqualError(t, err, "unknown format yaml")
}

func TestWriteResultsText(t *testing.T) {
	w, buf := newTestWriter(t, FormatText, false)
	require.NoError(t, w.WriteResults(sampleResults()))

	want := strings.Join([]string{
		"math.test.ts",
		`  suite "math" (1:1)`,
		`    test "adds" (2:3)`,
		"broken.test.js",
		"  error: parse javascript: source contains syntax errors",
		"",
	}, "\n")
	require.Equal(t, want, buf.String())
}

func TestWriteResultsRaw(t *testing.T) {
	w, buf := newTestWriter(t, FormatRaw, false)
	require.NoError(t, w.WriteResults(sampleResults()))

	require.Equal(t, "math.test.ts: 0 0 49 6 6 1 24 22 29 6\nbroken.test.js: \n", buf.String())
}

func TestWriteResultCompactJSON(t *testing.T) {
	w, buf := newTestWriter(t, FormatJSON, true)

	results := sampleResults()
	results[0].Flat = []uint32{0, 0, 49, 6, 6, 1, 24, 22, 29, 6}
	for _, r := range results {
		require.NoError(t, w.WriteResult(r))
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	require.JSONEq(t, `{
		"file": "math.test.ts",
		"language": "typescript",
		"records": [
			{"kind": "suite", "name": "math", "depth": 0, "line": 1, "column": 1,
			 "call": {"start": 0, "length": 49}, "name_span": {"start": 6, "length": 6}},
			{"kind": "test", "name": "adds", "depth": 1, "line": 2, "column": 3,
			 "call": {"start": 24, "length": 22}, "name_span": {"start": 29, "length": 6}}
		],
		"flat": [0, 0, 49, 6, 6, 1, 24, 22, 29, 6]
	}`, lines[0])
	require.JSONEq(t, `{
		"file": "broken.test.js",
		"language": "javascript",
		"records": [],
		"error": "parse javascript: source contains syntax errors"
	}`, lines[1])
}

func TestWriteFlat(t *testing.T) {
	raw, rawBuf := newTestWriter(t, FormatRaw, false)
	require.NoError(t, raw.WriteFlat(extract.Extract("test('hello', () => {})")))
	require.Equal(t, "0 0 23 5 7\n", rawBuf.String())

	rawBuf.Reset()
	require.NoError(t, raw.WriteFlat(extract.Extract("foo('x', () => {})")))
	require.NoError(t, raw.WriteFlat(extract.Extract("suite('x', () => {")))
	require.Empty(t, rawBuf.String())

	js, jsBuf := newTestWriter(t, FormatJSON, true)
	require.NoError(t, js.WriteFlat(extract.Extract("")))
	require.Equal(t, "[]\n", jsBuf.String())
}
