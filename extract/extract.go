// Package extract discovers test and suite declarations in JavaScript-family
// source files and reports their nesting depth and byte spans.
//
// The flat encoding produced by [Extract] and [Flatten] holds five unsigned
// integers per declaration: depth, call start, call length, name start and
// name length. Offsets are byte offsets into the source.
package extract

import (
	"bytes"
	"context"
)

// Extract parses source with the TypeScript grammar and returns the flat
// encoding of every declaration found. Source that fails to parse yields an
// empty slice; use [Discover] to tell the two apart.
func Extract(source string) []uint32 {
	records, err := Discover(context.Background(), TypeScript(), []byte(source))
	if err != nil {
		return []uint32{}
	}
	return Flatten(records)
}

// Discover parses source with language and walks the resulting tree.
// A wrapped [ErrSyntax] is returned when the source does not parse.
func Discover(ctx context.Context, language Language, source []byte) ([]Record, error) {
	tree, err := Parse(ctx, language, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	return Walk(tree.RootNode(), source), nil
}

// Analyze discovers declarations in source and builds the result reported for
// a single file. Parse failures are reported in the result, not returned.
func Analyze(ctx context.Context, name string, language Language, source []byte, flat bool) FileResult {
	result := FileResult{
		File:     name,
		Language: language.Name(),
		Records:  []RecordView{},
	}

	records, err := Discover(ctx, language, source)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	for _, r := range records {
		line, col := position(source, r.Call.Start)
		result.Records = append(result.Records, RecordView{
			Kind:     r.Kind,
			Name:     r.Label(source),
			Depth:    r.Depth,
			Line:     line,
			Column:   col,
			Call:     r.Call,
			NameSpan: r.Name,
		})
	}

	if flat {
		result.Flat = Flatten(records)
	}

	return result
}

// position converts a byte offset into a 1-based line and column.
// Columns count bytes.
func position(source []byte, offset uint32) (int, int) {
	if int(offset) > len(source) {
		offset = uint32(len(source))
	}
	head := source[:offset]
	line := bytes.Count(head, []byte("\n")) + 1
	col := len(head) - bytes.LastIndexByte(head, '\n')
	return line, col
}
