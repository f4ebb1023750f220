package extract

import sitter "github.com/smacker/go-tree-sitter"

// RecordWidth is the number of integers each record occupies in the flat encoding.
const RecordWidth = 5

// Kind distinguishes test-case records from suite records.
type Kind string

const (
	KindTest  Kind = "test"
	KindSuite Kind = "suite"
)

// Span is a half-open byte range [Start, Start+Length) into the source.
type Span struct {
	Start  uint32 `json:"start"`
	Length uint32 `json:"length"`
}

func spanOf(node *sitter.Node) Span {
	return Span{
		Start:  node.StartByte(),
		Length: node.EndByte() - node.StartByte(),
	}
}

// End returns the exclusive end offset.
func (s Span) End() uint32 {
	return s.Start + s.Length
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End() <= s.End()
}

// Record is one discovered test or suite declaration.
type Record struct {
	// Depth is the number of enclosing suite declarations.
	Depth uint32
	Kind  Kind
	// Call covers the whole call expression, callee through closing paren.
	Call Span
	// Name covers the string literal naming the declaration, quotes included.
	Name Span
}

// Flatten encodes records as depth, call.start, call.length, name.start,
// name.length per record, in order. Kind is not encoded.
func Flatten(records []Record) []uint32 {
	out := make([]uint32, 0, RecordWidth*len(records))
	for _, r := range records {
		out = append(out, r.Depth, r.Call.Start, r.Call.Length, r.Name.Start, r.Name.Length)
	}
	return out
}
