package extract

import sitter "github.com/smacker/go-tree-sitter"

// Recognized callee names.
const (
	FuncTest       = "test"
	FuncSuite      = "suite"
	FuncFlakySuite = "flakySuite"
)

const (
	nodeArguments      = "arguments"
	nodeCallExpression = "call_expression"
	nodeComment        = "comment"
	nodeIdentifier     = "identifier"
	nodeString         = "string"
)

// minArgs is the argument count a declaration needs: name plus callback.
const minArgs = 2

// walker carries discovery state through one traversal.
type walker struct {
	source  []byte
	records []Record
	depth   uint32
}

// Walk traverses the tree under root in pre-order and returns every test and
// suite declaration it finds. Records appear in traversal order, so a suite
// precedes everything nested in it.
func Walk(root *sitter.Node, source []byte) []Record {
	w := &walker{
		source:  source,
		records: []Record{},
	}
	if root != nil {
		w.walk(root)
	}
	return w.records
}

func (w *walker) walk(node *sitter.Node) {
	if node.Type() == nodeCallExpression {
		if kind, name := w.match(node); name != nil {
			w.records = append(w.records, Record{
				Depth: w.depth,
				Kind:  kind,
				Call:  spanOf(node),
				Name:  spanOf(name),
			})
			if kind == KindSuite {
				w.descend(node)
				return
			}
		}
	}
	w.walkChildren(node)
}

// descend walks the children of a suite one level deeper.
func (w *walker) descend(node *sitter.Node) {
	w.depth++
	defer func() { w.depth-- }()
	w.walkChildren(node)
}

func (w *walker) walkChildren(node *sitter.Node) {
	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i))
	}
}

// match returns the declaration kind and name literal of call, or a nil name
// when call is not a declaration.
func (w *walker) match(call *sitter.Node) (Kind, *sitter.Node) {
	callee := call.ChildByFieldName("function")
	if callee == nil || callee.Type() != nodeIdentifier {
		return "", nil
	}

	var kind Kind
	switch callee.Content(w.source) {
	case FuncTest:
		kind = KindTest
	case FuncSuite, FuncFlakySuite:
		kind = KindSuite
	default:
		return "", nil
	}

	name := declarationName(call.ChildByFieldName("arguments"))
	if name == nil {
		return "", nil
	}
	return kind, name
}

// declarationName returns the first argument if args holds at least two
// arguments and the first is a plain string literal. Comments are not arguments.
func declarationName(args *sitter.Node) *sitter.Node {
	if args == nil || args.Type() != nodeArguments {
		return nil
	}

	var first *sitter.Node
	count := 0
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() == nodeComment {
			continue
		}
		if first == nil {
			first = arg
		}
		count++
	}

	if count < minArgs || first.Type() != nodeString {
		return nil
	}
	return first
}
