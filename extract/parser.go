package extract

import (
	"context"
	"errors"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// ErrSyntax is returned when the source does not parse cleanly.
// tree-sitter always produces a tree; any ERROR or MISSING node counts as failure.
var ErrSyntax = errors.New("source contains syntax errors")

// parser wraps a tree-sitter parser for a specific language.
// It is not safe for concurrent use.
type parser struct {
	parser *sitter.Parser
	lang   Language
}

// newParser creates a new parser for the given language.
func newParser(language Language) *parser {
	p := sitter.NewParser()
	p.SetLanguage(language.TreeSitterLang())
	return &parser{
		parser: p,
		lang:   language,
	}
}

// parse parses source code and returns the syntax tree.
// Caller must Close the returned tree.
func (p *parser) parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.lang.Name(), err)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("parse %s: %w", p.lang.Name(), ErrSyntax)
	}
	return tree, nil
}

func (p *parser) close() {
	p.parser.Close()
}

// Parse parses source with a fresh parser for language.
// Caller must Close the returned tree.
func Parse(ctx context.Context, language Language, source []byte) (*sitter.Tree, error) {
	p := newParser(language)
	defer p.close()
	return p.parse(ctx, source)
}
