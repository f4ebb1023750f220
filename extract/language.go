package extract

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// Registered language names.
const (
	LanguageTypeScript = "typescript"
	LanguageTSX        = "tsx"
	LanguageJavaScript = "javascript"
)

// Language defines the interface for a supported source grammar.
type Language interface {
	// Name returns the language identifier (e.g., "typescript").
	Name() string

	// Extensions returns file extensions for this language (e.g., [".ts"]).
	Extensions() []string

	// TreeSitterLang returns the tree-sitter language grammar.
	TreeSitterLang() *sitter.Language
}

// grammar is a Language backed by one of the bundled tree-sitter grammars.
// The grammar handle is loaded once and shared read-only afterwards.
type grammar struct {
	name       string
	extensions []string
	load       func() *sitter.Language

	once sync.Once
	lang *sitter.Language
}

func (g *grammar) Name() string {
	return g.name
}

func (g *grammar) Extensions() []string {
	return g.extensions
}

func (g *grammar) TreeSitterLang() *sitter.Language {
	g.once.Do(func() {
		g.lang = g.load()
	})
	return g.lang
}

func init() {
	Register(&grammar{
		name:       LanguageTypeScript,
		extensions: []string{".ts", ".mts", ".cts"},
		load:       typescript.GetLanguage,
	})
	Register(&grammar{
		name:       LanguageTSX,
		extensions: []string{".tsx"},
		load:       tsx.GetLanguage,
	})
	Register(&grammar{
		name:       LanguageJavaScript,
		extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
		load:       javascript.GetLanguage,
	})
}

// registry holds all registered languages.
var registry = make(map[string]Language)

// Register adds a language to the registry.
// This is typically called from init() functions.
func Register(lang Language) {
	registry[lang.Name()] = lang
}

// Get returns a language by name, or nil if not found.
func Get(name string) Language {
	return registry[name]
}

// List returns all registered language names in sorted order.
func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByExtension finds a language by file extension.
func ByExtension(ext string) Language {
	ext = strings.ToLower(ext)
	for _, lang := range registry {
		for _, e := range lang.Extensions() {
			if e == ext {
				return lang
			}
		}
	}
	return nil
}

// TypeScript returns the grammar used by Extract.
func TypeScript() Language {
	return Get(LanguageTypeScript)
}

// LanguageForPath picks a grammar by file extension, falling back to TypeScript.
func LanguageForPath(path string) Language {
	if lang := ByExtension(filepath.Ext(path)); lang != nil {
		return lang
	}
	return TypeScript()
}
