// Package parse is the thin wrapper around the tree-sitter grammar
// engine that realizes the parse-layer contract spec.md §6 assumes:
// parse(file_id, source) -> ParsedFile, with ParsedFile exposing a node's
// text, its (row, column, start_byte, end_byte), and navigable
// child/child_by_field_name/kind accessors. This package is the only
// place in the module that imports github.com/tree-sitter/go-tree-sitter
// directly outside the langextract packages' traversal code.
package parse

import (
	"sync"
	"unicode/utf8"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	semerrors "github.com/standardbeagle/semext/internal/errors"
	"github.com/standardbeagle/semext/internal/types"
)

// Parser lazily registers one tree-sitter grammar per supported language
// and hands out ParsedFile values. Grounded on the teacher's
// TreeSitterParser: a mutex-guarded lazy-init map, because constructing a
// tree_sitter.Parser and calling SetLanguage is not safe to race, even
// though using an already-parsed *ParsedFile afterward is (spec.md §5).
type Parser struct {
	mu      sync.Mutex
	parsers map[types.LanguageTag]*tree_sitter.Parser
	langs   map[types.LanguageTag]*tree_sitter.Language
}

// NewParser creates an empty registry; grammars are registered lazily on
// first use of each language.
func NewParser() *Parser {
	return &Parser{
		parsers: make(map[types.LanguageTag]*tree_sitter.Parser),
		langs:   make(map[types.LanguageTag]*tree_sitter.Language),
	}
}

func (p *Parser) ensure(lang types.LanguageTag) *tree_sitter.Parser {
	p.mu.Lock()
	defer p.mu.Unlock()

	if parser, ok := p.parsers[lang]; ok {
		return parser
	}

	var langPtr *tree_sitter.Language
	switch lang {
	case types.LanguagePython:
		langPtr = tree_sitter.NewLanguage(tree_sitter_python.Language())
	case types.LanguageGo:
		langPtr = tree_sitter.NewLanguage(tree_sitter_go.Language())
	case types.LanguageRust:
		langPtr = tree_sitter.NewLanguage(tree_sitter_rust.Language())
	case types.LanguageTypescript:
		langPtr = tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case types.LanguageJavascript:
		langPtr = tree_sitter.NewLanguage(tree_sitter_javascript.Language())
	default:
		return nil
	}

	parser := tree_sitter.NewParser()
	if err := parser.SetLanguage(langPtr); err != nil {
		return nil
	}

	p.parsers[lang] = parser
	p.langs[lang] = langPtr
	return parser
}

// ParsedFile bundles the source bytes, the parse tree, and the file's
// identity, per spec.md §3. It exclusively owns content and tree for the
// duration of extraction.
type ParsedFile struct {
	FileID   types.FileID
	Path     string
	Language types.LanguageTag
	Content  []byte
	Tree     *tree_sitter.Tree
}

// Root returns the tree's root node.
func (pf *ParsedFile) Root() *tree_sitter.Node {
	if pf.Tree == nil {
		return nil
	}
	return pf.Tree.RootNode()
}

// TextForNode returns the verbatim source text a node spans.
func (pf *ParsedFile) TextForNode(n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(pf.Content[n.StartByte():n.EndByte()])
}

// LocationForNode converts a node's 0-based tree-sitter position into the
// core's 1-based Location, the normalization boundary named in spec.md §3.
func (pf *ParsedFile) LocationForNode(n *tree_sitter.Node) types.Location {
	if n == nil {
		return types.Location{FileID: pf.FileID}
	}
	start := n.StartPosition()
	return types.Location{
		FileID:    pf.FileID,
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
}

// ParseFile parses source into a ParsedFile. Returns *errors.ParseFailedError
// when the grammar is unavailable or parsing fails, and
// *errors.InvalidSourceError when content is not valid UTF-8.
func (p *Parser) ParseFile(lang types.LanguageTag, fileID types.FileID, path string, source []byte) (*ParsedFile, error) {
	if !utf8.Valid(source) {
		return nil, semerrors.NewInvalidSourceError(path, "content is not valid UTF-8")
	}

	parser := p.ensure(lang)
	if parser == nil {
		return nil, semerrors.NewParseFailedError(path, lang.String(), errUnsupportedLanguage)
	}

	tree := parser.Parse(source, nil)
	if tree == nil || tree.RootNode() == nil {
		return nil, semerrors.NewParseFailedError(path, lang.String(), errGrammarRejected)
	}

	return &ParsedFile{
		FileID:   fileID,
		Path:     path,
		Language: lang,
		Content:  source,
		Tree:     tree,
	}, nil
}

var (
	errUnsupportedLanguage = simpleError("no grammar registered for language")
	errGrammarRejected     = simpleError("grammar produced no parse tree")
)

type simpleError string

func (e simpleError) Error() string { return string(e) }
