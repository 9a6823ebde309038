// Package semantics is the common normalization layer (spec.md §4.6/§6):
// it projects every per-language <Lang>FileSemantics record onto the
// single CommonSemantics capability surface, a total function — every
// category returns a value, defaulting to an empty/nil sequence when the
// extractor that produced it never filled it (spec.md §8 "Normalization
// totality"). No per-language enum remapping happens here: extractors
// already emit the shared taxonomy's enums directly (see DESIGN.md's
// Open Question 3), so this layer is purely an interface projection plus
// the stub categories spec.md §9 leaves unpopulated.
package semantics

import (
	"github.com/standardbeagle/semext/internal/langextract/ecma"
	"github.com/standardbeagle/semext/internal/langextract/golang"
	"github.com/standardbeagle/semext/internal/langextract/python"
	"github.com/standardbeagle/semext/internal/langextract/rust"
	"github.com/standardbeagle/semext/internal/types"
)

// CommonSemantics is the cross-language capability surface every
// collaborator (dependency graph, reporting, lint-style diagnostics)
// consumes instead of reaching into a language-specific record directly
// (spec.md §6).
type CommonSemantics interface {
	FileID() types.FileID
	FilePath() string
	Language() types.LanguageTag
	Imports() []types.Import
	Functions() []types.FunctionDef
	HttpCalls() []types.HttpCall
	DbOperations() []types.DbOperation
	AsyncOperations() []types.AsyncOperation
	Annotations() []types.Annotation
	RoutePatterns() []types.RoutePattern
	NPlusOnePatterns() []types.NPlusOnePattern
	ErrorContexts() []types.ErrorContext
}

// FromPython wraps a Python <Lang>FileSemantics as CommonSemantics.
func FromPython(fs *python.FileSemantics) CommonSemantics {
	return pythonView{fs: fs}
}

// FromGo wraps a Go <Lang>FileSemantics as CommonSemantics.
func FromGo(fs *golang.FileSemantics) CommonSemantics {
	return goView{fs: fs}
}

// FromRust wraps a Rust <Lang>FileSemantics as CommonSemantics.
func FromRust(fs *rust.FileSemantics) CommonSemantics {
	return rustView{fs: fs}
}

// FromEcma wraps the shared TypeScript/JavaScript <Lang>FileSemantics as
// CommonSemantics. lang distinguishes Typescript from Javascript, since
// ecma.FileSemantics itself carries no language tag (one substrate backs
// both, spec.md §2).
func FromEcma(fs *ecma.FileSemantics, lang types.LanguageTag) CommonSemantics {
	return ecmaView{fs: fs, lang: lang}
}

type pythonView struct{ fs *python.FileSemantics }

func (v pythonView) FileID() types.FileID                        { return v.fs.FileID }
func (v pythonView) FilePath() string                             { return v.fs.Path }
func (v pythonView) Language() types.LanguageTag                  { return types.LanguagePython }
func (v pythonView) Imports() []types.Import                      { return v.fs.Imports }
func (v pythonView) Functions() []types.FunctionDef               { return v.fs.Functions }
func (v pythonView) HttpCalls() []types.HttpCall                  { return v.fs.HttpCalls }
func (v pythonView) DbOperations() []types.DbOperation            { return v.fs.DbOperations }
func (v pythonView) AsyncOperations() []types.AsyncOperation      { return v.fs.AsyncOperations }
func (v pythonView) Annotations() []types.Annotation              { return nil }
func (v pythonView) RoutePatterns() []types.RoutePattern          { return nil }
func (v pythonView) NPlusOnePatterns() []types.NPlusOnePattern    { return nil }
func (v pythonView) ErrorContexts() []types.ErrorContext          { return nil }

type goView struct{ fs *golang.FileSemantics }

func (v goView) FileID() types.FileID                     { return v.fs.FileID }
func (v goView) FilePath() string                          { return v.fs.Path }
func (v goView) Language() types.LanguageTag               { return types.LanguageGo }
func (v goView) Imports() []types.Import                   { return v.fs.Imports }
func (v goView) Functions() []types.FunctionDef            { return v.fs.Functions }
func (v goView) HttpCalls() []types.HttpCall               { return v.fs.HttpCalls }
func (v goView) DbOperations() []types.DbOperation         { return v.fs.DbOperations }
func (v goView) AsyncOperations() []types.AsyncOperation   { return v.fs.AsyncOperations }
func (v goView) Annotations() []types.Annotation           { return nil }
func (v goView) RoutePatterns() []types.RoutePattern       { return nil }
func (v goView) NPlusOnePatterns() []types.NPlusOnePattern { return nil }
func (v goView) ErrorContexts() []types.ErrorContext       { return nil }

type rustView struct{ fs *rust.FileSemantics }

func (v rustView) FileID() types.FileID                     { return v.fs.FileID }
func (v rustView) FilePath() string                          { return v.fs.Path }
func (v rustView) Language() types.LanguageTag               { return types.LanguageRust }
func (v rustView) Imports() []types.Import                   { return v.fs.Imports }
func (v rustView) Functions() []types.FunctionDef            { return v.fs.Functions }
func (v rustView) HttpCalls() []types.HttpCall               { return v.fs.HttpCalls }
func (v rustView) DbOperations() []types.DbOperation         { return v.fs.DbOperations }
func (v rustView) AsyncOperations() []types.AsyncOperation   { return v.fs.AsyncOperations }
func (v rustView) Annotations() []types.Annotation           { return nil }
func (v rustView) RoutePatterns() []types.RoutePattern       { return nil }
func (v rustView) NPlusOnePatterns() []types.NPlusOnePattern { return nil }
func (v rustView) ErrorContexts() []types.ErrorContext       { return nil }

type ecmaView struct {
	fs   *ecma.FileSemantics
	lang types.LanguageTag
}

func (v ecmaView) FileID() types.FileID                     { return v.fs.FileID }
func (v ecmaView) FilePath() string                          { return v.fs.Path }
func (v ecmaView) Language() types.LanguageTag               { return v.lang }
func (v ecmaView) Imports() []types.Import                   { return v.fs.Imports }
func (v ecmaView) Functions() []types.FunctionDef            { return v.fs.Functions }
func (v ecmaView) HttpCalls() []types.HttpCall               { return v.fs.HttpCalls }
func (v ecmaView) DbOperations() []types.DbOperation         { return v.fs.DbOperations }
func (v ecmaView) AsyncOperations() []types.AsyncOperation   { return v.fs.AsyncOperations }
func (v ecmaView) Annotations() []types.Annotation           { return nil }
func (v ecmaView) RoutePatterns() []types.RoutePattern       { return nil }
func (v ecmaView) NPlusOnePatterns() []types.NPlusOnePattern { return nil }
func (v ecmaView) ErrorContexts() []types.ErrorContext       { return nil }
