// Package python is the per-language semantic extractor for Python,
// grounded on the teacher's function/class/import dispatch in
// unified_extractor.go's processSymbolNode (function_definition,
// class_definition, import_statement/import_from_statement) generalized
// to the full fine-grained import, decorator, and async model spec.md
// requires.
package python

import "github.com/standardbeagle/semext/internal/types"

// FileSemantics is Python's <Lang>FileSemantics record (spec.md §3).
type FileSemantics struct {
	FileID          types.FileID
	Path            string
	State           types.ExtractionState
	Imports         []types.Import
	Functions       []types.FunctionDef
	AsyncOperations []types.AsyncOperation
	HttpCalls       []types.HttpCall
	DbOperations    []types.DbOperation
}
