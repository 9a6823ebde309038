// Package ecma is the shared per-language semantic extractor for both
// TypeScript and JavaScript, grounded on the teacher's extractJSImport
// and arrow-function dual-nature handling in unified_extractor.go, one
// substrate for both per spec.md §2 (TypeScript's grammar is a superset
// with type-only import/export forms layered on).
package ecma

import "github.com/standardbeagle/semext/internal/types"

// FileSemantics is the shared <Lang>FileSemantics record used for both
// TypeScript and JavaScript files (spec.md §3).
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
