// Package rust is the per-language semantic extractor for Rust,
// grounded on the teacher's function_item/trait_item/impl_item dispatch
// in unified_extractor.go (processSymbolNode's function_item ->
// extractRustMethod-when-inside-impl-or-trait branch), generalized to
// use_declaration import parsing and the reqwest/sqlx/tokio vocabulary
// spec.md requires.
package rust

import "github.com/standardbeagle/semext/internal/types"

// FileSemantics is Rust's <Lang>FileSemantics record (spec.md §3).
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
