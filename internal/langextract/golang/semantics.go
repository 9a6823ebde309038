// Package golang is the per-language semantic extractor for Go, grounded
// on the teacher's Go-specific node-kind tables in
// parser_language_setup.go (method_declaration/receiver/field_identifier)
// and the goroutine/channel/mutex/defer handling in
// unified_extractor_side_effects.go.
package golang

import "github.com/standardbeagle/semext/internal/types"

// FileSemantics is Go's <Lang>FileSemantics record (spec.md §3): it
// exclusively owns its sequences once built from a *parse.ParsedFile.
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
