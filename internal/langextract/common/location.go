// Package common holds the traversal context, byte-range containment,
// callee-splitting, and location-conversion helpers shared by every
// per-language extractor (spec.md §4.1).
package common

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/standardbeagle/semext/internal/types"
)

// Locate converts a tree-sitter node's 0-based row/column into the core's
// 1-based types.Location. This is the single point where the 0-based to
// 1-based conversion happens (spec.md §3's "normalization boundary").
func Locate(fileID types.FileID, n *tree_sitter.Node) types.Location {
	if n == nil {
		return types.Location{FileID: fileID}
	}
	start := n.StartPosition()
	return types.Location{
		FileID:    fileID,
		Line:      int(start.Row) + 1,
		Column:    int(start.Column) + 1,
		StartByte: int(n.StartByte()),
		EndByte:   int(n.EndByte()),
	}
}

// TextOf returns a node's verbatim source text.
func TextOf(content []byte, n *tree_sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(content[n.StartByte():n.EndByte()])
}
