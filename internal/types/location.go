// Package types holds the language-neutral data model shared by every
// per-language extractor and the common normalization layer: locations,
// imports, functions, calls, and the HTTP/DB/async fact records.
package types

// FileID identifies a source file. Callers assign it; the core never
// dereferences it beyond equality and propagation.
type FileID uint32

// LanguageTag names a supported source language.
type LanguageTag uint8

const (
	LanguageUnknown LanguageTag = iota
	LanguagePython
	LanguageGo
	LanguageRust
	LanguageTypescript
	LanguageJavascript
)

func (l LanguageTag) String() string {
	switch l {
	case LanguagePython:
		return "python"
	case LanguageGo:
		return "go"
	case LanguageRust:
		return "rust"
	case LanguageTypescript:
		return "typescript"
	case LanguageJavascript:
		return "javascript"
	default:
		return "unknown"
	}
}

// Location is a 1-based line/column plus a byte range into the file's
// source. Rows and columns at the parser interface are 0-based; every
// extractor converts to 1-based the moment it reads a node's position
// (see internal/langextract/common.Locate), so Location is always 1-based
// by the time it reaches a FunctionDef, FunctionCall, HttpCall,
// DbOperation, or AsyncOperation.
type Location struct {
	FileID    FileID
	Line      int
	Column    int
	StartByte int
	EndByte   int
}

// Contains reports whether the byte range [other.StartByte, other.EndByte]
// is inclusively contained in [l.StartByte, l.EndByte].
func (l Location) Contains(other Location) bool {
	return l.StartByte <= other.StartByte && other.EndByte <= l.EndByte
}

// ExtractionState tracks how far a <Lang>FileSemantics record has
// progressed: Parsed is the raw tree (not itself represented by a
// FileSemantics value), Structured means imports/functions/calls are
// filled, Annotated additionally has HTTP/DB/async facts.
type ExtractionState uint8

const (
	StateStructured ExtractionState = iota
	StateAnnotated
)

func (s ExtractionState) String() string {
	if s == StateAnnotated {
		return "annotated"
	}
	return "structured"
}
