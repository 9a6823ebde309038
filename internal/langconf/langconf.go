// Package langconf holds a small typed options struct for callers of the
// extraction core, in the spirit of the teacher's internal/config package's
// typed-struct-plus-defaults approach but without any on-disk config
// loading: this core has no CLI or file format of its own (spec.md §1),
// so the caller constructs ExtractOptions directly.
package langconf

// ExtractOptions records how much work a caller wants done. The split
// between FromParsed and AnalyzeFrameworks (spec.md §4.1) exists because
// basic structure is cheap and always needed while framework detection is
// heavier. No extractor reads ExtractOptions: the caller consults it to
// decide which of the two it calls.
type ExtractOptions struct {
	// EnableFrameworks, when true, means the caller runs AnalyzeFrameworks
	// after FromParsed so HTTP/DB/async facts are populated (state
	// Annotated). When false, the caller stops at the Structured state.
	EnableFrameworks bool

	// MaxFileBytes caps the source size a caller will hand to the parse
	// layer; zero means no cap. This core never enforces it itself (file
	// I/O is an external collaborator's concern, spec.md §1) — it is a
	// convenience default for callers that read files before parsing.
	MaxFileBytes int
}

// DefaultOptions returns the options a caller should use absent any
// other preference: frameworks enabled, no size cap.
func DefaultOptions() ExtractOptions {
	return ExtractOptions{EnableFrameworks: true}
}
