package common

import "github.com/standardbeagle/semext/internal/types"

// AttributeCalls implements the byte-range containment post-pass
// described in spec.md §4.1: for each function, attach every call site
// whose byte range is inclusively contained in the function's byte range.
// Extractors that already attribute calls at emission time via the
// traversal context (the preferred path) don't need this; it exists for
// any walk that emits flat call sites first and attributes them after.
func AttributeCalls(fns []types.FunctionDef, calls []types.FunctionCall, callLoc func(types.FunctionCall) types.Location) {
	for i := range fns {
		fnLoc := fns[i].Location
		for _, c := range calls {
			if fnLoc.Contains(callLoc(c)) {
				fns[i].Calls = append(fns[i].Calls, c)
			}
		}
	}
}

// Contains reports whether inner's byte range is inclusively contained in
// outer's. Ties (zero-length ranges) are included, per spec.md §4.1.
func Contains(outer, inner types.Location) bool {
	return outer.StartByte <= inner.StartByte && inner.EndByte <= outer.EndByte
}
