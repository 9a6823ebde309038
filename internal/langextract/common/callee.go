package common

import "strings"

// SplitCallee splits a callee expression at the rightmost `.` (spec.md
// §4.1). The tail is the callee; the head, if any, is the receiver.
// Satisfies the callee-splitting law (spec.md §8): when expr contains a
// `.`, receiver+"."+callee == expr; otherwise hasReceiver is false and
// callee == expr.
func SplitCallee(expr string) (receiver string, callee string, hasReceiver bool) {
	idx := strings.LastIndex(expr, ".")
	if idx < 0 {
		return "", expr, false
	}
	return expr[:idx], expr[idx+1:], true
}
