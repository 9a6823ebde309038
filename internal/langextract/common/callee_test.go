package common

import "testing"

func TestSplitCalleeRightmostDot(t *testing.T) {
	cases := []struct {
		expr         string
		wantReceiver string
		wantCallee   string
		wantHas      bool
	}{
		{"s.Process", "s", "Process", true},
		{"client.get", "client", "get", true},
		{"a.b.c", "a.b", "c", true},
		{"helper", "", "helper", false},
		{"reqwest::get", "reqwest::get", "reqwest::get", false}, // no "." -- handled by language-specific splitters for "::"
	}

	for _, c := range cases {
		receiver, callee, hasReceiver := SplitCallee(c.expr)
		if hasReceiver != c.wantHas {
			t.Fatalf("SplitCallee(%q) hasReceiver = %v, want %v", c.expr, hasReceiver, c.wantHas)
		}
		if callee != c.wantCallee {
			t.Fatalf("SplitCallee(%q) callee = %q, want %q", c.expr, callee, c.wantCallee)
		}
		if hasReceiver && receiver != c.wantReceiver {
			t.Fatalf("SplitCallee(%q) receiver = %q, want %q", c.expr, receiver, c.wantReceiver)
		}
	}
}

// TestSplitCalleeLaw checks the callee-splitting law from spec.md §8:
// receiver + "." + callee == expr whenever expr contains a ".".
func TestSplitCalleeLaw(t *testing.T) {
	exprs := []string{"s.Process", "a.b.c", "x.y.z.w", "helper", ""}
	for _, expr := range exprs {
		receiver, callee, hasReceiver := SplitCallee(expr)
		if hasReceiver {
			if receiver+"."+callee != expr {
				t.Fatalf("law violated for %q: receiver=%q callee=%q", expr, receiver, callee)
			}
		} else if callee != expr {
			t.Fatalf("law violated for %q: callee=%q without receiver", expr, callee)
		}
	}
}
