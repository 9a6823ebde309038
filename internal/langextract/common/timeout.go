package common

import (
	"strconv"
	"strings"
)

// ExtractTimeoutSeconds implements spec.md §4.3's numeric timeout
// extraction: Duration::from_secs(N) -> N seconds, Duration::from_millis(N)
// -> N/1000 seconds, and a direct numeric literal after "timeout=" (the
// Python/keyword-argument form). Returns ok=false when no recognized
// pattern is present, leaving the caller's HasTimeout/TimeoutValueSecs at
// their zero values.
func ExtractTimeoutSeconds(text string) (float64, bool) {
	if n, ok := extractAfter(text, "Duration::from_secs("); ok {
		return float64(n), true
	}
	if n, ok := extractAfter(text, "Duration::from_millis("); ok {
		return float64(n) / 1000.0, true
	}
	if n, ok := extractNumericAfter(text, "timeout="); ok {
		return n, true
	}
	return 0, false
}

// extractAfter parses the integer immediately following marker, up to the
// closing paren.
func extractAfter(text, marker string) (int64, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return 0, false
	}
	rest := text[idx+len(marker):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return 0, false
	}
	digits := strings.TrimSpace(rest[:end])
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// extractNumericAfter parses a float/int literal immediately following
// marker, stopping at the first character that isn't part of a number.
func extractNumericAfter(text, marker string) (float64, bool) {
	idx := strings.Index(text, marker)
	if idx < 0 {
		return 0, false
	}
	rest := text[idx+len(marker):]
	end := 0
	for end < len(rest) {
		c := rest[end]
		if (c >= '0' && c <= '9') || c == '.' {
			end++
			continue
		}
		break
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.ParseFloat(rest[:end], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
