package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScanMode selects how a JSON object is located in free-form model output.
type ScanMode string

const (
	// ScanFirst takes the first balanced top-level {...} that is valid JSON.
	ScanFirst ScanMode = "first"
	// ScanWidest takes everything from the first '{' to the last '}'.
	ScanWidest ScanMode = "widest"
)

// ParseScanMode maps a config value onto a ScanMode; unknown values become ScanFirst.
func ParseScanMode(s string) ScanMode {
	if ScanMode(strings.ToLower(strings.TrimSpace(s))) == ScanWidest {
		return ScanWidest
	}
	return ScanFirst
}

// FindJSONObject returns the JSON object text located in s using mode.
func FindJSONObject(s string, mode ScanMode) (string, error) {
	var (
		span string
		ok   bool
	)
	switch mode {
	case ScanWidest:
		span, ok = WidestBraceSpan(s)
	default:
		span, ok = FirstBalancedObject(s)
	}
	if !ok {
		return "", fmt.Errorf("no JSON object found in response (mode=%s)", mode)
	}
	if !json.Valid([]byte(span)) {
		return "", fmt.Errorf("response span is not valid JSON (mode=%s)", mode)
	}
	return span, nil
}

// FirstBalancedObject scans left to right for the first top-level '{' whose
// matching '}' closes a span that is valid JSON. Braces inside string
// literals are ignored. A balanced but invalid span (for example "{name}" in
// prose) is skipped whole, so objects nested inside it are never returned.
// An unbalanced '{' is skipped and scanning resumes after it.
func FirstBalancedObject(s string) (string, bool) {
	for start := strings.IndexByte(s, '{'); start >= 0; {
		resume := start + 1
		if end, balanced := matchBrace(s, start); balanced {
			if candidate := s[start : end+1]; json.Valid([]byte(candidate)) {
				return candidate, true
			}
			resume = end + 1
		}
		next := strings.IndexByte(s[resume:], '{')
		if next < 0 {
			return "", false
		}
		start = resume + next
	}
	return "", false
}

// matchBrace returns the index of the '}' closing the '{' at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// WidestBraceSpan returns the text from the first '{' through the last '}'.
func WidestBraceSpan(s string) (string, bool) {
	first := strings.IndexByte(s, '{')
	last := strings.LastIndexByte(s, '}')
	if first < 0 || last < first {
		return "", false
	}
	return s[first : last+1], true
}
