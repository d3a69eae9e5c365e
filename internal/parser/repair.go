package parser

import "strings"

// scanState summarizes the structural state at the end of a JSON-ish
// document: the stack of unclosed brackets and whether the text ends
// inside a string literal.
type scanState struct {
	stack    []byte
	inString bool
}

func scan(s string) scanState {
	var st scanState
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if st.inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				st.inString = false
			}
			continue
		}
		switch c {
		case '"':
			st.inString = true
		case '{', '[':
			st.stack = append(st.stack, c)
		case '}':
			if n := len(st.stack); n > 0 && st.stack[n-1] == '{' {
				st.stack = st.stack[:n-1]
			}
		case ']':
			if n := len(st.stack); n > 0 && st.stack[n-1] == '[' {
				st.stack = st.stack[:n-1]
			}
		}
	}
	return st
}

// looksTruncated reports whether the text appears to have been cut off:
// it starts like a structural document but ends mid-token or with open
// brackets. This is a heuristic, not a guarantee.
func looksTruncated(s string) bool {
	if s == "" {
		return false
	}
	if s[0] != '{' && s[0] != '[' {
		return false
	}

	st := scan(s)
	if st.inString || len(st.stack) > 0 {
		return true
	}

	last := s[len(s)-1]
	return last != '}' && last != ']'
}

// repairTruncation makes the minimal structural fix to a truncated
// document: terminate an open string, drop a dangling separator (and the
// orphaned key a dangling colon leaves behind), then append the closing
// tokens for every open bracket. The result is reparsed exactly once;
// anything still broken falls through to the heuristic extractor.
func repairTruncation(s string) string {
	st := scan(s)

	if st.inString {
		s += `"`
	}
	s = strings.TrimRight(s, " \t\r\n")

	if strings.HasSuffix(s, ",") {
		s = strings.TrimRight(s[:len(s)-1], " \t\r\n")
	}
	if strings.HasSuffix(s, ":") {
		s = dropOrphanKey(s[:len(s)-1])
	}

	for i := len(st.stack) - 1; i >= 0; i-- {
		if st.stack[i] == '{' {
			s += "}"
		} else {
			s += "]"
		}
	}
	return s
}

// dropOrphanKey removes a trailing `"key"` (and the comma before it)
// whose value was lost to truncation.
func dropOrphanKey(s string) string {
	s = strings.TrimRight(s, " \t\r\n")
	if !strings.HasSuffix(s, `"`) {
		return s
	}

	// Find the unescaped opening quote of the key.
	for i := len(s) - 2; i >= 0; i-- {
		if s[i] == '"' && (i == 0 || s[i-1] != '\\') {
			s = strings.TrimRight(s[:i], " \t\r\n")
			s = strings.TrimSuffix(s, ",")
			return strings.TrimRight(s, " \t\r\n")
		}
	}
	return s
}
