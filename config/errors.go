package config

import (
	"fmt"
	"strings"
)

// ParseError reports a structural problem in the textual format: a malformed
// section header, an unrecognized line, or a scalar/section collision.
type ParseError struct {
	Line    int // 1-based; 0 when no single line is at fault
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config: line %d: %s", e.Line, e.Message)
	}
	return "config: " + e.Message
}

// ReferenceError reports a placeholder whose dotted path does not exist in
// the tree being interpolated.
type ReferenceError struct {
	Path string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("config: unresolved reference ${%s}", e.Path)
}

// CycleError reports that resolving a placeholder revisited a path that is
// already being resolved. Chain holds the paths on the resolution stack, in
// order, when the cycle was hit.
type CycleError struct {
	Path  string
	Chain []string
}

func (e *CycleError) Error() string {
	if len(e.Chain) > 0 {
		return fmt.Sprintf("config: interpolation cycle at ${%s} (via %s)", e.Path, strings.Join(e.Chain, " -> "))
	}
	return fmt.Sprintf("config: interpolation cycle at ${%s}", e.Path)
}
