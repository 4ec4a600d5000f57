package valueparse

import (
	"fmt"
	"strings"
)

// AmbiguousParse is raised as a Go panic by ParseDate and ParseMonetary
// when more than one parser in a disjoint family matches the same input.
// Nothing in this module recovers it: it propagates through the dialect
// parsers to their caller.
// Per spec.md §7 this is fatal: it means the parser set itself needs
// tightening, not that the input is unusual.
type AmbiguousParse struct {
	Kind       string // "date" or "monetary"
	Text       string
	MatchCount int
}

func (e AmbiguousParse) Error() string {
	return fmt.Sprintf("ambiguous %s parse for %q: %d parsers matched", e.Kind, e.Text, e.MatchCount)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
