package parser

import "fmt"

// ParseFormatError reports a transcript that does not have the expected shape.
type ParseFormatError struct {
	Line   int    // 1-based line in the shortresults block; 0 for the footer
	Text   string // Offending text
	Reason string
}

func (e *ParseFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse error on result line %d: %s: %q", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("parse error: %s: %q", e.Reason, e.Text)
}
