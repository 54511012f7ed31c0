package dataset

import "fmt"

// ParseError reports malformed markup or an invalid attribute in a data
// file. Any parse error aborts the whole run; partial output is never
// trusted.
type ParseError struct {
	File    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		if e.Line > 0 {
			return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Message)
		}
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	}
	return e.Message
}

// parseErrorf builds a ParseError without line information.
func parseErrorf(file, format string, args ...any) *ParseError {
	return &ParseError{File: file, Message: fmt.Sprintf(format, args...)}
}
