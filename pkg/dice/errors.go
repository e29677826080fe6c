package dice

import (
	"errors"
	"fmt"
	"strings"
)

// Error tags. Every Error carries exactly one stage tag (LexError,
// ParseError, EvalError) followed by a reason tag.
const (
	TagLexError   = "LexError"
	TagParseError = "ParseError"
	TagEvalError  = "EvalError"

	TagUnexpectedCharacter = "UnexpectedCharacter"
	TagUnexpectedToken     = "UnexpectedToken"
	TagUnexpectedEnd       = "UnexpectedEnd"
	TagMismatchedBrackets  = "MismatchedBrackets"
	TagInvalidSides        = "InvalidSides"
	TagInvalidCount        = "InvalidCount"
	TagDivideByZero        = "DivideByZero"
	TagResourceLimit       = "ResourceLimit"
)

// Error is a failure from any stage of the pipeline.
type Error struct {
	Message string
	Pos     int // byte offset in the source, -1 when not tied to a position
	Tags    []string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Pos >= 0 {
		return fmt.Sprintf("%s at position %d", e.Message, e.Pos)
	}
	return e.Message
}

// Stage returns the stage tag of the error.
func (e *Error) Stage() string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

// Reason returns the reason tag of the error.
func (e *Error) Reason() string {
	if len(e.Tags) < 2 {
		return ""
	}
	return e.Tags[len(e.Tags)-1]
}

// HasTag returns true if the error has the specified tag.
func (e *Error) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// String lists the tags, useful in test failures.
func (e *Error) String() string {
	return fmt.Sprintf("%s [%s]", e.Error(), strings.Join(e.Tags, ", "))
}

// IsTag reports whether err wraps an *Error carrying tag.
func IsTag(err error, tag string) bool {
	var de *Error
	if !errors.As(err, &de) {
		return false
	}
	return de.HasTag(tag)
}

func newLexError(pos int, reason, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, Tags: []string{TagLexError, reason}}
}

func newParseError(pos int, reason, format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...), Pos: pos, Tags: []string{TagParseError, reason}}
}

// NewEvalError creates an evaluation error with the given reason tag.
func NewEvalError(reason, msg string) *Error {
	return &Error{Message: msg, Pos: -1, Tags: []string{TagEvalError, reason}}
}

// NewDivideByZeroError creates a DivideByZero evaluation error.
func NewDivideByZeroError() *Error {
	return NewEvalError(TagDivideByZero, "division by zero")
}
