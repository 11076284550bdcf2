package parser

import (
	"errors"
	"fmt"
)

// ErrAnalysisStopped is returned by every production once the syntax error
// cap has been reached. The errors and symbols collected so far stay valid.
var ErrAnalysisStopped = errors.New("analysis stopped: syntax error limit reached")

// errRecovered signals that a production failed, recovery already ran, and
// the caller should resume with its next iteration.
var errRecovered = errors.New("production abandoned after recovery")

type LexicalErrorKind int

const (
	ErrUnrecognizedChar LexicalErrorKind = iota
	ErrInvalidIdentifier
)

func (k LexicalErrorKind) String() string {
	switch k {
	case ErrUnrecognizedChar:
		return "UnrecognizedChar"
	case ErrInvalidIdentifier:
		return "InvalidIdentifier"
	}
	return "Unknown"
}

func (k LexicalErrorKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

type LexicalError struct {
	Kind LexicalErrorKind
	Pos  Position
	Text string
}

func (e LexicalError) Message() string {
	switch e.Kind {
	case ErrInvalidIdentifier:
		return fmt.Sprintf("invalid identifier: '%s' cannot start with a digit", e.Text)
	default:
		return fmt.Sprintf("unrecognized character: '%s'", e.Text)
	}
}

func (e LexicalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message())
}

type SyntaxError struct {
	Pos     Position
	Message string
	Found   Token
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s, found %s", e.Pos, e.Message, e.Found)
}
