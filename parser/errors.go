package parser

import (
	"errors"
	"fmt"

	"github.com/sqlfront/sqlfront/tokenizer"
)

// Sentinel errors
var (
	ErrUnexpectedToken    = errors.New("unexpected token")
	ErrUnexpectedEOF      = errors.New("unexpected end of input")
	ErrExpectedExpression = errors.New("expected expression")
	ErrExpectedStatement  = errors.New("expected statement")
	ErrEmptyInput         = errors.New("empty input")
)

// ParseError is a single syntax error with its source location. Lexical errors
// found while tokenizing are reported through the same type.
type ParseError struct {
	Err     error
	Message string
	Span    tokenizer.Span
}

func (e *ParseError) Error() string {
	if e.Message == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Err, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParserError aggregates every syntax error found in one parse. The parse
// result is still usable; abandoned statements appear as BadStatement nodes.
type ParserError struct {
	Errors []*ParseError
}

func (e *ParserError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "parse failed"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors, first: %s", len(e.Errors), e.Errors[0].Error())
	}
}

func (e *ParserError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, err := range e.Errors {
		errs[i] = err
	}
	return errs
}
