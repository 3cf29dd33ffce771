package lut

import (
	"errors"
	"fmt"
)

var (
	// ErrSizeTooLarge is returned when a grid side exceeds MaxSize.
	ErrSizeTooLarge = errors.New("3D LUT too large")

	// ErrUnexpectedEOF is returned when a stream ends before the grid is full.
	ErrUnexpectedEOF = errors.New("unexpected end of LUT data")

	// ErrMalformedLine is returned when a data or header line cannot be parsed.
	ErrMalformedLine = errors.New("malformed LUT line")

	// ErrMissingHeader is returned when a required header field is absent.
	ErrMissingHeader = errors.New("missing required LUT header")

	// ErrUnrecognizedFormat is returned when no parser matches the requested format.
	ErrUnrecognizedFormat = errors.New("unrecognized LUT format")

	// ErrEmptyResult is returned when parsing produced no usable grid.
	ErrEmptyResult = errors.New("3D LUT is empty")
)

// ParseError records where in a LUT stream a parse failed.
type ParseError struct {
	Format Format
	Line   int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %v", e.Format, e.Line, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
