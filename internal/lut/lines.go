package lut

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// maxLineSize bounds a single LUT line; real files never come close.
const maxLineSize = 64 * 1024

// lineReader walks a LUT stream one line at a time and remembers the current
// line number for error reporting. It is owned by a single parse call.
type lineReader struct {
	sc     *bufio.Scanner
	format Format
	line   int
}

func newLineReader(r io.Reader, format Format) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 512), maxLineSize)
	return &lineReader{sc: sc, format: format}
}

// next returns the next raw line. The end of the stream is reported as
// ErrUnexpectedEOF; callers that may legitimately stop there use scan instead.
func (lr *lineReader) next() (string, error) {
	text, ok, err := lr.scan()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", lr.fail(ErrUnexpectedEOF)
	}
	return text, nil
}

// nextData returns the next line that is neither blank nor a comment.
func (lr *lineReader) nextData() (string, error) {
	for {
		text, err := lr.next()
		if err != nil {
			return "", err
		}
		if !skipLine(text) {
			return text, nil
		}
	}
}

// scan advances one line, reporting ok=false at a clean end of stream.
func (lr *lineReader) scan() (string, bool, error) {
	if !lr.sc.Scan() {
		if err := lr.sc.Err(); err != nil {
			return "", false, lr.fail(fmt.Errorf("%w: %w", ErrUnexpectedEOF, err))
		}
		return "", false, nil
	}
	lr.line++
	return lr.sc.Text(), true, nil
}

func (lr *lineReader) fail(err error) error {
	return &ParseError{Format: lr.format, Line: lr.line, Err: err}
}

// skipLine reports whether a line is blank or a comment.
func skipLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t\r\n\v\f")
	return trimmed == "" || trimmed[0] == '#'
}

// parseFloatTriplet reads the first three whitespace-separated floats of a line.
func parseFloatTriplet(line string) ([3]float32, error) {
	var v [3]float32
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return v, fmt.Errorf("%w: expected 3 values, got %d", ErrMalformedLine, len(fields))
	}
	for i := range v {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, fmt.Errorf("%w: %q is not a number", ErrMalformedLine, fields[i])
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseIntTriplet reads the first three whitespace-separated integers of a line.
func parseIntTriplet(line string) ([3]int, error) {
	var v [3]int
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return v, fmt.Errorf("%w: expected 3 values, got %d", ErrMalformedLine, len(fields))
	}
	for i := range v {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return v, fmt.Errorf("%w: %q is not an integer", ErrMalformedLine, fields[i])
		}
		v[i] = n
	}
	return v, nil
}
