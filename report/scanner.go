package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

/*
Scanner streams records out of a report. Blank lines are skipped silently;
malformed lines surface as a ParseError from Record and scanning continues, so
that one bad line never fails a whole load.
*/

////////////////////////////////////////////////////////////////////////////////

const maxLineBytes = 1 << 20

// Scanner reads records from a report one line at a time.
type Scanner struct {
	s     *bufio.Scanner
	units uint64
	line  int
	rec   Record
	err   error
}

// NewScanner returns a scanner over r. Sizes are multiplied by units.
func NewScanner(r io.Reader, units uint64) *Scanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return &Scanner{s: s, units: units}
}

// Next advances to the next non-blank line. It returns false at the end of
// the input or on an I/O error, which is then available from Err.
func (s *Scanner) Next() bool {
	for s.s.Scan() {
		s.line++
		text := s.s.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		s.rec, s.err = ParseLine(text, s.units)
		var perr ParseError
		if errors.As(s.err, &perr) {
			perr.Line = s.line
			s.err = perr
		}
		return true
	}
	return false
}

// Record returns the record on the current line, or a ParseError if the line
// is malformed.
func (s *Scanner) Record() (Record, error) {
	return s.rec, s.err
}

// Line returns the one-based number of the current line.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first I/O error encountered by the scanner.
func (s *Scanner) Err() error {
	if err := s.s.Err(); err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	return nil
}
