package svgpath

import (
	"errors"
	"math"
	stdstrconv "strconv"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/strconv"
)

// ErrInvalidNumber is returned for attribute values which are not
// (lists of) numbers.
var ErrInvalidNumber = errors.New("invalid number")

// ParseNumber parses a single number, surrounded by optional spaces.
func ParseNumber(s string) (float64, error) {
	sc := scanner{b: []byte(s)}
	f, ok := sc.number()
	sc.skipSpaces()
	if !ok || !sc.eof() {
		return 0, ErrInvalidNumber
	}
	return f, nil
}

// scanner reads the numbers of path data and transform lists.
type scanner struct {
	b []byte
	i int
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func (s *scanner) eof() bool { return s.i >= len(s.b) }

func (s *scanner) peek() byte {
	if s.i < len(s.b) {
		return s.b[s.i]
	}
	return 0
}

func (s *scanner) skipSpaces() {
	for s.i < len(s.b) && isSpace(s.b[s.i]) {
		s.i++
	}
}

// skipSeparators skips white spaces and at most one comma.
func (s *scanner) skipSeparators() {
	s.skipSpaces()
	if s.peek() == ',' {
		s.i++
		s.skipSpaces()
	}
}

// number reads one number, returning false without consuming
// anything if the input does not start with one.
func (s *scanner) number() (float64, bool) {
	s.skipSeparators()
	n := parse.Number(s.b[s.i:])
	if n == 0 {
		return 0, false
	}
	f, m := strconv.ParseFloat(s.b[s.i : s.i+n])
	if m != n || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	s.i += n
	return f, true
}

// flag reads a single character arc flag.
func (s *scanner) flag() (bool, bool) {
	s.skipSeparators()
	switch s.peek() {
	case '0':
		s.i++
		return false, true
	case '1':
		s.i++
		return true, true
	}
	return false, false
}

// formatNumber rounds f to the given number of decimals and
// returns its shortest decimal form, never "-0".
func formatNumber(f float64, decimals int) string {
	return string(appendNumber(nil, f, decimals, false))
}

func appendNumber(dst []byte, f float64, decimals int, compact bool) []byte {
	if decimals >= 0 {
		p := math.Pow10(decimals)
		f = math.Round(f*p) / p
	}
	if f == 0 {
		f = 0 // drops the sign of -0
	}
	start := len(dst)
	dst = stdstrconv.AppendFloat(dst, f, 'f', -1, 64)
	if compact {
		num := minify.Number(dst[start:], -1)
		dst = append(dst[:start], num...)
	}
	return dst
}
