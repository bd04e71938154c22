package svgpath

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrParamMismatch is returned for a malformed transform list, most
// often a wrong number of arguments.
var ErrParamMismatch = errors.New("invalid transform")

// TransformKind is one of the SVG transform functions.
type TransformKind uint8

const (
	MatrixKind TransformKind = iota
	TranslateKind
	ScaleKind
	RotateKind
	SkewXKind
	SkewYKind
)

var transformNames = [...]string{
	MatrixKind:    "matrix",
	TranslateKind: "translate",
	ScaleKind:     "scale",
	RotateKind:    "rotate",
	SkewXKind:     "skewX",
	SkewYKind:     "skewY",
}

func (k TransformKind) String() string {
	if int(k) < len(transformNames) {
		return transformNames[k]
	}
	return fmt.Sprintf("<transform %d>", k)
}

// TransformOp is one function of a transform list, with its
// arguments as written (angles in degrees).
type TransformOp struct {
	Kind TransformKind
	Args []float64
}

// Matrix returns the matrix of the operation, filling the
// optional arguments with their SVG defaults.
func (op TransformOp) Matrix() Matrix2D {
	arg := func(i int, def float64) float64 {
		if i < len(op.Args) {
			return op.Args[i]
		}
		return def
	}
	switch op.Kind {
	case MatrixKind:
		return Matrix2D{arg(0, 1), arg(1, 0), arg(2, 0), arg(3, 1), arg(4, 0), arg(5, 0)}
	case TranslateKind:
		return Identity.Translate(arg(0, 0), arg(1, 0))
	case ScaleKind:
		sx := arg(0, 1)
		return Identity.Scale(sx, arg(1, sx))
	case RotateKind:
		cx, cy := arg(1, 0), arg(2, 0)
		return Identity.Translate(cx, cy).Rotate(arg(0, 0) * math.Pi / 180).Translate(-cx, -cy)
	case SkewXKind:
		return Identity.SkewX(arg(0, 0) * math.Pi / 180)
	case SkewYKind:
		return Identity.SkewY(arg(0, 0) * math.Pi / 180)
	}
	return Identity
}

// Transform is an ordered transform list. The nil value is the
// identity.
type Transform []TransformOp

// Matrix composes the list, the first operation being the outermost,
// as in the SVG transform attribute.
func (t Transform) Matrix() Matrix2D {
	m := Identity
	for _, op := range t {
		m = m.Mult(op.Matrix())
	}
	return m
}

func (t Transform) IsIdentity() bool { return t.Matrix().IsIdentity() }

// Then returns the transform applying t, then u. That is, u is
// the parent (outer) transform.
func (t Transform) Then(u Transform) Transform {
	out := make(Transform, 0, len(t)+len(u))
	out = append(out, u...)
	return append(out, t...)
}

func (op TransformOp) String() string {
	var sb strings.Builder
	sb.WriteString(op.Kind.String())
	sb.WriteByte('(')
	for j, a := range op.Args {
		if j > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatNumber(a, 6))
	}
	sb.WriteByte(')')
	return sb.String()
}

// String returns the SVG notation of the list.
func (t Transform) String() string { return FormatTransform(t) }

// FormatTransform returns the SVG notation of ops.
func FormatTransform(ops []TransformOp) string {
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = op.String()
	}
	return strings.Join(parts, " ")
}

// Compose returns the matrix of a transform list.
func Compose(ops []TransformOp) Matrix2D { return Transform(ops).Matrix() }

// ParseTransform parses a transform list and composes it.
func ParseTransform(s string) (Matrix2D, error) {
	ops, err := ParseTransformList(s)
	if err != nil {
		return Identity, err
	}
	return Compose(ops), nil
}

// MatrixTransform wraps a matrix as a one element transform list.
func MatrixTransform(m Matrix2D) Transform {
	return Transform{{Kind: MatrixKind, Args: []float64{m.A, m.B, m.C, m.D, m.E, m.F}}}
}

// ParseTransformList parses an SVG transform list such as
// "translate(10 20) rotate(45, 5, 5)". Function names are case
// sensitive, arguments may be separated by commas or spaces.
func ParseTransformList(s string) (Transform, error) {
	sc := scanner{b: []byte(s)}
	var out Transform
	for {
		sc.skipSeparators()
		if sc.eof() {
			return out, nil
		}
		start := sc.i
		for !sc.eof() && isLetter(sc.peek()) {
			sc.i++
		}
		name := s[start:sc.i]
		kind, ok := transformKind(name)
		if !ok {
			return out, fmt.Errorf("%w: unknown function %q at offset %d", ErrParamMismatch, name, start)
		}
		sc.skipSpaces()
		if sc.peek() != '(' {
			return out, fmt.Errorf("%w: expected '(' after %s at offset %d", ErrParamMismatch, name, sc.i)
		}
		sc.i++

		var args []float64
		for {
			f, ok := sc.number()
			if !ok {
				break
			}
			args = append(args, f)
		}
		sc.skipSpaces()
		if sc.peek() != ')' {
			return out, fmt.Errorf("%w: expected ')' to close %s at offset %d", ErrParamMismatch, name, sc.i)
		}
		sc.i++

		if !validArgCount(kind, len(args)) {
			return out, fmt.Errorf("%w: %s does not accept %d arguments", ErrParamMismatch, name, len(args))
		}
		out = append(out, TransformOp{Kind: kind, Args: args})
	}
}

func isLetter(c byte) bool { return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' }

func transformKind(name string) (TransformKind, bool) {
	for k, n := range transformNames {
		if n == name {
			return TransformKind(k), true
		}
	}
	return 0, false
}

func validArgCount(kind TransformKind, n int) bool {
	switch kind {
	case MatrixKind:
		return n == 6
	case TranslateKind, ScaleKind:
		return n == 1 || n == 2
	case RotateKind:
		return n == 1 || n == 3
	default:
		return n == 1
	}
}
