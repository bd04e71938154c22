package svgpath

import (
	"errors"
	"fmt"

	"github.com/benoitkugler/pathedit/geom"
)

// ErrInvalidCommand is wrapped by the errors returned by ParsePath
// for unknown commands and incomplete argument lists.
var ErrInvalidCommand = errors.New("invalid path command")

// pathCursor is used while parsing path data.
type pathCursor struct {
	sc   scanner
	path Path

	cur, start geom.Point // current point and start of the subpath
	lastCtrl   geom.Point // reflected by S and T
	lastCmd    byte       // upper case command of the last segment
	errs       []error
}

// ParsePath parses SVG path data. Parsing is best effort: invalid
// commands and truncated argument lists are skipped, and reported in
// the returned error, which wraps ErrInvalidCommand. The returned path
// is always usable, and every valid command is kept.
func ParsePath(d string) (Path, error) {
	c := pathCursor{sc: scanner{b: []byte(d)}}
	c.compile()
	return c.path, errors.Join(c.errs...)
}

// MustParsePath is like ParsePath but panics on error.
func MustParsePath(d string) Path {
	p, err := ParsePath(d)
	if err != nil {
		panic(err)
	}
	return p
}

func argCount(cmd byte) int {
	switch cmd | 0x20 {
	case 'm', 'l', 't':
		return 2
	case 'h', 'v':
		return 1
	case 's', 'q':
		return 4
	case 'c':
		return 6
	case 'a':
		return 7
	}
	return 0
}

func isCommand(c byte) bool {
	switch c | 0x20 {
	case 'm', 'l', 'h', 'v', 'c', 's', 'q', 't', 'a', 'z':
		return true
	}
	return false
}

func (c *pathCursor) errorf(format string, args ...any) {
	c.errs = append(c.errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidCommand}, args...)...))
}

// skipToCommand advances to the next valid command letter.
func (c *pathCursor) skipToCommand() {
	for !c.sc.eof() && !isCommand(c.sc.peek()) {
		c.sc.i++
	}
}

func (c *pathCursor) compile() {
	var cmd byte
	for {
		c.sc.skipSeparators()
		if c.sc.eof() {
			return
		}
		offset := c.sc.i
		if ch := c.sc.peek(); isLetter(ch) {
			c.sc.i++
			if !isCommand(ch) {
				c.errorf("unknown command %q at offset %d", ch, offset)
				cmd = 0
				c.skipToCommand()
				continue
			}
			cmd = ch
			if cmd|0x20 == 'z' {
				c.closePath()
				continue
			}
		} else if cmd == 0 || cmd|0x20 == 'z' {
			c.errorf("unexpected %q at offset %d", ch, offset)
			c.sc.i++
			c.skipToCommand()
			continue
		}

		args, ok := c.readArgs(cmd)
		if !ok {
			c.errorf("incomplete arguments for %q at offset %d", cmd, offset)
			cmd = 0
			c.skipToCommand()
			continue
		}
		c.addCommand(cmd, args)
		// subsequent pairs of a move are implicit lines
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
}

// readArgs reads the arguments of one command. Arc flags are
// a single character each, so that "a1 1 0 00 5 5" is valid.
func (c *pathCursor) readArgs(cmd byte) (args [7]float64, ok bool) {
	n := argCount(cmd)
	for i := 0; i < n; i++ {
		if cmd|0x20 == 'a' && (i == 3 || i == 4) {
			var f bool
			if f, ok = c.sc.flag(); !ok {
				return args, false
			}
			if f {
				args[i] = 1
			}
			continue
		}
		if args[i], ok = c.sc.number(); !ok {
			return args, false
		}
	}
	return args, true
}

// ensureSubpath starts an implicit subpath when a drawing command
// follows a close, or opens the path data.
func (c *pathCursor) ensureSubpath() {
	if len(c.path) == 0 {
		c.errorf("path data must start with a move")
		c.path = append(c.path, MoveTo{To: c.cur})
		c.start = c.cur
		return
	}
	if _, ok := c.path[len(c.path)-1].(Close); ok {
		c.path = append(c.path, MoveTo{To: c.start})
	}
}

func (c *pathCursor) closePath() {
	if len(c.path) == 0 {
		return
	}
	if _, ok := c.path[len(c.path)-1].(Close); ok {
		return
	}
	c.path = append(c.path, Close{From: c.cur, To: c.start})
	c.cur = c.start
	c.lastCmd = 'Z'
}

func (c *pathCursor) addCommand(cmd byte, args [7]float64) {
	var off geom.Point
	rel := cmd >= 'a'
	if rel {
		off = c.cur
	}
	pt := func(i int) geom.Point { return geom.Point{X: args[i], Y: args[i+1]}.Add(off) }
	upper := cmd &^ 0x20

	if upper != 'M' {
		c.ensureSubpath()
	}
	switch upper {
	case 'M':
		c.cur = pt(0)
		c.start = c.cur
		c.path = append(c.path, MoveTo{To: c.cur})
	case 'L':
		c.lineTo(pt(0))
	case 'H':
		x := args[0] + off.X
		c.lineTo(geom.Point{X: x, Y: c.cur.Y})
	case 'V':
		y := args[0] + off.Y
		c.lineTo(geom.Point{X: c.cur.X, Y: y})
	case 'Q':
		ctrl, to := pt(0), pt(2)
		c.path = append(c.path, QuadTo{From: c.cur, Ctrl: ctrl, To: to})
		c.cur, c.lastCtrl = to, ctrl
	case 'T':
		ctrl := c.cur
		if c.lastCmd == 'Q' {
			ctrl = c.cur.Mul(2).Sub(c.lastCtrl)
		}
		to := pt(0)
		c.path = append(c.path, QuadTo{From: c.cur, Ctrl: ctrl, To: to})
		c.cur, c.lastCtrl = to, ctrl
		upper = 'Q'
	case 'C':
		c1, c2, to := pt(0), pt(2), pt(4)
		c.path = append(c.path, CubicTo{From: c.cur, C1: c1, C2: c2, To: to})
		c.cur, c.lastCtrl = to, c2
	case 'S':
		c1 := c.cur
		if c.lastCmd == 'C' {
			c1 = c.cur.Mul(2).Sub(c.lastCtrl)
		}
		c2, to := pt(0), pt(2)
		c.path = append(c.path, CubicTo{From: c.cur, C1: c1, C2: c2, To: to})
		c.cur, c.lastCtrl = to, c2
		upper = 'C'
	case 'A':
		to := pt(5)
		c.path = appendArc(c.path, c.cur, args[0], args[1], args[2], args[3] != 0, args[4] != 0, to)
		c.cur = to
	}
	c.lastCmd = upper
}

func (c *pathCursor) lineTo(to geom.Point) {
	c.path = append(c.path, LineTo{From: c.cur, To: to})
	c.cur = to
}
