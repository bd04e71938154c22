package simplify

import (
	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgpath"
)

// curveSamples is the number of points sampled on a curve, its start
// included.
const curveSamples = 5

// closeEnough is the distance under which the ends of a subpath
// are considered joined.
const closeEnough = 1e-6

// sample returns the piecewise-linear proxy of a subpath: lines
// contribute their end point, curves their evenly parametrized samples.
// Consecutive duplicates are dropped.
func sample(segments svgpath.Path) []geom.Point {
	var pts []geom.Point
	add := func(p geom.Point) {
		if n := len(pts); n > 0 && pts[n-1].Near(p, geom.Epsilon) {
			return
		}
		pts = append(pts, p)
	}
	for _, seg := range segments {
		switch seg.(type) {
		case svgpath.MoveTo, svgpath.LineTo, svgpath.Close:
			add(seg.End())
		default:
			for i := 1; i < curveSamples; i++ {
				add(svgpath.Sample(seg, float64(i)/(curveSamples-1)))
			}
		}
	}
	return pts
}

// toRing removes the trailing points equal to the first one, so that
// pts describes a closed ring without repetition.
func toRing(pts []geom.Point) []geom.Point {
	for len(pts) > 1 && pts[len(pts)-1].Dist(pts[0]) <= closeEnough {
		pts = pts[:len(pts)-1]
	}
	return pts
}
