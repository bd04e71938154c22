package merge

import (
	"image/color"
	"math"
	"slices"

	"github.com/benoitkugler/pathedit/geom"
	"github.com/benoitkugler/pathedit/svgicon"
)

// group partitions the indices [0, n) so that each index of a group
// is near at least one other index of the group. Groups are seeded
// in index order and each group is sorted.
func group(n int, near func(i, j int) bool) [][]int {
	assigned := make([]bool, n)
	var out [][]int
	for seed := range n {
		if assigned[seed] {
			continue
		}
		assigned[seed] = true
		members := []int{seed}
		for grown := true; grown; {
			grown = false
			for j := seed + 1; j < n; j++ {
				if assigned[j] {
					continue
				}
				for _, m := range members {
					if near(m, j) {
						assigned[j] = true
						members = append(members, j)
						grown = true
						break
					}
				}
			}
		}
		slices.Sort(members)
		out = append(out, members)
	}
	return out
}

// ColorDistance returns the euclidean distance between two colors in
// the RGB cube, normalized to [0, 1].
func ColorDistance(a, b color.RGBA) float64 {
	dr := float64(a.R) - float64(b.R)
	dg := float64(a.G) - float64(b.G)
	db := float64(a.B) - float64(b.B)
	return math.Sqrt(dr*dr+dg*dg+db*db) / (255 * math.Sqrt(3))
}

// fillColor resolves the fill of p, which is black when unspecified.
func fillColor(p svgicon.SvgPath) (color.RGBA, bool) {
	if p.Style.Fill == "" {
		return color.RGBA{A: 0xff}, true
	}
	return svgicon.ParseColor(p.Style.Fill)
}

// GroupByColor groups the paths whose fill colors are within threshold
// of each other, transitively. Paths without a plain fill color
// (none, gradients) are left alone in their group.
func GroupByColor(paths []svgicon.SvgPath, threshold float64) [][]int {
	colors := make([]color.RGBA, len(paths))
	valid := make([]bool, len(paths))
	for i, p := range paths {
		colors[i], valid[i] = fillColor(p)
	}
	return group(len(paths), func(i, j int) bool {
		return valid[i] && valid[j] && ColorDistance(colors[i], colors[j]) <= threshold
	})
}

// GroupByProximity groups the paths whose centers are within threshold
// of each other, transitively. The center of a path is the center of
// its tight bounding box, once its transform is applied. Empty paths
// are left alone in their group.
func GroupByProximity(paths []svgicon.SvgPath, threshold float64) [][]int {
	centers := make([]geom.Point, len(paths))
	valid := make([]bool, len(paths))
	for i, p := range paths {
		bounds := p.Baked().Segments().TightBounds()
		centers[i], valid[i] = bounds.Center(), !bounds.Empty()
	}
	return group(len(paths), func(i, j int) bool {
		return valid[i] && valid[j] && centers[i].Dist(centers[j]) <= threshold
	})
}
