package simplify

import (
	"container/heap"

	"github.com/benoitkugler/pathedit/geom"
)

type vertex struct {
	prev, next int
	area       float64
	heapIndex  int
}

// vertexHeap orders the removable vertices by increasing area.
type vertexHeap struct {
	vertices []vertex
	order    []int
}

func (h *vertexHeap) Len() int { return len(h.order) }

func (h *vertexHeap) Less(i, j int) bool {
	return h.vertices[h.order[i]].area < h.vertices[h.order[j]].area
}

func (h *vertexHeap) Swap(i, j int) {
	h.order[i], h.order[j] = h.order[j], h.order[i]
	h.vertices[h.order[i]].heapIndex = i
	h.vertices[h.order[j]].heapIndex = j
}

func (h *vertexHeap) Push(x any) {
	i := x.(int)
	h.vertices[i].heapIndex = len(h.order)
	h.order = append(h.order, i)
}

func (h *vertexHeap) Pop() any {
	n := len(h.order)
	i := h.order[n-1]
	h.order = h.order[:n-1]
	h.vertices[i].heapIndex = -1
	return i
}

// visvalingam removes, smallest first, the points whose triangle with
// their neighbors has an area below maxArea (Visvalingam-Whyatt).
// The first point is kept, as is the last one for open polylines.
// A closed ring is processed with wrap-around neighbors and keeps at
// least 3 points.
func visvalingam(pts []geom.Point, closed bool, maxArea float64) []geom.Point {
	n := len(pts)
	if n < 3 {
		return pts
	}
	h := &vertexHeap{vertices: make([]vertex, n)}
	area := func(i int) float64 {
		v := h.vertices[i]
		return geom.TriangleArea(pts[v.prev], pts[i], pts[v.next])
	}
	fixed := func(i int) bool { return i == 0 || !closed && i == n-1 }

	for i := range h.vertices {
		h.vertices[i] = vertex{prev: i - 1, next: i + 1, heapIndex: -1}
	}
	if closed {
		h.vertices[0].prev = n - 1
		h.vertices[n-1].next = 0
	}
	for i := range h.vertices {
		if fixed(i) {
			continue
		}
		h.vertices[i].area = area(i)
		h.order = append(h.order, i)
		h.vertices[i].heapIndex = len(h.order) - 1
	}
	heap.Init(h)

	remaining := n
	minPoints := 2
	if closed {
		minPoints = 3
	}
	removed := make([]bool, n)
	for h.Len() > 0 && remaining > minPoints {
		i := h.order[0]
		if h.vertices[i].area >= maxArea {
			break
		}
		heap.Pop(h)
		removed[i] = true
		remaining--

		v := h.vertices[i]
		h.vertices[v.prev].next = v.next
		h.vertices[v.next].prev = v.prev
		for _, j := range [2]int{v.prev, v.next} {
			if hi := h.vertices[j].heapIndex; hi >= 0 {
				h.vertices[j].area = area(j)
				heap.Fix(h, hi)
			}
		}
	}

	out := make([]geom.Point, 0, remaining)
	for i, p := range pts {
		if !removed[i] {
			out = append(out, p)
		}
	}
	return out
}
