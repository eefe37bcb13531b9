package pather

import (
	"math"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

// boundaryPenalty dominates any plausible travel distance, so a leg
// crossing a boundary loses to any leg that does not.
const boundaryPenalty = 1e6

// loopEntrySamples sets the stride of candidate entry vertices per
// loop: every (n / loopEntrySamples)-th vertex of an n-vertex loop is
// tried, or every vertex when that stride is zero.
const loopEntrySamples = 8

// FastGraph is the preferred optimizer. Nodes are path endpoints and
// sampled loop entry vertices; travel edges are priced by Euclidean
// distance plus a large penalty when the straight line crosses a
// registered boundary, and the walk prefers entries that keep the
// head moving in its current direction.
type FastGraph struct {
	items           []pathItem
	segs            []boundarySeg
	tree            *rtreego.Rtree
	directionWeight float64
	coarseness      float64
}

type boundarySeg struct {
	seg  geom.Segment
	rect rtreego.Rect
}

func (b *boundarySeg) Bounds() rtreego.Rect {
	return b.rect
}

func segRect(s geom.Segment) rtreego.Rect {
	const eps = 1e-9
	x0 := math.Min(s.A.X, s.B.X)
	y0 := math.Min(s.A.Y, s.B.Y)
	dx := math.Abs(s.A.X-s.B.X) + eps
	dy := math.Abs(s.A.Y-s.B.Y) + eps
	r, err := rtreego.NewRect(rtreego.Point{x0, y0}, []float64{dx, dy})
	if err != nil {
		panic(err)
	}
	return r
}

// NewFastGraph returns an empty fast-graph optimizer.
func NewFastGraph(directionWeight, coarseness float64) *FastGraph {
	return &FastGraph{
		tree:            rtreego.NewTree(2, 25, 50),
		directionWeight: directionWeight,
		coarseness:      coarseness,
	}
}

func (f *FastGraph) AddBoundaries(loops []geom.Loop) {
	for i := range loops {
		for _, s := range loops[i].Segments() {
			bs := &boundarySeg{seg: s, rect: segRect(s)}
			f.segs = append(f.segs, *bs)
			f.tree.Insert(bs)
		}
	}
}

func (f *FastGraph) AddPaths(paths []geom.OpenPath, label geom.PathLabel) {
	for i := range paths {
		p := paths[i]
		f.items = append(f.items, pathItem{open: &p, label: label})
	}
}

func (f *FastGraph) AddLoops(loops []geom.Loop, label geom.PathLabel) {
	for i := range loops {
		l := loops[i]
		f.items = append(f.items, pathItem{loop: &l, label: label})
	}
}

func (f *FastGraph) ClearBoundaries() {
	f.segs = nil
	f.tree = rtreego.NewTree(2, 25, 50)
}

func (f *FastGraph) ClearPaths() {
	f.items = nil
}

// crosses reports whether the travel leg from a to b intersects a
// boundary segment, filtered first through the spatial index.
func (f *FastGraph) crosses(from, to geom.Point2) bool {
	leg := geom.Segment{A: from, B: to}
	hits := f.tree.SearchIntersect(segRect(leg))
	for _, h := range hits {
		s := h.(*boundarySeg).seg
		if s.A == from || s.B == from || s.A == to || s.B == to {
			continue
		}
		if leg.Intersects(s) {
			return true
		}
	}
	return false
}

// entries returns the graph nodes an item exposes.
func (f *FastGraph) entries(idx int) []entry {
	it := &f.items[idx]
	if it.open != nil {
		return []entry{
			{item: idx},
			{item: idx, reverse: true},
		}
	}
	n := len(it.loop.V)
	step := n / loopEntrySamples
	if step < 1 {
		step = 1
	}
	var es []entry
	for v := 0; v < n; v += step {
		es = append(es,
			entry{item: idx, vertex: v},
			entry{item: idx, vertex: v, reverse: true})
	}
	return es
}

// entryHeading returns the unit direction of the first segment
// traversed from the entry, or a zero vector for degenerate input.
func entryHeading(it *pathItem, e entry) geom.Point2 {
	var a, b geom.Point2
	if it.open != nil {
		if e.reverse {
			n := len(it.open.V)
			a, b = it.open.V[n-1], it.open.V[n-2]
		} else {
			a, b = it.open.V[0], it.open.V[1]
		}
	} else {
		n := len(it.loop.V)
		a = it.loop.V[e.vertex]
		if e.reverse {
			b = it.loop.V[((e.vertex-1)%n+n)%n]
		} else {
			b = it.loop.V[(e.vertex+1)%n]
		}
	}
	d := b.Sub(a)
	if d.MagSq() == 0 {
		return geom.Point2{}
	}
	return d.Normalised()
}

// exitHeading returns the unit direction of the last segment of the
// materialized traversal.
func exitHeading(p geom.OpenPath) geom.Point2 {
	n := len(p.V)
	if n < 2 {
		return geom.Point2{}
	}
	d := p.V[n-1].Sub(p.V[n-2])
	if d.MagSq() == 0 {
		return geom.Point2{}
	}
	return d.Normalised()
}

func headingAngle(h1, h2 geom.Point2) float64 {
	if h1.MagSq() == 0 || h2.MagSq() == 0 {
		return 0
	}
	cos := math.Max(-1, math.Min(1, h1.Dot(h2)))
	return math.Acos(cos)
}

func (f *FastGraph) Optimize() (geom.LabeledOpenPaths, error) {
	if err := validateItems(f.items); err != nil {
		return nil, err
	}

	byPriority := map[int][]int{}
	var prios []int
	for i := range f.items {
		p := labelPriority(f.items[i].label)
		if _, ok := byPriority[p]; !ok {
			prios = append(prios, p)
		}
		byPriority[p] = append(byPriority[p], i)
	}
	sort.Ints(prios)

	var out geom.LabeledOpenPaths
	var pos, heading geom.Point2
	for _, prio := range prios {
		remaining := map[int]bool{}
		for _, idx := range byPriority[prio] {
			remaining[idx] = true
		}
		for len(remaining) > 0 {
			bestCost := math.Inf(1)
			var bestEntry entry
			var bestAt geom.Point2
			found := false
			for idx := range remaining {
				for _, e := range f.entries(idx) {
					at := f.items[e.item].entryPoint(e)
					travel := pos.Dist(at)
					cost := travel
					if f.crosses(pos, at) {
						cost += boundaryPenalty
					}
					cost += f.directionWeight * headingAngle(heading, entryHeading(&f.items[e.item], e))
					if cost < bestCost {
						bestCost = cost
						bestEntry = e
						bestAt = at
						found = true
					}
				}
			}
			if !found {
				break
			}
			it := &f.items[bestEntry.item]
			traversal := it.traverse(bestEntry)

			if conn, ok := f.connection(out, traversal, pos, bestAt); ok {
				out = append(out, conn)
			}
			out = append(out, traversal)
			pos = it.exitPoint(bestEntry)
			heading = exitHeading(traversal.Path)
			delete(remaining, bestEntry.item)
		}
	}
	return out, nil
}

// connection synthesizes a travel segment the downstream cleaner is
// allowed to fold into its neighbors: both sides must be insets, the
// leg must be short enough to join, and it must not cross a boundary.
func (f *FastGraph) connection(out geom.LabeledOpenPaths, next geom.LabeledOpenPath, from, to geom.Point2) (geom.LabeledOpenPath, bool) {
	if len(out) == 0 || from == to || from.Dist(to) > f.coarseness {
		return geom.LabeledOpenPath{}, false
	}
	prev := out[len(out)-1].Label
	if !prev.IsInset() && !prev.IsConnection() {
		return geom.LabeledOpenPath{}, false
	}
	if !next.Label.IsInset() {
		return geom.LabeledOpenPath{}, false
	}
	if f.crosses(from, to) {
		return geom.LabeledOpenPath{}, false
	}
	return geom.LabeledOpenPath{
		Path: geom.OpenPath{V: []geom.Point2{from, to}},
		Label: geom.PathLabel{
			Type:  geom.PathTypeConnection,
			Owner: next.Label.Owner,
		},
	}, true
}
