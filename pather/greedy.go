package pather

import (
	"sort"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

// Greedy is the fallback optimizer: label priority buckets, and
// within each bucket a nearest-endpoint walk over a kd-tree of entry
// points. A path is reversed when its far endpoint is closer, unless
// doing so would introduce a boundary crossing the forward direction
// avoids.
type Greedy struct {
	items      []pathItem
	boundaries boundarySet
}

// NewGreedy returns an empty greedy optimizer.
func NewGreedy() *Greedy {
	return &Greedy{}
}

func (g *Greedy) AddBoundaries(loops []geom.Loop) {
	g.boundaries.add(loops)
}

func (g *Greedy) AddPaths(paths []geom.OpenPath, label geom.PathLabel) {
	for i := range paths {
		p := paths[i]
		g.items = append(g.items, pathItem{open: &p, label: label})
	}
}

func (g *Greedy) AddLoops(loops []geom.Loop, label geom.PathLabel) {
	for i := range loops {
		l := loops[i]
		g.items = append(g.items, pathItem{loop: &l, label: label})
	}
}

func (g *Greedy) ClearBoundaries() {
	g.boundaries.clear()
}

func (g *Greedy) ClearPaths() {
	g.items = nil
}

// greedyEntries lists every way to start an item: both ends of an open
// path, every vertex of a loop in both directions.
func greedyEntries(items []pathItem, which []int) []indexedEntry {
	var es []indexedEntry
	for _, idx := range which {
		it := &items[idx]
		if it.open != nil {
			es = append(es,
				indexedEntry{x: it.open.Start(), e: entry{item: idx}},
				indexedEntry{x: it.open.End(), e: entry{item: idx, reverse: true}})
			continue
		}
		for v := range it.loop.V {
			es = append(es,
				indexedEntry{x: it.loop.V[v], e: entry{item: idx, vertex: v}},
				indexedEntry{x: it.loop.V[v], e: entry{item: idx, vertex: v, reverse: true}})
		}
	}
	return es
}

func (g *Greedy) Optimize() (geom.LabeledOpenPaths, error) {
	if err := validateItems(g.items); err != nil {
		return nil, err
	}

	// bucket items by label priority, preserving insertion order
	// within a bucket
	byPriority := map[int][]int{}
	var prios []int
	for i := range g.items {
		p := labelPriority(g.items[i].label)
		if _, ok := byPriority[p]; !ok {
			prios = append(prios, p)
		}
		byPriority[p] = append(byPriority[p], i)
	}
	sort.Ints(prios)

	var out geom.LabeledOpenPaths
	var pos geom.Point2
	for _, prio := range prios {
		bucket := byPriority[prio]
		idx := newEntryIndex(greedyEntries(g.items, bucket), len(g.items), g.spanGuess()/100)
		for consumed := 0; consumed < len(bucket); consumed++ {
			e, at, ok := idx.popNearest(pos)
			if !ok {
				break
			}
			it := &g.items[e.item]
			if e.reverse && it.open != nil && g.boundaries.crosses(pos, at) {
				// prefer the forward direction when reversal would
				// cross a boundary the forward entry avoids
				fwd := entry{item: e.item}
				if !g.boundaries.crosses(pos, it.entryPoint(fwd)) {
					e = fwd
				}
			}
			out = append(out, it.traverse(e))
			pos = it.exitPoint(e)
		}
	}
	return out, nil
}

// spanGuess estimates the extent of the path set to seed the nearest
// search radius.
func (g *Greedy) spanGuess() float64 {
	b := geom.EmptyBounds()
	n := 0
	for i := range g.items {
		it := &g.items[i]
		if it.open != nil {
			for _, v := range it.open.V {
				b.Expand(v)
				n++
			}
		} else {
			for _, v := range it.loop.V {
				b.Expand(v)
				n++
			}
		}
	}
	if n == 0 {
		return 100
	}
	span := b.Max.X - b.Min.X
	if span <= 0 {
		span = 100
	}
	return span
}
