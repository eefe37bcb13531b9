package pather

import (
	"math"
	"sort"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

// An entry is one way to begin traversing an item: a start vertex and
// a direction. Open paths have two entries; loops one per sampled
// start vertex and direction.
type entry struct {
	item    int
	vertex  int
	reverse bool
}

// entryIndex is a kd-tree over entry positions supporting nearest
// lookups with consumed-item filtering.
type entryIndex struct {
	minR  float64
	alive []bool
	node  interface{}
}

type eindexNode struct {
	x           geom.Point2
	e           entry
	yaxis       bool
	left, right interface{}
}

type eindexLeaf struct {
	x []geom.Point2
	e []entry
}

const leafThreshold = 20

type indexedEntry struct {
	x geom.Point2
	e entry
}

func buildEntryIndex(es []indexedEntry, yaxis bool) interface{} {
	if len(es) == 0 {
		return nil
	}
	if len(es) < leafThreshold {
		leaf := &eindexLeaf{}
		for _, ie := range es {
			leaf.x = append(leaf.x, ie.x)
			leaf.e = append(leaf.e, ie.e)
		}
		return leaf
	}
	// median split on alternating axes
	sort.Slice(es, func(i, j int) bool {
		if yaxis {
			return es[i].x.Y < es[j].x.Y
		}
		return es[i].x.X < es[j].x.X
	})
	k := len(es) / 2
	return &eindexNode{
		x:     es[k].x,
		e:     es[k].e,
		yaxis: yaxis,
		left:  buildEntryIndex(es[:k], !yaxis),
		right: buildEntryIndex(es[k+1:], !yaxis),
	}
}

func newEntryIndex(es []indexedEntry, itemCount int, minR float64) *entryIndex {
	alive := make([]bool, itemCount)
	for i := range alive {
		alive[i] = true
	}
	if minR <= 0 {
		minR = 1
	}
	return &entryIndex{
		minR:  minR,
		alive: alive,
		node:  buildEntryIndex(es, false),
	}
}

type ecand struct {
	dist float64
	x    geom.Point2
	e    entry
}

func distToBounds(p geom.Point2, b geom.Bounds) float64 {
	q := geom.Point2{
		X: math.Min(math.Max(p.X, b.Min.X), b.Max.X),
		Y: math.Min(math.Max(p.Y, b.Min.Y), b.Max.Y),
	}
	return p.Dist(q)
}

func (ei *entryIndex) findLeafRadius(leaf *eindexLeaf, pos geom.Point2, r float64) []ecand {
	var cand []ecand
	for i := range leaf.x {
		d := leaf.x[i].Dist(pos)
		if d <= r && ei.alive[leaf.e[i].item] {
			cand = append(cand, ecand{dist: d, x: leaf.x[i], e: leaf.e[i]})
		}
	}
	return cand
}

func (ei *entryIndex) findRadius(ni interface{}, pos geom.Point2, r float64, bounds geom.Bounds) []ecand {
	if ni == nil {
		return nil
	}
	if leaf, ok := ni.(*eindexLeaf); ok {
		return ei.findLeafRadius(leaf, pos, r)
	}
	n := ni.(*eindexNode)
	var cand []ecand
	d := n.x.Dist(pos)
	if d <= r && ei.alive[n.e.item] {
		cand = append(cand, ecand{dist: d, x: n.x, e: n.e})
	}

	left := false
	var axdist float64
	if n.yaxis && pos.Y <= n.x.Y {
		left = true
		axdist = math.Abs(pos.Y - n.x.Y)
	}
	if !n.yaxis && pos.X <= n.x.X {
		left = true
		axdist = math.Abs(pos.X - n.x.X)
	}

	setMin := func(b geom.Bounds) geom.Bounds {
		if n.yaxis {
			b.Min.Y = n.x.Y
		} else {
			b.Min.X = n.x.X
		}
		return b
	}
	setMax := func(b geom.Bounds) geom.Bounds {
		if n.yaxis {
			b.Max.Y = n.x.Y
		} else {
			b.Max.X = n.x.X
		}
		return b
	}

	if left {
		cand = append(cand, ei.findRadius(n.left, pos, r, setMax(bounds))...)
		if axdist <= r {
			nb := setMin(bounds)
			if distToBounds(pos, nb) <= r {
				cand = append(cand, ei.findRadius(n.right, pos, r, nb)...)
			}
		}
	} else {
		cand = append(cand, ei.findRadius(n.right, pos, r, setMin(bounds))...)
		if axdist <= r {
			nb := setMax(bounds)
			if distToBounds(pos, nb) <= r {
				cand = append(cand, ei.findRadius(n.left, pos, r, nb)...)
			}
		}
	}
	return cand
}

// popNearest returns the closest live entry to pos and consumes its
// item, so no other entry of that item can be returned later.
func (ei *entryIndex) popNearest(pos geom.Point2) (entry, geom.Point2, bool) {
	r := ei.minR
	huge := 1e19
	for i := 0; i < 64; i++ {
		bs := geom.Bounds{
			Min: geom.Point2{X: -huge, Y: -huge},
			Max: geom.Point2{X: huge, Y: huge},
		}
		cands := ei.findRadius(ei.node, pos, r, bs)
		if len(cands) > 0 {
			best := 0
			for j := 1; j < len(cands); j++ {
				if cands[j].dist < cands[best].dist {
					best = j
				}
			}
			ei.alive[cands[best].e.item] = false
			return cands[best].e, cands[best].x, true
		}
		r *= 2
	}
	return entry{}, geom.Point2{}, false
}

// kill consumes an item without returning an entry.
func (ei *entryIndex) kill(item int) {
	ei.alive[item] = false
}
