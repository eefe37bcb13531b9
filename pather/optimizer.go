package pather

import (
	"github.com/pkg/errors"

	"github.com/cjsatuforc/Miracle-Grue/conf"
	"github.com/cjsatuforc/Miracle-Grue/geom"
)

// An Optimizer accepts boundaries plus unordered labeled paths and
// produces an ordered sequence minimizing travel. Boundaries are
// advisory no-cross hints for the travel legs between output paths.
type Optimizer interface {
	AddBoundaries(loops []geom.Loop)
	AddPaths(paths []geom.OpenPath, label geom.PathLabel)
	AddLoops(loops []geom.Loop, label geom.PathLabel)
	Optimize() (geom.LabeledOpenPaths, error)
	ClearBoundaries()
	ClearPaths()
}

// NewOptimizer selects the strategy configured for the run. The
// selection is fixed for the run's lifetime.
func NewOptimizer(cfg *conf.GrueConfig) Optimizer {
	if cfg.DoGraphOptimization {
		return NewFastGraph(cfg.DirectionWeight, cfg.Coarseness)
	}
	return NewGreedy()
}

// pathItem is one deposition path awaiting ordering. Exactly one of
// open and loop is set.
type pathItem struct {
	open  *geom.OpenPath
	loop  *geom.Loop
	label geom.PathLabel
}

// labelPriority ranks labels for deposition: outlines first, then
// insets outer to inner, then infill and spurs, then support.
// Smaller sorts earlier.
func labelPriority(l geom.PathLabel) int {
	if l.Owner == geom.OwnerSupport {
		return 3000
	}
	switch l.Type {
	case geom.PathTypeOutline:
		return 0
	case geom.PathTypeInset:
		if l.Shell >= geom.InsetLabelValue {
			return 10 + (l.Shell - geom.InsetLabelValue)
		}
		// spurs carry their own shell numbering below the inset base
		// and print with the infill pass
		return 2000
	case geom.PathTypeInfill, geom.PathTypeConnection:
		return 2000
	}
	return 4000
}

func (it *pathItem) finite() bool {
	if it.open != nil {
		return it.open.Finite()
	}
	for _, v := range it.loop.V {
		if !v.Finite() {
			return false
		}
	}
	return true
}

// vertexCount returns how many vertices the item exposes as possible
// entry points.
func (it *pathItem) vertexCount() int {
	if it.open != nil {
		return len(it.open.V)
	}
	return len(it.loop.V)
}

// traverse materializes the item as a labeled open path starting at
// the entry.
func (it *pathItem) traverse(e entry) geom.LabeledOpenPath {
	if it.open != nil {
		p := *it.open
		if e.reverse {
			p = p.Reversed()
		}
		return geom.LabeledOpenPath{Path: p, Label: it.label}
	}
	lp := geom.LoopPath{Loop: it.loop, Start: e.vertex, Reverse: e.reverse}
	return geom.LabeledOpenPath{Path: lp.Open(), Label: it.label}
}

// entryPoint returns the position an entry starts at.
func (it *pathItem) entryPoint(e entry) geom.Point2 {
	if it.open != nil {
		if e.reverse {
			return it.open.End()
		}
		return it.open.Start()
	}
	return it.loop.V[e.vertex]
}

// exitPoint returns where the head ends up after traversing from the
// entry.
func (it *pathItem) exitPoint(e entry) geom.Point2 {
	if it.open != nil {
		if e.reverse {
			return it.open.Start()
		}
		return it.open.End()
	}
	// loops exit where they entered
	return it.loop.V[e.vertex]
}

func validateItems(items []pathItem) error {
	for _, it := range items {
		if !it.finite() {
			return errors.New("non-finite coordinate in path set")
		}
		if !it.label.IsValid() {
			return errors.New("invalid label in path set")
		}
		if it.loop != nil && !it.loop.Valid() {
			return errors.New("degenerate loop in path set")
		}
		if it.open != nil && len(it.open.V) < 2 {
			return errors.New("open path with fewer than two points")
		}
	}
	return nil
}

// boundarySet is the shared store of no-cross hint segments.
type boundarySet struct {
	segs []geom.Segment
}

func (b *boundarySet) add(loops []geom.Loop) {
	for i := range loops {
		b.segs = append(b.segs, loops[i].Segments()...)
	}
}

func (b *boundarySet) clear() {
	b.segs = nil
}

// crosses reports whether the travel leg from a to b crosses any
// boundary. Legs that merely start or finish on a boundary vertex do
// not count.
func (b *boundarySet) crosses(from, to geom.Point2) bool {
	leg := geom.Segment{A: from, B: to}
	for _, s := range b.segs {
		if s.A == from || s.B == from || s.A == to || s.B == to {
			continue
		}
		if leg.Intersects(s) {
			return true
		}
	}
	return false
}
