package pather

import (
	"math"

	"github.com/cjsatuforc/Miracle-Grue/conf"
	"github.com/cjsatuforc/Miracle-Grue/geom"
	"github.com/cjsatuforc/Miracle-Grue/layer"
	"github.com/cjsatuforc/Miracle-Grue/mesh"
	"github.com/cjsatuforc/Miracle-Grue/progress"
	"github.com/cjsatuforc/Miracle-Grue/util"
)

// supportOutset pushes support boundaries slightly outward so travel
// planning clears the support material itself.
const supportOutset = 0.01

// Pather drives per-layer path generation: it loads a layer's regions
// into the optimizer, runs it, and cleans and smooths the result.
type Pather struct {
	progress.Progressive
	cfg       *conf.GrueConfig
	optimizer Optimizer
}

// NewPather returns a pather for the given run configuration. bar may
// be nil.
func NewPather(cfg *conf.GrueConfig, bar progress.Bar) *Pather {
	return &Pather{
		Progressive: progress.NewProgressive(bar),
		cfg:         cfg,
		optimizer:   NewOptimizer(cfg),
	}
}

// GeneratePaths converts the skeleton into ordered labeled paths, one
// layer at a time. Layers with indices below firstIdx or above
// lastIdx are skipped; negative bounds mean unbounded. A layer whose
// optimization fails is emitted empty and the run continues.
func (p *Pather) GeneratePaths(skeleton RegionList, measure *mesh.LayerMeasure, grid *Grid, out *layer.LayerPaths, firstIdx, lastIdx int) {
	first := 0
	last := math.MaxInt
	if firstIdx > 0 {
		first = firstIdx
	}
	if lastIdx >= 0 {
		last = lastIdx
	}

	direction := false
	p.InitProgress("Path generation", len(skeleton))

	for i := range skeleton {
		p.Tick()
		regions := &skeleton[i]
		util.Assert(regions.Index >= 0, "negative slice index in skeleton")
		if regions.Index < first {
			continue
		}
		if regions.Index > last {
			break
		}

		if !p.suppressFlip(regions.Index) {
			direction = !direction
		}

		z := measure.LayerPosition(regions.Index)
		h := measure.LayerThickness(regions.Index)
		w := measure.LayerWidth(regions.Index)
		lay := out.Push(layer.NewLayer(z, h, w, regions.Index))
		lay.Extruders = append(lay.Extruders, layer.ExtruderLayer{
			ExtruderID: p.cfg.DefaultExtruder,
		})
		extruderLayer := &lay.Extruders[0]

		if p.cfg.DoOutlines {
			p.outlines(regions, extruderLayer)
		}

		paths, err := p.optimizeLayer(regions, grid, direction)
		if err != nil {
			util.LogSevere("ERROR generating paths in slice %d: %v", regions.Index, err)
			extruderLayer.Paths = nil
			continue
		}
		paths = CleanPaths(paths, p.cfg.Coarseness)
		geom.SmoothCollection(paths, p.cfg.Coarseness, p.cfg.DirectionWeight)
		extruderLayer.Paths = append(extruderLayer.Paths, paths...)
	}
}

// suppressFlip holds the infill direction steady through the
// non-base raft layers when raft alignment is on.
func (p *Pather) suppressFlip(sliceIdx int) bool {
	return p.cfg.DoRaft && p.cfg.RaftAligned &&
		sliceIdx > 1 && sliceIdx < p.cfg.RaftLayers
}

// outlines appends a trace of every outline loop, model first, then
// support.
func (p *Pather) outlines(regions *LayerRegions, el *layer.ExtruderLayer) {
	trace := func(loops []geom.Loop, owner geom.PathOwner) {
		for i := range loops {
			lp := geom.LoopPath{Loop: &loops[i]}
			el.Paths = append(el.Paths, geom.LabeledOpenPath{
				Path: lp.Open(),
				Label: geom.PathLabel{
					Type:  geom.PathTypeOutline,
					Owner: owner,
				},
			})
		}
	}
	trace(regions.OutlineLoops, geom.OwnerModel)
	trace(regions.SupportLoops, geom.OwnerSupport)
}

// optimizeLayer loads one layer into the optimizer and runs it.
func (p *Pather) optimizeLayer(regions *LayerRegions, grid *Grid, direction bool) (geom.LabeledOpenPaths, error) {
	opt := p.optimizer
	opt.ClearBoundaries()
	opt.ClearPaths()

	opt.AddBoundaries(regions.OutlineLoops)
	if !p.cfg.DoInfills && p.cfg.RoofLayerCount == 0 && p.cfg.FloorLayerCount == 0 {
		// travel must stay out of the interior when nothing will be
		// deposited there
		for _, depth := range regions.InsetLoops {
			opt.AddBoundaries(depth)
		}
	}

	if p.cfg.DoRaft || p.cfg.DoSupport {
		outset := make([]geom.Loop, 0, len(regions.SupportLoops))
		for i := range regions.SupportLoops {
			outset = append(outset, regions.SupportLoops[i].Offset(supportOutset))
		}
		opt.AddBoundaries(outset)
		var supportPaths []geom.OpenPath
		grid.PathsFromRanges(regions.SupportRanges, direction, &supportPaths)
		opt.AddPaths(supportPaths, geom.PathLabel{
			Type:  geom.PathTypeInfill,
			Owner: geom.OwnerSupport,
		})
	}

	if p.cfg.DoInsets {
		for depth, loops := range regions.InsetLoops {
			opt.AddLoops(loops, geom.PathLabel{
				Type:  geom.PathTypeInset,
				Owner: geom.OwnerModel,
				Shell: geom.InsetLabelValue + depth,
			})
		}
		for depth, spurs := range regions.Spurs {
			opt.AddPaths(spurs, geom.PathLabel{
				Type:  geom.PathTypeInset,
				Owner: geom.OwnerModel,
				Shell: depth,
			})
		}
	}

	var infillPaths []geom.OpenPath
	grid.PathsFromRanges(regions.Infill, direction, &infillPaths)
	if p.cfg.DoInfills {
		opt.AddPaths(infillPaths, geom.PathLabel{
			Type:  geom.PathTypeInfill,
			Owner: geom.OwnerModel,
			Shell: geom.InfillLabelValue,
		})
	}

	return opt.Optimize()
}
