// Package layer holds the per-slice output of the pather: a strict
// tree of layers, extruder sub-layers and their ordered labeled
// paths.
package layer

import "github.com/cjsatuforc/Miracle-Grue/geom"

// An ExtruderLayer is the portion of a layer printed by one extruder.
type ExtruderLayer struct {
	ExtruderID int
	Paths      geom.LabeledOpenPaths
}

// filter returns the paths matching pred, in stored order.
func (e *ExtruderLayer) filter(pred func(geom.PathLabel) bool) geom.LabeledOpenPaths {
	var out geom.LabeledOpenPaths
	for _, p := range e.Paths {
		if pred(p.Label) {
			out = append(out, p)
		}
	}
	return out
}

// OutlinePaths returns the outline traces. Used for reporting counts;
// emission walks Paths in stored order.
func (e *ExtruderLayer) OutlinePaths() geom.LabeledOpenPaths {
	return e.filter(func(l geom.PathLabel) bool { return l.Type == geom.PathTypeOutline })
}

// InsetPaths returns the inset shells.
func (e *ExtruderLayer) InsetPaths() geom.LabeledOpenPaths {
	return e.filter(func(l geom.PathLabel) bool {
		return l.Type == geom.PathTypeInset && l.Owner == geom.OwnerModel
	})
}

// InfillPaths returns the model infill rasters.
func (e *ExtruderLayer) InfillPaths() geom.LabeledOpenPaths {
	return e.filter(func(l geom.PathLabel) bool {
		return l.Type == geom.PathTypeInfill && l.Owner == geom.OwnerModel
	})
}

// SupportPaths returns the support rasters and outlines.
func (e *ExtruderLayer) SupportPaths() geom.LabeledOpenPaths {
	return e.filter(func(l geom.PathLabel) bool { return l.Owner == geom.OwnerSupport })
}

// A Layer is all deposition at one z.
type Layer struct {
	Z         float64
	Height    float64
	W         float64
	MeasureID int
	Extruders []ExtruderLayer
}

// NewLayer returns a layer with no extruder sub-layers yet.
func NewLayer(z, h, w float64, measureID int) Layer {
	return Layer{Z: z, Height: h, W: w, MeasureID: measureID}
}

// LayerPaths is the ordered sequence of layers handed to the gcoder.
type LayerPaths struct {
	Layers []Layer
}

// Push appends a layer and returns a pointer to it.
func (lp *LayerPaths) Push(l Layer) *Layer {
	lp.Layers = append(lp.Layers, l)
	return &lp.Layers[len(lp.Layers)-1]
}
