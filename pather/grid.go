// Package pather turns per-layer regions into an ordered,
// extruder-annotated sequence of labeled toolpaths.
package pather

import "github.com/cjsatuforc/Miracle-Grue/geom"

// A ScalarRange is a covered interval along one grid line.
type ScalarRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// GridRanges holds the covered intervals of a region, one list per
// grid line. XRays run parallel to the x axis (one list per y line);
// YRays run parallel to the y axis.
type GridRanges struct {
	XRays [][]ScalarRange `json:"xRays"`
	YRays [][]ScalarRange `json:"yRays"`
}

// Empty reports whether no line carries a range.
func (r *GridRanges) Empty() bool {
	for _, line := range r.XRays {
		if len(line) > 0 {
			return false
		}
	}
	for _, line := range r.YRays {
		if len(line) > 0 {
			return false
		}
	}
	return true
}

// A Grid fixes the coordinates of the raster lines that ranges are
// expressed against. YValues positions the XRays lines and XValues
// the YRays lines.
type Grid struct {
	XValues []float64 `json:"xValues"`
	YValues []float64 `json:"yValues"`
}

// PathsFromRanges rasterizes ranges into open paths along the x axis
// when direction is set, along the y axis otherwise. Consecutive
// rasters run in opposite directions, alternating per emitted range
// rather than per grid line, so consecutive rasters start near each
// other.
func (g *Grid) PathsFromRanges(ranges GridRanges, direction bool, out *[]geom.OpenPath) {
	flip := false
	if direction {
		for i, line := range ranges.XRays {
			if i >= len(g.YValues) {
				break
			}
			y := g.YValues[i]
			for _, r := range line {
				p := geom.OpenPath{V: []geom.Point2{{X: r.Min, Y: y}, {X: r.Max, Y: y}}}
				if flip {
					p = p.Reversed()
				}
				*out = append(*out, p)
				flip = !flip
			}
		}
		return
	}
	for i, line := range ranges.YRays {
		if i >= len(g.XValues) {
			break
		}
		x := g.XValues[i]
		for _, r := range line {
			p := geom.OpenPath{V: []geom.Point2{{X: x, Y: r.Min}, {X: x, Y: r.Max}}}
			if flip {
				p = p.Reversed()
			}
			*out = append(*out, p)
			flip = !flip
		}
	}
}
