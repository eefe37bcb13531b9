package pather

import (
	"testing"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

func testGrid() (*Grid, GridRanges) {
	g := &Grid{
		XValues: []float64{0, 1, 2},
		YValues: []float64{10, 11, 12},
	}
	ranges := GridRanges{
		XRays: [][]ScalarRange{
			{{Min: 0, Max: 5}},
			{{Min: 0, Max: 5}},
			{},
		},
		YRays: [][]ScalarRange{
			{{Min: 10, Max: 15}},
			{},
			{{Min: 10, Max: 15}},
		},
	}
	return g, ranges
}

func TestPathsFromRangesAlongX(t *testing.T) {
	g, ranges := testGrid()
	var out []geom.OpenPath
	g.PathsFromRanges(ranges, true, &out)
	if len(out) != 2 {
		t.Fatalf("got %d paths, want 2", len(out))
	}
	// first row left to right at y=10, second right to left at y=11
	if out[0].Start() != (geom.Point2{X: 0, Y: 10}) || out[0].End() != (geom.Point2{X: 5, Y: 10}) {
		t.Errorf("row 0 = %v", out[0].V)
	}
	if out[1].Start() != (geom.Point2{X: 5, Y: 11}) || out[1].End() != (geom.Point2{X: 0, Y: 11}) {
		t.Errorf("row 1 not serpentined: %v", out[1].V)
	}
}

func TestPathsFromRangesAlongY(t *testing.T) {
	g, ranges := testGrid()
	var out []geom.OpenPath
	g.PathsFromRanges(ranges, false, &out)
	if len(out) != 2 {
		t.Fatalf("got %d paths, want 2", len(out))
	}
	if out[0].Start() != (geom.Point2{X: 0, Y: 10}) || out[0].End() != (geom.Point2{X: 0, Y: 15}) {
		t.Errorf("col 0 = %v", out[0].V)
	}
	if out[1].Start() != (geom.Point2{X: 2, Y: 15}) || out[1].End() != (geom.Point2{X: 2, Y: 10}) {
		t.Errorf("col 2 not serpentined: %v", out[1].V)
	}
}

func TestGridRangesEmpty(t *testing.T) {
	var r GridRanges
	if !r.Empty() {
		t.Error("zero ranges should be empty")
	}
	r.XRays = [][]ScalarRange{{}, {{Min: 1, Max: 2}}}
	if r.Empty() {
		t.Error("ranges with a covered interval should not be empty")
	}
}
