package pather

import (
	"bytes"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjsatuforc/Miracle-Grue/conf"
	"github.com/cjsatuforc/Miracle-Grue/geom"
	"github.com/cjsatuforc/Miracle-Grue/layer"
	"github.com/cjsatuforc/Miracle-Grue/mesh"
	"github.com/cjsatuforc/Miracle-Grue/util"
)

func patherConfig() *conf.GrueConfig {
	cfg := conf.Default()
	cfg.Extruders = []conf.Extruder{{FeedDiameter: 1.75}}
	cfg.ExtrusionProfiles = map[string]conf.Extrusion{}
	return cfg
}

// infillEverywhere builds a skeleton of n layers, each with ranges on
// both axes so the chosen raster axis is observable.
func infillEverywhere(n int) (RegionList, *Grid) {
	grid := &Grid{
		XValues: []float64{1},
		YValues: []float64{2},
	}
	var skel RegionList
	for i := 0; i < n; i++ {
		skel = append(skel, LayerRegions{
			Index: i,
			Infill: GridRanges{
				XRays: [][]ScalarRange{{{Min: 0, Max: 10}}},
				YRays: [][]ScalarRange{{{Min: 0, Max: 10}}},
			},
		})
	}
	return skel, grid
}

// rasterHorizontal reports whether the layer's single infill path
// runs along the x axis.
func rasterHorizontal(t *testing.T, lay *layer.Layer) bool {
	t.Helper()
	require.Len(t, lay.Extruders, 1)
	paths := lay.Extruders[0].Paths
	require.Len(t, paths, 1)
	v := paths[0].Path.V
	require.Len(t, v, 2)
	return v[0].Y == v[1].Y
}

func TestGeneratePathsDirectionAlternates(t *testing.T) {
	cfg := patherConfig()
	skel, grid := infillEverywhere(4)
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 4)

	want := []bool{true, false, true, false}
	for i, horizontal := range want {
		assert.Equal(t, horizontal, rasterHorizontal(t, &lp.Layers[i]),
			"layer %d raster axis", i)
	}
}

func TestGeneratePathsRaftAlignedDirectionLock(t *testing.T) {
	cfg := patherConfig()
	cfg.DoRaft = true
	cfg.RaftLayers = 3
	cfg.RaftAligned = true
	skel, grid := infillEverywhere(5)
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 5)

	// direction starts false and flips each layer, except that the
	// non-base raft layers hold the previous direction
	want := []bool{true, false, false, true, false}
	for i, horizontal := range want {
		assert.Equal(t, horizontal, rasterHorizontal(t, &lp.Layers[i]),
			"layer %d raster axis", i)
	}
}

func TestGeneratePathsLayerRange(t *testing.T) {
	cfg := patherConfig()
	skel, grid := infillEverywhere(6)
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, 2, 4)
	require.Len(t, lp.Layers, 3)
	assert.Equal(t, 2, lp.Layers[0].MeasureID)
	assert.Equal(t, 4, lp.Layers[2].MeasureID)
}

func TestGeneratePathsZIncreases(t *testing.T) {
	cfg := patherConfig()
	skel, grid := infillEverywhere(5)
	measure := mesh.NewLayerMeasure(0.2, 0.35, 0.7)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 5)
	for i := 1; i < len(lp.Layers); i++ {
		assert.Greater(t, lp.Layers[i].Z, lp.Layers[i-1].Z)
		assert.Equal(t, 0.35, lp.Layers[i].Height)
	}
}

func TestGeneratePathsOutlineTraces(t *testing.T) {
	cfg := patherConfig()
	cfg.DoOutlines = true
	grid := &Grid{}
	skel := RegionList{{
		Index: 0,
		OutlineLoops: []geom.Loop{
			{V: []geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}},
		},
		SupportLoops: []geom.Loop{
			{V: []geom.Point2{{X: 5, Y: 5}, {X: 6, Y: 5}, {X: 6, Y: 6}}},
		},
	}}
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 1)
	paths := lp.Layers[0].Extruders[0].Paths
	require.Len(t, paths, 2)
	assert.Equal(t, geom.PathTypeOutline, paths[0].Label.Type)
	assert.Equal(t, geom.OwnerModel, paths[0].Label.Owner)
	assert.Equal(t, geom.OwnerSupport, paths[1].Label.Owner)
	assert.True(t, paths[0].Path.ClosedLoop())
	for _, p := range paths {
		assert.NotEqual(t, geom.PathTypeInvalid, p.Label.Type)
	}
}

func TestGeneratePathsInsetLabels(t *testing.T) {
	cfg := patherConfig()
	grid := &Grid{}
	skel := RegionList{{
		Index: 0,
		InsetLoops: [][]geom.Loop{
			{{V: []geom.Point2{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}}}},
			{{V: []geom.Point2{{X: 1, Y: 1}, {X: 3, Y: 1}, {X: 3, Y: 3}, {X: 1, Y: 3}}}},
		},
	}}
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 1)
	var shells []int
	for _, p := range lp.Layers[0].Extruders[0].Paths {
		if p.Label.IsConnection() {
			continue
		}
		require.Equal(t, geom.PathTypeInset, p.Label.Type)
		shells = append(shells, p.Label.Shell)
	}
	assert.Equal(t, []int{geom.InsetLabelValue, geom.InsetLabelValue + 1}, shells,
		"outer shell prints before inner shell")
}

func TestGeneratePathsBadLayerEmittedEmpty(t *testing.T) {
	var logged bytes.Buffer
	util.SetLogOutput(&logged)
	defer util.SetLogOutput(nil)

	cfg := patherConfig()
	skel, grid := infillEverywhere(3)
	skel[1].Infill.XRays[0][0].Min = math.NaN()
	skel[1].Infill.YRays[0][0].Min = math.NaN()
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 3)
	assert.NotEmpty(t, lp.Layers[0].Extruders[0].Paths)
	assert.Empty(t, lp.Layers[1].Extruders[0].Paths, "the broken layer is emitted empty")
	assert.NotEmpty(t, lp.Layers[2].Extruders[0].Paths, "the run continues after a bad layer")
	assert.Contains(t, logged.String(), "slice 1")
}

func TestGeneratePathsSupport(t *testing.T) {
	cfg := patherConfig()
	cfg.DoSupport = true
	grid := &Grid{YValues: []float64{0}}
	skel := RegionList{{
		Index: 0,
		SupportLoops: []geom.Loop{
			{V: []geom.Point2{{X: 0, Y: -1}, {X: 10, Y: -1}, {X: 10, Y: 1}, {X: 0, Y: 1}}},
		},
		SupportRanges: GridRanges{
			XRays: [][]ScalarRange{{{Min: 0, Max: 10}}},
		},
	}}
	measure := mesh.NewLayerMeasure(0, 0.3, 0.5)

	var lp layer.LayerPaths
	NewPather(cfg, nil).GeneratePaths(skel, measure, grid, &lp, -1, -1)
	require.Len(t, lp.Layers, 1)
	paths := lp.Layers[0].Extruders[0].Paths
	require.Len(t, paths, 1)
	assert.Equal(t, geom.OwnerSupport, paths[0].Label.Owner)
	assert.Equal(t, geom.PathTypeInfill, paths[0].Label.Type)
	assert.Equal(t, 0, paths[0].Label.Shell)
}
