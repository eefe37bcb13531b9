package pather

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

func square(cx, cy, half float64) geom.Loop {
	return geom.Loop{V: []geom.Point2{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}}
}

// loads one outline, two nested insets and one infill raster, in a
// deliberately shuffled order.
func loadPriorityScene(opt Optimizer) {
	opt.AddPaths([]geom.OpenPath{
		{V: []geom.Point2{{X: -1, Y: 0}, {X: 1, Y: 0}}},
	}, geom.PathLabel{Type: geom.PathTypeInfill, Owner: geom.OwnerModel, Shell: geom.InfillLabelValue})
	opt.AddLoops([]geom.Loop{square(0, 0, 3)},
		geom.PathLabel{Type: geom.PathTypeInset, Owner: geom.OwnerModel, Shell: geom.InsetLabelValue + 1})
	opt.AddLoops([]geom.Loop{square(0, 0, 4)},
		geom.PathLabel{Type: geom.PathTypeInset, Owner: geom.OwnerModel, Shell: geom.InsetLabelValue})
	opt.AddLoops([]geom.Loop{square(0, 0, 5)},
		geom.PathLabel{Type: geom.PathTypeOutline, Owner: geom.OwnerModel})
}

func depositionLabels(paths geom.LabeledOpenPaths) []geom.PathLabel {
	var out []geom.PathLabel
	for _, p := range paths {
		if p.Label.IsConnection() {
			continue
		}
		out = append(out, p.Label)
	}
	return out
}

func TestOptimizeLabelPriority(t *testing.T) {
	for name, opt := range map[string]Optimizer{
		"fastgraph": NewFastGraph(1, 0.1),
		"greedy":    NewGreedy(),
	} {
		t.Run(name, func(t *testing.T) {
			loadPriorityScene(opt)
			got, err := opt.Optimize()
			require.NoError(t, err)
			labels := depositionLabels(got)
			require.Len(t, labels, 4)
			assert.Equal(t, geom.PathTypeOutline, labels[0].Type)
			assert.Equal(t, geom.InsetLabelValue, labels[1].Shell)
			assert.Equal(t, geom.InsetLabelValue+1, labels[2].Shell)
			assert.Equal(t, geom.PathTypeInfill, labels[3].Type)
		})
	}
}

func TestOptimizeBoundaryAvoidance(t *testing.T) {
	opt := NewFastGraph(0, 0.1)
	opt.AddBoundaries([]geom.Loop{square(2.5, 0, 0.5)})

	label := geom.PathLabel{Type: geom.PathTypeInfill, Owner: geom.OwnerModel, Shell: geom.InfillLabelValue}
	opt.AddPaths([]geom.OpenPath{
		{V: []geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		// nearer, but the leg from (1,0) crosses the boundary square
		{V: []geom.Point2{{X: 4, Y: 0}, {X: 5, Y: 0}}},
		// farther, and reachable without crossing
		{V: []geom.Point2{{X: 1, Y: 5}, {X: 2, Y: 5}}},
	}, label)

	got, err := opt.Optimize()
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, geom.Point2{X: 0, Y: 0}, got[0].Path.Start())
	assert.InDelta(t, 5.0, got[1].Path.Start().Y, 1e-9,
		"the non-crossing path should be visited before the one behind the boundary")
}

func TestOptimizeGreedyReversal(t *testing.T) {
	opt := NewGreedy()
	label := geom.PathLabel{Type: geom.PathTypeInfill, Owner: geom.OwnerModel, Shell: geom.InfillLabelValue}
	opt.AddPaths([]geom.OpenPath{
		{V: []geom.Point2{{X: 5, Y: 0}, {X: 1, Y: 0}}},
	}, label)
	got, err := opt.Optimize()
	require.NoError(t, err)
	require.Len(t, got, 1)
	// entering from the origin, the (1,0) end is closer, so the path
	// runs reversed
	assert.Equal(t, geom.Point2{X: 1, Y: 0}, got[0].Path.Start())
	assert.Equal(t, geom.Point2{X: 5, Y: 0}, got[0].Path.End())
}

func TestOptimizeRejectsNonFinite(t *testing.T) {
	for name, opt := range map[string]Optimizer{
		"fastgraph": NewFastGraph(1, 0.1),
		"greedy":    NewGreedy(),
	} {
		t.Run(name, func(t *testing.T) {
			label := geom.PathLabel{Type: geom.PathTypeInfill, Owner: geom.OwnerModel, Shell: geom.InfillLabelValue}
			opt.AddPaths([]geom.OpenPath{
				{V: []geom.Point2{{X: 0, Y: 0}, {X: math.NaN(), Y: 0}}},
			}, label)
			got, err := opt.Optimize()
			require.Error(t, err)
			assert.Nil(t, got, "a failed optimize must not partially populate the output")
		})
	}
}

func TestOptimizeClearResets(t *testing.T) {
	opt := NewFastGraph(1, 0.1)
	loadPriorityScene(opt)
	opt.AddBoundaries([]geom.Loop{square(0, 0, 10)})
	opt.ClearPaths()
	opt.ClearBoundaries()
	got, err := opt.Optimize()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOptimizeLoopTraversalClosed(t *testing.T) {
	opt := NewFastGraph(1, 0.1)
	opt.AddLoops([]geom.Loop{square(0, 0, 2)},
		geom.PathLabel{Type: geom.PathTypeInset, Owner: geom.OwnerModel, Shell: geom.InsetLabelValue})
	got, err := opt.Optimize()
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Path.ClosedLoop(), "loop traversal must return to its entry")
	assert.Len(t, got[0].Path.V, 5)
}

func TestOptimizeConnectionsBetweenInsets(t *testing.T) {
	opt := NewFastGraph(1, 10)
	label := geom.PathLabel{Type: geom.PathTypeInset, Owner: geom.OwnerModel, Shell: 0}
	opt.AddPaths([]geom.OpenPath{
		{V: []geom.Point2{{X: 0, Y: 0}, {X: 1, Y: 0}}},
		{V: []geom.Point2{{X: 1.05, Y: 0}, {X: 2, Y: 0}}},
	}, label)
	got, err := opt.Optimize()
	require.NoError(t, err)
	require.Len(t, got, 3, "expected a connection between the two spur insets")
	assert.True(t, got[1].Label.IsConnection())
	assert.Equal(t, got[0].Path.End(), got[1].Path.Start())
	assert.Equal(t, got[2].Path.Start(), got[1].Path.End())
}
