package gcode

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cjsatuforc/Miracle-Grue/conf"
)

func testGantry() (*Gantry, *conf.Extruder, *conf.Extrusion) {
	g := NewGantry()
	g.InitToStart(&conf.GrueConfig{})
	ex := &conf.Extruder{FeedDiameter: 1.75}
	prof := &conf.Extrusion{
		Feedrate:             1200,
		RetractDistance:      1.0,
		RetractRate:          1800,
		RestartExtraDistance: 0.25,
		RestartExtraRate:     900,
	}
	return g, ex, prof
}

func TestGantryUninitialized(t *testing.T) {
	g := NewGantry()
	var out bytes.Buffer
	err := g.G1Motion(&out, 0, 0, 0, 0, 0, 0, 0, "", true, false, false, false, false)
	require.Error(t, err)
}

func TestG1MotionAxisFlags(t *testing.T) {
	g, _, _ := testGantry()
	var out bytes.Buffer
	require.NoError(t, g.G1Motion(&out, 1, 2, 3, 4, 5, 0, 0, "x only", true, false, false, false, false))
	line := strings.TrimSpace(out.String())
	assert.Equal(t, "G1 X1.000 (x only)", line)

	x, y, z := g.Position()
	assert.Equal(t, 1.0, x)
	assert.Equal(t, 0.0, y, "unflagged axes must not move")
	assert.Equal(t, 0.0, z)
	assert.Equal(t, 0.0, g.E())
}

func TestG1MotionRejectsNonFinite(t *testing.T) {
	g, _, _ := testGantry()
	var out bytes.Buffer
	err := g.G1Motion(&out, math.NaN(), 0, 0, 0, 0, 0, 0, "", true, false, false, false, false)
	require.Error(t, err)
	assert.Empty(t, out.String())
}

func TestSnortSquirtStateMachine(t *testing.T) {
	g, _, prof := testGantry()
	var out bytes.Buffer

	require.NoError(t, g.Snort(&out, prof))
	assert.True(t, g.Retracted())
	assert.InDelta(t, -1.0, g.E(), 1e-9)
	assert.Contains(t, out.String(), "E-1.000")
	assert.Contains(t, out.String(), "F1800.000")

	// a second snort is a no-op
	before := out.Len()
	require.NoError(t, g.Snort(&out, prof))
	assert.Equal(t, before, out.Len())

	require.NoError(t, g.Squirt(&out, prof))
	assert.False(t, g.Retracted())
	assert.InDelta(t, 0.25, g.E(), 1e-9, "squirt restores retract plus restart extra")
	assert.Contains(t, out.String(), "F900.000")

	before = out.Len()
	require.NoError(t, g.Squirt(&out, prof))
	assert.Equal(t, before, out.Len())

	// retraction never moves the head
	x, y, z := g.Position()
	assert.Equal(t, [3]float64{0, 0, 0}, [3]float64{x, y, z})
}

func TestG1ComputesExtrusion(t *testing.T) {
	g, ex, prof := testGantry()
	var out bytes.Buffer

	h, w := 0.3, 0.5
	require.NoError(t, g.G1(&out, ex, prof, 2, 0, 0, 1200, h, w, ""))
	wantE := 2.0 * prof.CrossSectionArea(h, w) / ex.FeedCrossSectionArea()
	assert.InDelta(t, wantE, g.E(), 1e-9)

	// while retracted, motion must not extrude
	require.NoError(t, g.Snort(&out, prof))
	eBefore := g.E()
	require.NoError(t, g.G1(&out, ex, prof, 5, 0, 0, 1200, h, w, ""))
	assert.Equal(t, eBefore, g.E())
	x, _, _ := g.Position()
	assert.Equal(t, 5.0, x)
}

func TestCrossSectionArea(t *testing.T) {
	prof := &conf.Extrusion{}
	got := prof.CrossSectionArea(0.3, 0.5)
	want := math.Pi*0.15*0.15 + 0.3*0.2
	assert.InDelta(t, want, got, 1e-12)

	ex := &conf.Extruder{FeedDiameter: 1.75}
	assert.InDelta(t, math.Pi*0.875*0.875, ex.FeedCrossSectionArea(), 1e-12)
}
