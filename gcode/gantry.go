// Package gcode emits machine-control directives for a single-head
// gantry-and-extruder system, tracking position, feedrate, filament
// advance and retraction.
package gcode

import (
	"fmt"
	"io"
	"math"

	"github.com/pkg/errors"

	"github.com/cjsatuforc/Miracle-Grue/conf"
)

// sameSame reports whether two coordinates land on the same machine
// step.
func sameSame(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// A Gantry tracks the machine's motion state. Its tracked x, y, z
// always equal the last commanded endpoint, and e equals cumulative
// commanded advance. Constructed cold; InitToStart must run before
// any emission.
type Gantry struct {
	x, y, z     float64
	feed        float64
	e           float64
	code        int
	retracted   bool
	temperature float64
	initialized bool
}

// NewGantry returns a gantry in its cold, uninitialized pose.
func NewGantry() *Gantry {
	return &Gantry{}
}

// InitToStart moves the tracked pose to the configured start
// coordinates without emitting anything.
func (g *Gantry) InitToStart(cfg *conf.GrueConfig) {
	g.x = cfg.StartingX
	g.y = cfg.StartingY
	g.z = cfg.StartingZ
	g.e = 0
	g.feed = 0
	g.retracted = false
	g.initialized = true
}

// SetCurrentExtruderCode selects the machine tool index.
func (g *Gantry) SetCurrentExtruderCode(code int) {
	g.code = code
}

// CurrentExtruderCode returns the selected tool index.
func (g *Gantry) CurrentExtruderCode() int {
	return g.code
}

// Position returns the tracked head position.
func (g *Gantry) Position() (x, y, z float64) {
	return g.x, g.y, g.z
}

// E returns the tracked filament position.
func (g *Gantry) E() float64 {
	return g.e
}

// Retracted reports whether the filament is currently withdrawn.
func (g *Gantry) Retracted() bool {
	return g.retracted
}

// SetTemperature records the commanded head temperature.
func (g *Gantry) SetTemperature(t float64) {
	g.temperature = t
}

// volumetricE returns the filament advance for a planar move to
// (x, y) depositing a bead of the given height and width.
func (g *Gantry) volumetricE(extruder *conf.Extruder, extrusion *conf.Extrusion, x, y, h, w float64) float64 {
	dx := x - g.x
	dy := y - g.y
	dist := math.Sqrt(dx*dx + dy*dy)
	return dist * extrusion.CrossSectionArea(h, w) / extruder.FeedCrossSectionArea()
}

// G1Motion emits a G1 line carrying only the flagged axes, and
// updates the tracked state for exactly those axes. Coordinates and
// feedrate print with three decimals, locale independent.
func (g *Gantry) G1Motion(w io.Writer, x, y, z, e, feedrate, h, wd float64, comment string, doX, doY, doZ, doE, doFeed bool) error {
	if !g.initialized {
		return errors.New("gantry used before init_to_start")
	}
	for _, v := range []float64{x, y, z, e, feedrate} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.Errorf("non-finite coordinate in G1 (%s)", comment)
		}
	}
	line := "G1"
	if doX {
		line += fmt.Sprintf(" X%.3f", x)
	}
	if doY {
		line += fmt.Sprintf(" Y%.3f", y)
	}
	if doZ {
		line += fmt.Sprintf(" Z%.3f", z)
	}
	if doFeed {
		line += fmt.Sprintf(" F%.3f", feedrate)
	}
	if doE {
		line += fmt.Sprintf(" E%.3f", e)
	}
	if comment != "" {
		line += " (" + comment + ")"
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}
	if doX {
		g.x = x
	}
	if doY {
		g.y = y
	}
	if doZ {
		g.z = z
	}
	if doE {
		g.e = e
	}
	if doFeed {
		g.feed = feedrate
	}
	return nil
}

// G1 emits a coordinated move to (x, y, z), deriving which axes to
// include from the tracked state. The filament axis is included when
// the head is primed and the move deposits a bead (h and wd set).
func (g *Gantry) G1(w io.Writer, extruder *conf.Extruder, extrusion *conf.Extrusion, x, y, z, feedrate, h, wd float64, comment string) error {
	doX := !sameSame(g.x, x)
	doY := !sameSame(g.y, y)
	doZ := !sameSame(g.z, z)
	doFeed := !sameSame(g.feed, feedrate)
	doE := !g.retracted && h > 0 && wd > 0 && (doX || doY)
	e := g.e
	if doE {
		e += g.volumetricE(extruder, extrusion, x, y, h, wd)
	}
	return g.G1Motion(w, x, y, z, e, feedrate, h, wd, comment, doX, doY, doZ, doE, doFeed)
}

// Snort withdraws the filament to suppress ooze before travel. A
// no-op when already retracted; never moves x, y or z.
func (g *Gantry) Snort(w io.Writer, extrusion *conf.Extrusion) error {
	if g.retracted {
		return nil
	}
	e := g.e - extrusion.RetractDistance
	if err := g.G1Motion(w, 0, 0, 0, e, extrusion.RetractRate, 0, 0, "snort", false, false, false, true, true); err != nil {
		return err
	}
	g.retracted = true
	return nil
}

// Squirt restores the filament after travel, adding the restart
// extra. A no-op when already primed; never moves x, y or z.
func (g *Gantry) Squirt(w io.Writer, extrusion *conf.Extrusion) error {
	if !g.retracted {
		return nil
	}
	e := g.e + extrusion.RetractDistance + extrusion.RestartExtraDistance
	if err := g.G1Motion(w, 0, 0, 0, e, extrusion.RestartExtraRate, 0, 0, "squirt", false, false, false, true, true); err != nil {
		return err
	}
	g.retracted = false
	return nil
}
