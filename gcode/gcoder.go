package gcode

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/cjsatuforc/Miracle-Grue/conf"
	"github.com/cjsatuforc/Miracle-Grue/geom"
	"github.com/cjsatuforc/Miracle-Grue/layer"
	"github.com/cjsatuforc/Miracle-Grue/mesh"
	"github.com/cjsatuforc/Miracle-Grue/progress"
	"github.com/cjsatuforc/Miracle-Grue/util"
)

const (
	programName    = "MiracleGrue"
	programVersion = "0.0.4"
)

// plural adds an s to a noun if count is more than 1.
func plural(noun string, count int) string {
	if count > 1 {
		return noun + "s"
	}
	return noun
}

// GCoder writes a stream of G-code directives from ordered layer
// paths. It exclusively owns the output stream for the duration of a
// WriteGcodeFile call; every gantry mutation and its textual command
// are a single logical transaction.
type GCoder struct {
	progress.Progressive
	cfg    *conf.GrueConfig
	gantry *Gantry

	progressTotal   int
	progressCurrent int
	progressPercent int
}

// NewGCoder returns an emitter whose gantry has been initialized to
// the configured start coordinates.
func NewGCoder(cfg *conf.GrueConfig, bar progress.Bar) *GCoder {
	g := &GCoder{
		Progressive: progress.NewProgressive(bar),
		cfg:         cfg,
		gantry:      NewGantry(),
	}
	g.gantry.InitToStart(cfg)
	return g
}

// Gantry exposes the tracked machine state, mainly for tests.
func (g *GCoder) Gantry() *Gantry {
	return g.gantry
}

// WriteGcodeFile emits the whole layer sequence.
func (g *GCoder) WriteGcodeFile(lp *layer.LayerPaths, measure *mesh.LayerMeasure, w io.Writer, title string) error {
	return g.WriteGcodeRange(lp, measure, w, title, 0, len(lp.Layers))
}

// WriteGcodeRange emits layers [begin, end). Configuration and I/O
// failures abort; per-path failures are logged and skipped.
func (g *GCoder) WriteGcodeRange(lp *layer.LayerPaths, measure *mesh.LayerMeasure, w io.Writer, title string, begin, end int) error {
	_ = measure
	if err := g.writeStartGcode(w, title); err != nil {
		return err
	}

	g.progressTotal = 0
	g.progressCurrent = 0
	g.progressPercent = 0
	for i := begin; i < end; i++ {
		for ei := range lp.Layers[i].Extruders {
			for _, p := range lp.Layers[i].Extruders[ei].Paths {
				g.progressTotal += len(p.Path.V)
			}
		}
	}

	g.InitProgress("gcode", end-begin)
	layerSequence := 0
	for i := begin; i < end; i++ {
		g.Tick()
		lay := &lp.Layers[i]
		if g.cfg.DoAnchor && layerSequence == 0 {
			if err := g.writeAnchor(w, lay); err != nil {
				return err
			}
		}
		if err := g.writeSlice(w, lay, layerSequence); err != nil {
			return err
		}
		layerSequence++
	}

	if g.cfg.DoFanCommand {
		fmt.Fprintf(w, "M127 T%d (Turn off the fan)\n", g.cfg.DefaultExtruder)
	}
	return g.writeEndGcode(w)
}

// writeStartGcode emits the config comment block and the optional
// user header file.
func (g *GCoder) writeStartGcode(w io.Writer, title string) error {
	g.writeGcodeConfig(w, title)
	if g.cfg.Header == "" {
		return nil
	}
	return includeFile(w, g.cfg.Header, "header")
}

func (g *GCoder) writeEndGcode(w io.Writer) error {
	if g.cfg.Footer == "" {
		return nil
	}
	return includeFile(w, g.cfg.Footer, "footer")
}

// includeFile copies a user file verbatim, bracketed by begin/end
// comments naming it.
func includeFile(w io.Writer, path, kind string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "unable to open gcode %s file [%s]", kind, path)
	}
	if _, err := fmt.Fprintf(w, "(%s [%s] begin)\n", kind, path); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "(%s [%s] end)\n\n", kind, path)
	return err
}

// writeGcodeConfig writes the file-leading metadata comments.
func (g *GCoder) writeGcodeConfig(w io.Writer, title string) {
	const indent = "* "
	fmt.Fprintln(w)
	fmt.Fprintf(w, "(%s)\n", programName)
	fmt.Fprintln(w, "(This file contains digital fabrication directives in gcode format)")
	fmt.Fprintln(w, "(For your 3D printer)")
	fmt.Fprintf(w, "(%sGenerated by %s %s)\n", indent, programName, programVersion)
	fmt.Fprintf(w, "(%s%s)\n", indent, time.Now().Format(time.ANSIC))
	fmt.Fprintf(w, "(%s%s)\n", indent, title)
	count := len(g.cfg.Extruders)
	fmt.Fprintf(w, "(%s%d %s)\n", indent, count, plural("extruder", count))
	fmt.Fprintf(w, "(%sExtrude infills: %t)\n", indent, g.cfg.DoInfills)
	fmt.Fprintf(w, "(%sExtrude insets: %t)\n", indent, g.cfg.DoInsets)
	fmt.Fprintf(w, "(%sExtrude outlines: %t)\n", indent, g.cfg.DoOutlines)
	fmt.Fprintln(w)
}

// writeProgressPercent emits an M73 line when the integer percent
// ticks over.
func (g *GCoder) writeProgressPercent(w io.Writer) {
	if !g.cfg.DoPrintProgress || g.progressTotal == 0 {
		return
	}
	pct := g.progressCurrent * 100 / g.progressTotal
	if pct != g.progressPercent {
		fmt.Fprintf(w, "M73 P%d (progress (%d%%): %d/%d)\n",
			pct, pct, g.progressCurrent-1, g.progressTotal)
		g.progressPercent = pct
	}
}

// writeAnchor primes the nozzle at the configured start coordinate
// before the first model trace.
func (g *GCoder) writeAnchor(w io.Writer, lay *layer.Layer) error {
	if len(lay.Extruders) == 0 {
		return nil
	}
	el := &lay.Extruders[0]
	extruder, err := g.extruderFor(el)
	if err != nil {
		return err
	}
	prof, err := g.cfg.ExtrusionProfile(extruder.FirstLayerExtrusionProfile)
	if err != nil {
		return err
	}
	g.gantry.SetCurrentExtruderCode(extruder.Code)

	var startPoint geom.Point2
	if len(el.Paths) > 0 && !el.Paths[0].Path.Empty() {
		startPoint = el.Paths[0].Path.Start()
	}

	if err := g.gantry.Snort(w, &prof); err != nil {
		return err
	}
	z := lay.Z + lay.Height
	h := lay.Height
	w2 := lay.W * 2
	if err := g.gantry.G1(w, extruder, &prof, g.cfg.StartingX, g.cfg.StartingY, z, prof.Feedrate, h, w2, "Anchor Start"); err != nil {
		return err
	}
	if err := g.gantry.Squirt(w, &prof); err != nil {
		return err
	}
	if err := g.gantry.G1(w, extruder, &prof, g.cfg.StartingX, g.cfg.StartingY, z, prof.Feedrate, h, w2, "Anchor Start"); err != nil {
		return err
	}
	return g.gantry.G1(w, extruder, &prof, startPoint.X, startPoint.Y, z, prof.Feedrate, h, w2, "Anchor End")
}

func (g *GCoder) extruderFor(el *layer.ExtruderLayer) (*conf.Extruder, error) {
	if el.ExtruderID < 0 || el.ExtruderID >= len(g.cfg.Extruders) {
		return nil, errors.Errorf("invalid extruder id %d", el.ExtruderID)
	}
	return &g.cfg.Extruders[el.ExtruderID], nil
}

// writeSlice frames one layer: slice comments, optional display and
// fan commands, then per-extruder Z move and path emission.
func (g *GCoder) writeSlice(w io.Writer, lay *layer.Layer, layerSequence int) error {
	extruderCount := len(lay.Extruders)
	fmt.Fprintf(w, "(Slice %d, %d %s) \n", layerSequence, extruderCount, plural("Extruder", extruderCount))
	fmt.Fprintf(w, "(Layer Height: \t%g)\n", lay.Height)
	fmt.Fprintf(w, "(Layer Width: \t%g)\n", lay.W)
	if g.cfg.DoPrintLayerMessages {
		fmt.Fprintf(w, "M70 P20 (Layer: %d)\n", layerSequence)
	}
	if g.cfg.DoFanCommand && layerSequence == g.cfg.FanLayer {
		fmt.Fprintf(w, "M126 T%d (Turn on the fan)\n", g.cfg.DefaultExtruder)
	}

	anyCategory := g.cfg.DoOutlines || g.cfg.DoInsets || g.cfg.DoInfills || g.cfg.DoSupport
	for ei := range lay.Extruders {
		el := &lay.Extruders[ei]
		if len(el.Paths) == 0 && !anyCategory {
			continue
		}
		extruder, err := g.extruderFor(el)
		if err != nil {
			return err
		}
		g.gantry.SetCurrentExtruderCode(extruder.Code)
		zFeedrate := g.cfg.ScalingFactor * g.cfg.RapidMoveFeedRateZ
		z := lay.Z + lay.Height
		if err := g.moveZ(w, z, zFeedrate); err != nil {
			util.LogSevere("ERROR writing Z move in slice %d for extruder %d : %v",
				layerSequence, extruder.ID, err)
		}
		if g.cfg.DoOutlines {
			fmt.Fprintf(w, "(outlines: %d)\n", len(el.OutlinePaths()))
		}
		if g.cfg.DoInsets {
			fmt.Fprintf(w, "(insets: %d)\n", len(el.InsetPaths()))
		}
		if g.cfg.DoInfills {
			fmt.Fprintf(w, "(infills: %d)\n", len(el.InfillPaths()))
		}
		if g.cfg.DoSupport {
			fmt.Fprintf(w, "(support: %d)\n", len(el.SupportPaths()))
		}
		g.writePaths(w, z, lay.Height, lay.W, layerSequence, extruder, el.Paths)
	}
	return nil
}

func (g *GCoder) moveZ(w io.Writer, z float64, zFeedrate float64) error {
	return g.gantry.G1Motion(w, 0, 0, z, 0, zFeedrate, 0, 0,
		"move Z", false, false, true, false, true)
}

// profileFor selects the extrusion profile by path category,
// substituting the first-layer profile on slice 0. The returned
// profile's feedrate is already scaled.
func (g *GCoder) profileFor(label geom.PathLabel, extruder *conf.Extruder, sliceID int) (conf.Extrusion, error) {
	var name string
	switch {
	case sliceID == 0:
		name = extruder.FirstLayerExtrusionProfile
	case label.Type == geom.PathTypeOutline:
		name = extruder.OutlinesExtrusionProfile
	case label.IsInset() || label.IsConnection():
		name = extruder.InsetsExtrusionProfile
	default:
		name = extruder.InfillsExtrusionProfile
	}
	return g.cfg.ExtrusionProfile(name)
}

// writePaths emits every path in stored order; the optimizer has
// already chosen direction. A path whose emission fails is logged and
// skipped.
func (g *GCoder) writePaths(w io.Writer, z, h, wd float64, sliceID int, extruder *conf.Extruder, paths geom.LabeledOpenPaths) {
	for i := range paths {
		if err := g.writePath(w, z, h, wd, sliceID, extruder, paths[i]); err != nil {
			util.LogSevere("ERROR writing path in slice %d for extruder %d : %v",
				sliceID, extruder.ID, err)
		}
	}
}

// writePath traces one labeled path: retract, travel to the lead-in
// point, prime, extrude each segment, overshoot by the lead-out, and
// retract again. The gantry enters and leaves in the retracted state.
func (g *GCoder) writePath(w io.Writer, z, h, wd float64, sliceID int, extruder *conf.Extruder, lp geom.LabeledOpenPath) error {
	n := len(lp.Path.V)
	if n < 2 {
		g.tickPoints(w, n)
		return nil
	}
	prof, err := g.profileFor(lp.Label, extruder, sliceID)
	if err != nil {
		return err
	}

	leadIn, leadOut := extruder.LeadIn, extruder.LeadOut
	if extruder.IsVolumetric() {
		leadIn, leadOut = 0, 0
	}
	first := lp.Path.V[0]
	entry := first
	if leadIn > 0 {
		d := lp.Path.V[1].Sub(first)
		if d.MagSq() > 0 {
			entry = first.Sub(d.Normalised().Scale(leadIn))
		}
	}
	last := lp.Path.V[n-1]
	exit := last
	if leadOut > 0 {
		d := last.Sub(lp.Path.V[n-2])
		if d.MagSq() > 0 {
			exit = last.Add(d.Normalised().Scale(leadOut))
		}
	}

	if err := g.gantry.Snort(w, &prof); err != nil {
		return err
	}
	rapid := g.cfg.RapidMoveFeedRate * g.cfg.ScalingFactor
	if err := g.gantry.G1(w, extruder, &prof, entry.X, entry.Y, z, rapid, 0, 0, "move to path"); err != nil {
		return err
	}
	if err := g.gantry.Squirt(w, &prof); err != nil {
		return err
	}
	g.tickPoints(w, 1)
	for i := 1; i < n; i++ {
		v := lp.Path.V[i]
		if err := g.gantry.G1(w, extruder, &prof, v.X, v.Y, z, prof.Feedrate, h, wd, ""); err != nil {
			return err
		}
		g.tickPoints(w, 1)
	}
	if exit != last {
		if err := g.gantry.G1(w, extruder, &prof, exit.X, exit.Y, z, prof.Feedrate, h, wd, "lead out"); err != nil {
			return err
		}
	}
	return g.gantry.Snort(w, &prof)
}

// tickPoints advances the percent ticker by emitted path points.
func (g *GCoder) tickPoints(w io.Writer, n int) {
	for i := 0; i < n; i++ {
		g.progressCurrent++
		g.writeProgressPercent(w)
	}
}
