package render

import (
	"bufio"
	"fmt"
	"io"

	"github.com/cjsatuforc/Miracle-Grue/geom"
	"github.com/cjsatuforc/Miracle-Grue/layer"
)

func strokeFor(l geom.PathLabel) string {
	switch {
	case l.Owner == geom.OwnerSupport:
		return "gray"
	case l.Type == geom.PathTypeOutline:
		return "black"
	case l.Type == geom.PathTypeInset:
		return "blue"
	case l.Type == geom.PathTypeConnection:
		return "red"
	default:
		return "green"
	}
}

var svgh = `<svg height="%d" width="%d" viewBox="%d %d %d %d" version="1.1" xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink">`

// clipToView splits a path into the runs that lie inside the view
// bounds: each segment is clipped independently, and a clipped
// segment continues the current run only when it starts exactly
// where the previous one ended.
func clipToView(p geom.OpenPath, b geom.Bounds) []geom.OpenPath {
	var runs []geom.OpenPath
	open := false
	for _, s := range p.Segments() {
		c, ok := b.ClipSegment(s)
		if !ok {
			open = false
			continue
		}
		if !open || c.A != s.A {
			runs = append(runs, geom.OpenPath{V: []geom.Point2{c.A}})
		}
		runs[len(runs)-1].AppendEnd(c.B)
		open = c.B == s.B
	}
	return runs
}

// WriteLayerSVG writes an SVG rendering of one layer's paths, stroked
// by label, clipped to the given bounds. Useful for eyeballing what
// the pather decided.
func WriteLayerSVG(w io.Writer, lay *layer.Layer, b geom.Bounds) error {
	var werr error
	bi := bufio.NewWriter(w)
	wr := func(f string, args ...interface{}) {
		if werr != nil {
			return
		}
		_, werr = fmt.Fprintf(bi, f, args...)
	}
	wr(svgh, int(b.Max.Y), int(b.Max.X), int(b.Min.X), int(b.Min.Y), int(b.Max.X-b.Min.X), int(b.Max.Y-b.Min.Y))
	wr("\n")
	wr("<g fill=\"none\" stroke-width=\"0.1\">\n")
	for ei := range lay.Extruders {
		for _, lp := range lay.Extruders[ei].Paths {
			for _, part := range clipToView(lp.Path, b) {
				wr(`<path stroke="%s" d="`, strokeFor(lp.Label))
				for i, v := range part.V {
					if i == 0 {
						wr("M %.2f, %.2f", v.X, v.Y)
					} else {
						wr(" %.2f, %.2f", v.X, v.Y)
					}
				}
				wr("\"/>\n")
			}
		}
	}
	wr("</g>")
	wr("</svg>")
	if werr == nil {
		werr = bi.Flush()
	}
	return werr
}
