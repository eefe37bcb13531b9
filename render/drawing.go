package render

import (
	"io"

	"github.com/pkg/errors"
	rsvg "github.com/rustyoz/svg"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

// ReadDrawing extracts loops from an SVG file using a full drawing-
// instruction parse, so relative commands and curves survive; curve
// segments are flattened to their endpoints. Prefer ReadLoops for
// files known to contain only straight absolute subpaths.
func ReadDrawing(r io.Reader, name string) ([]geom.Loop, error) {
	doc, err := rsvg.ParseSvgFromReader(r, name, 1.0)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to parse svg [%s]", name)
	}
	instructions, errs := doc.ParseDrawingInstructions()

	var loops []geom.Loop
	var cur []geom.Point2
	flush := func() {
		if len(cur) >= 3 {
			loops = append(loops, geom.Loop{V: cur})
		}
		cur = nil
	}
	for ins := range instructions {
		switch ins.Kind {
		case rsvg.MoveInstruction:
			flush()
			cur = append(cur, geom.Point2{X: ins.M[0], Y: ins.M[1]})
		case rsvg.LineInstruction:
			cur = append(cur, geom.Point2{X: ins.M[0], Y: ins.M[1]})
		case rsvg.CurveInstruction:
			cur = append(cur, geom.Point2{
				X: ins.CurvePoints.T[0],
				Y: ins.CurvePoints.T[1],
			})
		case rsvg.CloseInstruction, rsvg.PaintInstruction:
			flush()
		}
	}
	if err := <-errs; err != nil {
		return nil, errors.Wrapf(err, "unable to parse svg [%s]", name)
	}
	flush()
	return loops, nil
}
