// Package render reads outline loops from SVG files and writes
// per-layer SVG renderings of pathed output for inspection.
package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/JoshVarga/svgparser"
	"golang.org/x/net/html/charset"

	"github.com/cjsatuforc/Miracle-Grue/geom"
)

func parseLoopLine(loops *[]geom.Loop, xform *svgXform, e *svgparser.Element) error {
	var ferr error
	pf := func(s string) float64 {
		if ferr != nil {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		ferr = err
		return f
	}
	x1 := pf(e.Attributes["x1"])
	x2 := pf(e.Attributes["x2"])
	y1 := pf(e.Attributes["y1"])
	y2 := pf(e.Attributes["y2"])
	if ferr != nil {
		return ferr
	}
	// a bare line cannot close; treat it as a degenerate two-point
	// loop so the caller can reject or absorb it
	*loops = append(*loops, geom.Loop{V: []geom.Point2{
		xform.Apply(geom.Point2{X: x1, Y: y1}),
		xform.Apply(geom.Point2{X: x2, Y: y2}),
	}})
	return nil
}

type xformScannerState int

const (
	xfsName xformScannerState = 1 + iota
	xfsBra
	xfsMaybeComma
	xfsArg
)

func parseFloats(a []string) ([]float64, error) {
	var r []float64
	for _, x := range a {
		f, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil, err
		}
		r = append(r, f)
	}
	return r, nil
}

func svgXformTranslate(x, y float64) *svgXform {
	return &svgXform{
		M: [3][3]float64{
			{1, 0, x},
			{0, 1, y},
			{0, 0, 1},
		},
	}
}

func svgXformScale(x, y float64) *svgXform {
	return &svgXform{
		M: [3][3]float64{
			{x, 0, 0},
			{0, y, 0},
			{0, 0, 1},
		},
	}
}

func parseSingleXform(name string, args []string) (*svgXform, error) {
	switch name {
	case "translate":
		fa, err := parseFloats(args)
		if err != nil {
			return nil, err
		}
		if len(fa) != 1 && len(fa) != 2 {
			return nil, fmt.Errorf("translate should have one or two parameters: got %s", args)
		}
		if len(fa) == 1 {
			fa = append(fa, 0)
		}
		return svgXformTranslate(fa[0], fa[1]), nil
	case "scale":
		fa, err := parseFloats(args)
		if err != nil {
			return nil, err
		}
		if len(fa) != 1 && len(fa) != 2 {
			return nil, fmt.Errorf("scale should have one or two parameters: got %s", args)
		}
		if len(fa) == 1 {
			fa = append(fa, fa[0])
		}
		return svgXformScale(fa[0], fa[1]), nil
	default:
		return nil, fmt.Errorf("unknown transform function %q", name)
	}
}

func parseSVGXForm(x string) (*svgXform, error) {
	var s scanner.Scanner
	xf := svgIdentity
	s.Init(strings.NewReader(x))
	state := xfsName
	fname := ""
	var args []string
	for tok := s.Scan(); tok != scanner.EOF; tok = s.Scan() {
		switch state {
		case xfsName:
			if tok != scanner.Ident {
				return nil, fmt.Errorf("failed to parse transform: expected transform name, but got %q", s.TokenText())
			}
			fname = s.TokenText()
			state = xfsBra
		case xfsBra:
			if tok != '(' {
				return nil, fmt.Errorf("failed to parse transform: expected (, but got %q", s.TokenText())
			}
			state = xfsArg
		case xfsMaybeComma:
			if tok == ',' {
				continue
			}
			fallthrough
		case xfsArg:
			if tok == ')' {
				newxform, err := parseSingleXform(fname, args)
				if err != nil {
					return nil, err
				}
				xf = xf.Compose(newxform)
				state = xfsName
				args = nil
			} else if tok == scanner.Float || tok == scanner.Int {
				args = append(args, s.TokenText())
				state = xfsMaybeComma
			} else {
				return nil, fmt.Errorf("unexpected token %q parsing transform %q", s.TokenText(), x)
			}
		}
	}
	if state != xfsName {
		return nil, fmt.Errorf("failed to parse transform: %q", x)
	}
	return xf, nil
}

// parseLoopPath reads a d attribute of absolute move/line commands
// into loops, one loop per subpath.
func parseLoopPath(loops *[]geom.Loop, xf *svgXform, e *svgparser.Element) error {
	parts := strings.Fields(e.Attributes["d"])
	move := false
	var xy geom.Point2
	var xyp int
	cur := -1
	for _, p := range parts {
		if p == "M" {
			if xyp != 0 {
				return fmt.Errorf("got odd number of components before M")
			}
			move = true
			continue
		}
		if p == "L" {
			if xyp != 0 {
				return fmt.Errorf("got odd number of components before L")
			}
			continue
		}
		if p == "Z" || p == "z" {
			continue
		}
		p = strings.TrimRight(p, ",")
		x, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return err
		}
		if xyp == 0 {
			xy.X = x
		} else {
			xy.Y = x
		}
		xyp++
		if xyp == 2 {
			if move || cur < 0 {
				*loops = append(*loops, geom.Loop{})
				cur = len(*loops) - 1
			}
			(*loops)[cur].V = append((*loops)[cur].V, xf.Apply(xy))
			move = false
			xyp = 0
		}
	}
	if xyp != 0 {
		return fmt.Errorf("got stray component in path")
	}
	return nil
}

func parseLoopPolygon(loops *[]geom.Loop, xf *svgXform, e *svgparser.Element) error {
	fields := strings.FieldsFunc(e.Attributes["points"], func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
	fs, err := parseFloats(fields)
	if err != nil {
		return err
	}
	if len(fs)%2 != 0 {
		return fmt.Errorf("polygon has odd number of coordinates")
	}
	loop := geom.Loop{}
	for i := 0; i < len(fs); i += 2 {
		loop.V = append(loop.V, xf.Apply(geom.Point2{X: fs[i], Y: fs[i+1]}))
	}
	*loops = append(*loops, loop)
	return nil
}

type svgXform struct {
	M [3][3]float64
}

func (xf *svgXform) Compose(xf2 *svgXform) *svgXform {
	var a svgXform
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			for k := 0; k < 3; k++ {
				a.M[i][k] += xf.M[i][j] * xf2.M[j][k]
			}
		}
	}
	return &a
}

func (xf *svgXform) Apply(v geom.Point2) geom.Point2 {
	x := [3]float64{v.X, v.Y, 1.0}
	var r [3]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			r[i] += xf.M[i][j] * x[j]
		}
	}
	return geom.Point2{X: r[0] / r[2], Y: r[1] / r[2]}
}

var svgIdentity = &svgXform{
	M: [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
}

func parseLoops(loops *[]geom.Loop, xform *svgXform, e *svgparser.Element) error {
	for _, c := range e.Children {
		switch c.Name {
		case "g":
			gxf, err := parseSVGXForm(c.Attributes["transform"])
			if err != nil {
				return err
			}
			xf2 := xform.Compose(gxf)
			if err := parseLoops(loops, xf2, c); err != nil {
				return err
			}
		case "path":
			if err := parseLoopPath(loops, xform, c); err != nil {
				return err
			}
		case "polygon":
			if err := parseLoopPolygon(loops, xform, c); err != nil {
				return err
			}
		case "line":
			if err := parseLoopLine(loops, xform, c); err != nil {
				return err
			}
		case "defs":
			continue
		default:
			fmt.Fprintf(os.Stderr, "unknown child node type %q\n", c.Name)
		}
	}
	return nil
}

// ReadLoops parses an SVG file, extracting its subpaths as closed
// loops. Only limited SVG support: absolute move/line paths,
// polygons, lines, and translate/scale transforms. A trailing vertex
// equal to the first is dropped.
func ReadLoops(r io.Reader) ([]geom.Loop, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.CharsetReader = charset.NewReaderLabel
	elt, err := svgparser.DecodeFirst(decoder)
	if err != nil {
		return nil, err
	}
	if err := elt.Decode(decoder); err != nil && err != io.EOF {
		return nil, err
	}
	var loops []geom.Loop
	if err := parseLoops(&loops, svgIdentity, elt); err != nil {
		return nil, err
	}
	for i := range loops {
		v := loops[i].V
		if len(v) > 1 && v[0] == v[len(v)-1] {
			loops[i].V = v[:len(v)-1]
		}
	}
	return loops, nil
}
