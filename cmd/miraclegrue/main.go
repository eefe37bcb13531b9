package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/cjsatuforc/Miracle-Grue/conf"
	"github.com/cjsatuforc/Miracle-Grue/gcode"
	"github.com/cjsatuforc/Miracle-Grue/geom"
	"github.com/cjsatuforc/Miracle-Grue/layer"
	"github.com/cjsatuforc/Miracle-Grue/mesh"
	"github.com/cjsatuforc/Miracle-Grue/pather"
	"github.com/cjsatuforc/Miracle-Grue/progress"
	"github.com/cjsatuforc/Miracle-Grue/render"
	"github.com/cjsatuforc/Miracle-Grue/util"
)

// skeletonFile is the regioner's inter-stage dump: the raster grid
// plus per-layer regions.
type skeletonFile struct {
	FirstSliceZ float64 `json:"firstSliceZ"`
	LayerHeight float64 `json:"layerHeight"`
	LayerWidth  float64 `json:"layerWidth"`

	Grid   pather.Grid       `json:"grid"`
	Layers pather.RegionList `json:"layers"`
}

func main() {
	app := cli.NewApp()
	app.Name = "miraclegrue"
	app.Usage = "generate G-code toolpaths from a sliced model skeleton"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "run configuration JSON",
		},
		cli.StringFlag{
			Name:  "skeleton, s",
			Usage: "skeleton JSON (regioner dump)",
		},
		cli.StringFlag{
			Name:  "svg",
			Usage: "single-layer outline loops from an SVG file",
		},
		cli.StringFlag{
			Name:  "out, o",
			Value: "out.gcode",
			Usage: "gcode output file",
		},
		cli.StringFlag{
			Name:  "title",
			Value: "unknown source",
			Usage: "source name written into the gcode header",
		},
		cli.IntFlag{
			Name:  "first",
			Value: -1,
			Usage: "first slice index to path (negative = unbounded)",
		},
		cli.IntFlag{
			Name:  "last",
			Value: -1,
			Usage: "last slice index to path (negative = unbounded)",
		},
		cli.StringFlag{
			Name:  "render",
			Usage: "directory for per-layer SVG renderings",
		},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		util.LogSevere("%v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfgPath := c.String("config")
	if cfgPath == "" {
		return cli.NewExitError("must specify --config <json file>", 2)
	}
	cfg, err := conf.Load(cfgPath)
	if err != nil {
		return err
	}

	skel, measure, grid, err := loadSkeleton(c)
	if err != nil {
		return err
	}

	bar := progress.NewTerminal()
	defer bar.Finish()

	p := pather.NewPather(cfg, bar)
	var lp layer.LayerPaths
	p.GeneratePaths(skel.Layers, measure, grid, &lp, c.Int("first"), c.Int("last"))

	if dir := c.String("render"); dir != "" {
		if err := renderLayers(dir, &lp); err != nil {
			return err
		}
	}

	out, err := os.Create(c.String("out"))
	if err != nil {
		return fmt.Errorf("failed to open output file: %w", err)
	}
	coder := gcode.NewGCoder(cfg, bar)
	if err := coder.WriteGcodeFile(&lp, measure, out, c.String("title")); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write gcode: %w", err)
	}
	util.LogInfo("wrote %d layers to %s", len(lp.Layers), c.String("out"))
	return nil
}

func loadSkeleton(c *cli.Context) (*skeletonFile, *mesh.LayerMeasure, *pather.Grid, error) {
	if svgPath := c.String("svg"); svgPath != "" {
		f, err := os.Open(svgPath)
		if err != nil {
			return nil, nil, nil, err
		}
		defer f.Close()
		loops, err := render.ReadDrawing(f, svgPath)
		if err != nil {
			return nil, nil, nil, err
		}
		skel := &skeletonFile{
			FirstSliceZ: 0,
			LayerHeight: 0.3,
			LayerWidth:  0.5,
			Layers: pather.RegionList{
				{Index: 0, OutlineLoops: loops},
			},
		}
		measure := mesh.NewLayerMeasure(skel.FirstSliceZ, skel.LayerHeight, skel.LayerWidth)
		return skel, measure, &skel.Grid, nil
	}

	skelPath := c.String("skeleton")
	if skelPath == "" {
		return nil, nil, nil, cli.NewExitError("must specify --skeleton or --svg", 2)
	}
	f, err := os.Open(skelPath)
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	var skel skeletonFile
	if err := json.NewDecoder(f).Decode(&skel); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to parse skeleton file [%s]: %w", skelPath, err)
	}
	measure := mesh.NewLayerMeasure(skel.FirstSliceZ, skel.LayerHeight, skel.LayerWidth)
	return &skel, measure, &skel.Grid, nil
}

func renderLayers(dir string, lp *layer.LayerPaths) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range lp.Layers {
		lay := &lp.Layers[i]
		b := geom.EmptyBounds()
		for ei := range lay.Extruders {
			for _, p := range lay.Extruders[ei].Paths {
				for _, v := range p.Path.V {
					b.Expand(v)
				}
			}
		}
		if b.Min.X > b.Max.X {
			continue
		}
		name := filepath.Join(dir, fmt.Sprintf("layer_%04d.svg", lay.MeasureID))
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		if err := render.WriteLayerSVG(f, lay, b); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
