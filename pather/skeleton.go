package pather

import "github.com/cjsatuforc/Miracle-Grue/geom"

// LayerRegions is one layer of the skeleton produced by the regioner:
// the geometric regions the pather turns into toolpaths.
type LayerRegions struct {
	Index int `json:"index"`

	OutlineLoops []geom.Loop `json:"outlineLoops"`
	SupportLoops []geom.Loop `json:"supportLoops"`

	// InsetLoops holds the nested shells, outermost depth first.
	InsetLoops [][]geom.Loop `json:"insetLoops"`
	// Spurs holds the open shells of regions too narrow for loops,
	// grouped by depth like InsetLoops.
	Spurs [][]geom.OpenPath `json:"spurs"`

	Infill        GridRanges `json:"infill"`
	SupportRanges GridRanges `json:"supportRanges"`
}

// RegionList is the whole skeleton, in slice order.
type RegionList []LayerRegions
