// Package conf holds the run configuration: feature gates, machine
// kinematics, extruders and named extrusion profiles.
package conf

import (
	"encoding/json"
	"math"
	"os"

	"github.com/pkg/errors"
)

// An Extrusion profile is a named set of kinematic and flow
// parameters, selected per path category and layer.
type Extrusion struct {
	Feedrate             float64 `json:"feedrate"`
	RetractDistance      float64 `json:"retractDistance"`
	RetractRate          float64 `json:"retractRate"`
	RestartExtraDistance float64 `json:"restartExtraDistance"`
	RestartExtraRate     float64 `json:"restartExtraRate"`
	FlowRate             float64 `json:"flowRate"`
}

// CrossSectionArea returns the cross-section of a deposited bead of
// the given height and width: two semicircles joined by a rectangle.
func (e *Extrusion) CrossSectionArea(height, width float64) float64 {
	radius := height / 2
	return math.Pi*radius*radius + height*(width-height)
}

// An Extruder describes one print head.
type Extruder struct {
	ID           int     `json:"id"`
	Code         int     `json:"code"`
	FeedDiameter float64 `json:"feedDiameter"`
	Volumetric   bool    `json:"volumetric"`
	LeadIn       float64 `json:"leadIn"`
	LeadOut      float64 `json:"leadOut"`

	FirstLayerExtrusionProfile string `json:"firstLayerExtrusionProfile"`
	OutlinesExtrusionProfile   string `json:"outlinesExtrusionProfile"`
	InsetsExtrusionProfile     string `json:"insetsExtrusionProfile"`
	InfillsExtrusionProfile    string `json:"infillsExtrusionProfile"`
}

// IsVolumetric reports whether the head meters by volume; lead-in and
// lead-out are suppressed on such machines.
func (e *Extruder) IsVolumetric() bool {
	return e.Volumetric
}

// FeedCrossSectionArea returns the cross-section of the feedstock
// cylinder.
func (e *Extruder) FeedCrossSectionArea() float64 {
	radius := e.FeedDiameter / 2
	return math.Pi * radius * radius
}

// GrueConfig is the full set of recognized options.
type GrueConfig struct {
	DoOutlines bool `json:"doOutlines"`
	DoInsets   bool `json:"doInsets"`
	DoInfills  bool `json:"doInfills"`
	DoSupport  bool `json:"doSupport"`

	DoAnchor             bool `json:"doAnchor"`
	DoFanCommand         bool `json:"doFanCommand"`
	FanLayer             int  `json:"fanLayer"`
	DoPrintLayerMessages bool `json:"doPrintLayerMessages"`
	DoPrintProgress      bool `json:"doPrintProgress"`

	DoGraphOptimization bool `json:"doGraphOptimization"`

	DoRaft      bool `json:"doRaft"`
	RaftLayers  int  `json:"raftLayers"`
	RaftAligned bool `json:"raftAligned"`

	Coarseness      float64 `json:"coarseness"`
	DirectionWeight float64 `json:"directionWeight"`

	ScalingFactor      float64 `json:"scalingFactor"`
	RapidMoveFeedRate  float64 `json:"rapidMoveFeedRate"`
	RapidMoveFeedRateZ float64 `json:"rapidMoveFeedRateZ"`

	StartingX float64 `json:"startingX"`
	StartingY float64 `json:"startingY"`
	StartingZ float64 `json:"startingZ"`

	DefaultExtruder   int                  `json:"defaultExtruder"`
	Extruders         []Extruder           `json:"extruders"`
	ExtrusionProfiles map[string]Extrusion `json:"extrusionProfiles"`

	InfillDensity   float64 `json:"infillDensity"`
	RoofLayerCount  int     `json:"roofLayerCount"`
	FloorLayerCount int     `json:"floorLayerCount"`

	Header string `json:"header"`
	Footer string `json:"footer"`
}

// Default returns a config with the machine-independent knobs set to
// their usual values.
func Default() *GrueConfig {
	return &GrueConfig{
		DoOutlines:          false,
		DoInsets:            true,
		DoInfills:           true,
		DoGraphOptimization: true,
		Coarseness:          0.05,
		DirectionWeight:     1,
		ScalingFactor:       1,
		RapidMoveFeedRate:   6000,
		RapidMoveFeedRateZ:  1400,
		InfillDensity:       0.1,
		RoofLayerCount:      5,
		FloorLayerCount:     5,
	}
}

// Load reads a config file and validates it.
func Load(path string) (*GrueConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open config file [%s]", path)
	}
	defer f.Close()
	cfg := Default()
	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file [%s]", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "bad config file [%s]", path)
	}
	return cfg, nil
}

// Validate rejects configurations no run can honor.
func (c *GrueConfig) Validate() error {
	if len(c.Extruders) == 0 {
		return errors.New("no extruders configured")
	}
	if c.DefaultExtruder < 0 || c.DefaultExtruder >= len(c.Extruders) {
		return errors.Errorf("default extruder %d out of range", c.DefaultExtruder)
	}
	for i := range c.Extruders {
		d := c.Extruders[i].FeedDiameter
		if d <= 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			return errors.Errorf("extruder %d has bad feed diameter %v", i, d)
		}
	}
	if c.ScalingFactor <= 0 {
		return errors.Errorf("scaling factor %v must be positive", c.ScalingFactor)
	}
	if c.DoRaft && c.RaftLayers < 1 {
		return errors.Errorf("raft enabled with %d raft layers", c.RaftLayers)
	}
	return nil
}

// ExtrusionProfile returns a copy of the named profile with its
// feedrate scaled by the global scaling factor. Every lookup scales;
// callers must not scale again.
func (c *GrueConfig) ExtrusionProfile(name string) (Extrusion, error) {
	prof, ok := c.ExtrusionProfiles[name]
	if !ok {
		return Extrusion{}, errors.Errorf("Failed to find extrusion profile %s", name)
	}
	prof.Feedrate *= c.ScalingFactor
	return prof, nil
}
