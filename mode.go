package main

// Metric selects how distances are measured for a mode
type Metric string

const (
	MetricPlanar     Metric = "planar"     // x/z ground plane
	MetricVolumetric Metric = "volumetric" // full 3D
)

// Mode names shipped by default
const (
	ModeTag  = "tag"
	ModeHunt = "hunt"
)

// ModeDef holds the rules for one votable game mode
type ModeDef struct {
	Name           string `json:"name"`
	RequiresTagger bool   `json:"requires_tagger"`
	Damage         bool   `json:"damage"` // attacks cost hp instead of swapping roles
	MaxHP          int    `json:"max_hp"`
	MinPlayers     int    `json:"min_players"`
	Metric         Metric `json:"metric"`
}

// DefaultModes returns the tag and hunt modes in proposal order
func DefaultModes() []ModeDef {
	return []ModeDef{
		// Tag: a touch swaps roles, the tagged player is briefly stunned
		{Name: ModeTag, RequiresTagger: true, MaxHP: 1, MinPlayers: 3, Metric: MetricPlanar},
		// Hunt: the tagger holds a sword, every hit costs one hp
		{Name: ModeHunt, RequiresTagger: true, Damage: true, MaxHP: 10, MinPlayers: 3, Metric: MetricVolumetric},
	}
}

// Detector returns the spatial detector configured for this mode
func (m ModeDef) Detector() Detector {
	if m.Metric == MetricVolumetric {
		return Detector{Metric: MetricVolumetric}
	}
	return Detector{Metric: MetricPlanar}
}
