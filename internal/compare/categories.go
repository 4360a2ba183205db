package compare

import (
	"fmt"
	"strings"

	"github.com/XavierBriggs/fortuna/services/player-stats-api/pkg/statmath"
)

// Mode selects which stat line each side contributes
type Mode string

const (
	ModeCareer Mode = "career"
	ModeSeason Mode = "season"
)

// ParseMode accepts "career" / "season" (case-insensitive); empty means career
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeCareer:
		return ModeCareer, nil
	case ModeSeason:
		return ModeSeason, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// statLine is the mode-independent view of one side: per-game averages,
// shooting fractions, plus the two mode-specific volume/impact figures
type statLine struct {
	ppg, rpg, apg, spg, bpg float64
	fgPct, fg3Pct, ftPct    float64
	games                   float64
	volume                  float64 // career points or season points
	championships           float64
}

// Axis is one radar category with its reference maximum
type Axis struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Max   float64 `json:"max"`
	value func(statLine) float64
}

// Bar is one head-to-head bar with its (coarser) width reference
type Bar struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Max   float64 `json:"max"`
	value func(statLine) float64
}

var pct = statmath.Percent

// shared per-game and shooting axes, identical in both modes
var baseAxes = []Axis{
	{Key: "ppg", Label: "Scoring (PPG)", Max: 35, value: func(s statLine) float64 { return s.ppg }},
	{Key: "rpg", Label: "Rebounding (RPG)", Max: 15, value: func(s statLine) float64 { return s.rpg }},
	{Key: "apg", Label: "Assists (APG)", Max: 12, value: func(s statLine) float64 { return s.apg }},
	{Key: "spg", Label: "Steals (SPG)", Max: 3, value: func(s statLine) float64 { return s.spg }},
	{Key: "bpg", Label: "Blocks (BPG)", Max: 3, value: func(s statLine) float64 { return s.bpg }},
	{Key: "fg_pct", Label: "Field Goal %", Max: 100, value: func(s statLine) float64 { return pct(s.fgPct) }},
	{Key: "fg3_pct", Label: "3-Point %", Max: 100, value: func(s statLine) float64 { return pct(s.fg3Pct) }},
	{Key: "ft_pct", Label: "Free Throw %", Max: 100, value: func(s statLine) float64 { return pct(s.ftPct) }},
}

var careerAxes = append(append([]Axis{}, baseAxes...),
	Axis{Key: "games_played", Label: "Games Played", Max: 1600, value: func(s statLine) float64 { return s.games }},
	Axis{Key: "championships", Label: "Championship Impact", Max: 100, value: func(s statLine) float64 { return s.championships * 25 }},
)

var seasonAxes = append(append([]Axis{}, baseAxes...),
	Axis{Key: "games_played", Label: "Games Played", Max: 82, value: func(s statLine) float64 { return s.games }},
	Axis{Key: "pts", Label: "Season Points", Max: 2500, value: func(s statLine) float64 { return s.volume }},
)

// Bar references differ from the radar maxima (rebounds: 12 vs 15).
var baseBars = []Bar{
	{Key: "ppg", Label: "Points Per Game", Max: 30, value: func(s statLine) float64 { return s.ppg }},
	{Key: "rpg", Label: "Rebounds Per Game", Max: 12, value: func(s statLine) float64 { return s.rpg }},
	{Key: "apg", Label: "Assists Per Game", Max: 10, value: func(s statLine) float64 { return s.apg }},
	{Key: "spg", Label: "Steals Per Game", Max: 3, value: func(s statLine) float64 { return s.spg }},
	{Key: "bpg", Label: "Blocks Per Game", Max: 3, value: func(s statLine) float64 { return s.bpg }},
	{Key: "fg_pct", Label: "Field Goal %", Max: 70, value: func(s statLine) float64 { return pct(s.fgPct) }},
	{Key: "fg3_pct", Label: "3-Point %", Max: 50, value: func(s statLine) float64 { return pct(s.fg3Pct) }},
	{Key: "ft_pct", Label: "Free Throw %", Max: 100, value: func(s statLine) float64 { return pct(s.ftPct) }},
}

var careerBars = append(append([]Bar{}, baseBars...),
	Bar{Key: "games_played", Label: "Games Played", Max: 1500, value: func(s statLine) float64 { return s.games }},
	Bar{Key: "career_pts", Label: "Career Points", Max: 40000, value: func(s statLine) float64 { return s.volume }},
)

var seasonBars = append(append([]Bar{}, baseBars...),
	Bar{Key: "games_played", Label: "Games Played", Max: 82, value: func(s statLine) float64 { return s.games }},
	Bar{Key: "pts", Label: "Season Points", Max: 2500, value: func(s statLine) float64 { return s.volume }},
)

// Axes returns the ordered radar categories for a mode
func Axes(mode Mode) []Axis {
	if mode == ModeSeason {
		return append([]Axis(nil), seasonAxes...)
	}
	return append([]Axis(nil), careerAxes...)
}

// Bars returns the ordered bar rows for a mode
func Bars(mode Mode) []Bar {
	if mode == ModeSeason {
		return append([]Bar(nil), seasonBars...)
	}
	return append([]Bar(nil), careerBars...)
}
