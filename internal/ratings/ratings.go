// Package ratings holds the team-rating domain model and the classification
// of teams against the fixed highlight region.
package ratings

import (
	"fmt"
	"time"

	"github.com/hoopsight/trapviz/internal/geometry"
)

// DefaultSeason is the fallback season year when none is resolved from the
// flag, the environment, or the orchestrator variable store.
const DefaultSeason = 2025

// TeamRating is one team's efficiency profile for a season. Field names match
// the upstream JSON payload exactly and the struct is never mutated after the
// fetch.
type TeamRating struct {
	TeamName string  `json:"TeamName"`
	AdjTempo float64 `json:"AdjTempo"`
	AdjEM    float64 `json:"AdjEM"`
}

// Point maps the rating onto (tempo, efficiency margin) space.
func (t TeamRating) Point() geometry.Point {
	return geometry.Point{X: t.AdjTempo, Y: t.AdjEM}
}

// HighlightRegion is the fixed trapezoid teams are classified against. It is
// constant across runs and never derived from data.
func HighlightRegion() geometry.Polygon {
	return geometry.Polygon{
		{X: 64.5, Y: 20}, // bottom left
		{X: 70.2, Y: 20}, // bottom right
		{X: 72, Y: 40},   // top right
		{X: 62.5, Y: 40}, // top left
	}
}

// SeasonLabel formats the chart title date component. A season year labels the
// ending year, so 2025 is the 2024-25 season and renders as "2025-2026 Season"
// to match the upstream convention. A zero year falls back to the current
// date.
func SeasonLabel(year int) string {
	if year != 0 {
		return fmt.Sprintf("%d-%d Season", year, year+1)
	}
	return time.Now().Format("January 2, 2006")
}

// Classify partitions teams into those inside and outside the region. Every
// team lands in exactly one slice, input order is preserved within each, and
// the function is pure: same inputs, same partition, no I/O.
func Classify(teams []TeamRating, region geometry.Polygon) (inside, outside []TeamRating) {
	inside = make([]TeamRating, 0, len(teams))
	outside = make([]TeamRating, 0, len(teams))
	for _, t := range teams {
		if region.Contains(t.Point()) {
			inside = append(inside, t)
		} else {
			outside = append(outside, t)
		}
	}
	return inside, outside
}
