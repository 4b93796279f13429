// Package mockratings is a local development stand-in for the ratings API.
// It serves a synthetic season on the production endpoint and auth contract
// so the pipeline can be exercised without a real credential.
package mockratings

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/hoopsight/trapviz/internal/ratings"
)

// Defaults shaped after a real Division I season.
const (
	defaultTeamCount = 364
	defaultSeed      = 42

	minTempo = 58.0
	maxTempo = 76.0
	minEM    = -35.0
	maxEM    = 38.0
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithTeamCount sets how many synthetic teams are generated.
func WithTeamCount(count int) Option {
	return func(g *Generator) {
		if count > 0 {
			g.count = count
		}
	}
}

// WithSeed fixes the random seed for reproducible seasons.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// Generator produces synthetic rating sets.
type Generator struct {
	count int
	rng   *rand.Rand
}

// NewGenerator constructs a Generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		count: defaultTeamCount,
		rng:   rand.New(rand.NewSource(defaultSeed)),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Teams returns one synthetic season. The first team always sits at the
// highlight region's centroid so every generated season has at least one
// highlighted team.
func (g *Generator) Teams() []ratings.TeamRating {
	teams := make([]ratings.TeamRating, 0, g.count)

	centroid := ratings.HighlightRegion().Centroid()
	teams = append(teams, ratings.TeamRating{
		TeamName: "Trapezoid Tech",
		AdjTempo: centroid.X,
		AdjEM:    centroid.Y,
	})

	for i := 1; i < g.count; i++ {
		teams = append(teams, ratings.TeamRating{
			TeamName: fmt.Sprintf("Synthetic State %03d", i),
			AdjTempo: minTempo + g.rng.Float64()*(maxTempo-minTempo),
			AdjEM:    minEM + g.rng.Float64()*(maxEM-minEM),
		})
	}

	return teams
}

// Handler serves the generated season on the ratings endpoint contract:
// `GET ?endpoint=ratings&y=<year>` with a bearer token. An empty apiKey
// disables the auth check.
func Handler(apiKey string, g *Generator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey != "" && r.Header.Get("Authorization") != "Bearer "+apiKey {
			http.Error(w, "invalid or missing bearer token", http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("endpoint") != "ratings" {
			http.Error(w, "unknown endpoint", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(g.Teams())
	})
}
