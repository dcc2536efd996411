// Package metrics exports Prometheus metrics for served games.
//
// Metrics:
//   - raytris_pieces_spawned_total{shape} counter
//   - raytris_lines_cleared_total counter
//   - raytris_games_over_total counter
//   - raytris_active_games gauge
//   - raytris_game_score histogram
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/raytris/internal/core"
	"github.com/vovakirdan/raytris/internal/shape"
)

const namespace = "raytris"

// Recorder holds the game metrics in its own registry. It implements
// game.Observer so one recorder can watch every session of a server.
type Recorder struct {
	registry *prometheus.Registry

	spawned     *prometheus.CounterVec
	lines       prometheus.Counter
	gamesOver   prometheus.Counter
	activeGames prometheus.Gauge
	scores      prometheus.Histogram
}

// New creates a recorder and registers its metrics together with the Go
// runtime and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pieces_spawned_total",
			Help:      "Pieces spawned, by shape.",
		}, []string{"shape"}),
		lines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lines_cleared_total",
			Help:      "Rows cleared across all games.",
		}),
		gamesOver: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Games that ended by topping out.",
		}),
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Games currently being played.",
		}),
		scores: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "game_score",
			Help:      "Final score of finished games.",
			Buckets:   []float64{0, 100, 500, 1000, 2500, 5000, 10000, 25000, 50000},
		}),
	}

	r.registry.MustRegister(
		r.spawned, r.lines, r.gamesOver, r.activeGames, r.scores,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// PieceSpawned counts a spawned piece.
func (r *Recorder) PieceSpawned(kind shape.Kind) {
	r.spawned.WithLabelValues(kind.String()).Inc()
}

// LinesCleared counts cleared rows.
func (r *Recorder) LinesCleared(n int, _ core.GameState) {
	r.lines.Add(float64(n))
}

// GameOver counts a finished game and records its score.
func (r *Recorder) GameOver(state core.GameState) {
	r.gamesOver.Inc()
	r.scores.Observe(float64(state.Score))
}

// GameStarted marks a session as playing.
func (r *Recorder) GameStarted() {
	r.activeGames.Inc()
}

// GameEnded marks a session as no longer playing.
func (r *Recorder) GameEnded() {
	r.activeGames.Dec()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
