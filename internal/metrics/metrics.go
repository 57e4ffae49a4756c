// Package metrics exports world activity to Prometheus. Labels are bounded:
// nothing is labelled per session or per body.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/collide/internal/world"
)

// Recorder owns a registry and the collectors fed by running worlds.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	reg *prometheus.Registry

	stepDuration prometheus.Histogram
	sessions     prometheus.Gauge
	bodies       prometheus.Gauge
	ops          *prometheus.CounterVec
	narrow       *prometheus.CounterVec
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Recorder{
		reg: reg,
		stepDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "collide_step_duration_seconds",
			Help:    "Time spent in one simulation step",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05},
		}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "collide_sessions_active",
			Help: "Worlds currently being simulated",
		}),
		bodies: f.NewGauge(prometheus.GaugeOpts{
			Name: "collide_world_bodies",
			Help: "Shapes in the most recently stepped world",
		}),
		ops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "collide_world_ops_total",
			Help: "World operations by kind",
		}, []string{"op"}), // Bounded: insert, reinsert, remove, query, raycast, pairs
		narrow: f.NewCounterVec(prometheus.CounterOpts{
			Name: "collide_narrow_tests_total",
			Help: "Exact shape tests run after the broadphase",
		}, []string{"result"}), // Bounded: hit, miss
	}
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// SessionStarted counts a new simulated world.
func (r *Recorder) SessionStarted() {
	if r == nil {
		return
	}
	r.sessions.Inc()
}

// SessionEnded undoes SessionStarted.
func (r *Recorder) SessionEnded() {
	if r == nil {
		return
	}
	r.sessions.Dec()
}

// ObserveStep records one step that took d and changed the world counters by
// delta (see world.Stats.Since).
func (r *Recorder) ObserveStep(d time.Duration, delta world.Stats) {
	if r == nil {
		return
	}
	r.stepDuration.Observe(d.Seconds())
	r.bodies.Set(float64(delta.Bodies))
	r.ops.WithLabelValues("insert").Add(float64(delta.Inserts))
	r.ops.WithLabelValues("reinsert").Add(float64(delta.Reinserts))
	r.ops.WithLabelValues("remove").Add(float64(delta.Removes))
	r.ops.WithLabelValues("query").Add(float64(delta.Queries))
	r.ops.WithLabelValues("raycast").Add(float64(delta.RayCasts))
	r.ops.WithLabelValues("pairs").Add(float64(delta.PairPasses))
	r.narrow.WithLabelValues("hit").Add(float64(delta.NarrowHits))
	r.narrow.WithLabelValues("miss").Add(float64(delta.NarrowTests - delta.NarrowHits))
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Serve exposes /metrics and /health on addr until ctx is cancelled.
func (r *Recorder) Serve(ctx context.Context, addr string, logger *log.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Info("Metrics server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
