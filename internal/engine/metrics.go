package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are process-wide. Several engines (one per SSH session) add into
// the same series.
var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "engine_tick_duration_seconds",
		Help:    "Time spent in one engine tick",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
	})

	objectCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "engine_objects",
		Help: "Objects in the world after the last tick",
	})

	spawnedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_spawned_total",
		Help: "Objects that landed in a world",
	})

	sweptTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_swept_total",
		Help: "Objects disposed by the garbage sweep",
	})

	collisionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_collisions_total",
		Help: "Contacts found by the collision system",
	})

	blitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "engine_blits_total",
		Help: "Panel content writes issued to a backend",
	})

	// Bounded: "rasterize", "render", "present"
	objectErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "engine_object_errors_total",
		Help: "Per-object failures isolated by the loop",
	}, []string{"phase"})
)
