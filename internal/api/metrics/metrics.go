// Package metrics defines and registers all custom Prometheus metrics of the
// class site. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry through
// promauto when the package is loaded.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dkv3/class-site/internal/core/domain"
)

const namespace = "dkv3"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts login and registration attempts.
// Labels:
//   - op: "login" or "register"
//   - result: "success", "failure", "invalid", "conflict" or "forbidden"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of login and registration attempts, by result.",
	},
	[]string{"op", "result"},
)

// SessionRestoresTotal counts session restores at the start of a request.
// Label:
//   - outcome: "logged_out", "consistent", "repaired" or "teardown"
var SessionRestoresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_restores_total",
		Help:      "Total number of session restores, labelled by reconciliation outcome.",
	},
	[]string{"outcome"},
)

// RoleFixesTotal counts administrative role changes.
// Label:
//   - role: the role that was assigned
var RoleFixesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_fixes_total",
		Help:      "Total number of role changes applied by admins.",
	},
	[]string{"role"},
)

// ── Album metrics ─────────────────────────────────────────────────────────────

// AlbumPhotos is the number of photos found by the latest album scan.
var AlbumPhotos = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "album_photos",
		Help:      "Number of image files found by the latest album scan.",
	},
)

// AlbumScanDuration measures how long one album directory scan takes.
var AlbumScanDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "album_scan_duration_seconds",
		Help:      "Duration of album directory scans.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25},
	},
)

// ── Activity metrics ──────────────────────────────────────────────────────────

// ActivityQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var ActivityQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "activity_queue_depth",
		Help:      "Current number of activity events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ActivityDroppedTotal counts events dropped because a worker channel was full.
var ActivityDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "activity_dropped_total",
		Help:      "Total number of activity events dropped on a full queue.",
	},
)

// Recorder feeds service measurements into the collectors above.
type Recorder struct{}

func (Recorder) AuthAttempt(op, result string) {
	AuthAttemptsTotal.WithLabelValues(op, result).Inc()
}

func (Recorder) SessionRestored(outcome string) {
	SessionRestoresTotal.WithLabelValues(outcome).Inc()
}

func (Recorder) RoleFixed(role domain.Role) {
	RoleFixesTotal.WithLabelValues(string(role)).Inc()
}

func (Recorder) AlbumScanned(photos int, took time.Duration) {
	AlbumPhotos.Set(float64(photos))
	AlbumScanDuration.Observe(took.Seconds())
}
