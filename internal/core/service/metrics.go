package service

import (
	"time"

	"github.com/dkv3/class-site/internal/core/domain"
)

// Metrics receives service-level measurements. The Prometheus implementation
// lives in the api/metrics package.
type Metrics interface {
	AuthAttempt(op, result string)
	SessionRestored(outcome string)
	RoleFixed(role domain.Role)
	AlbumScanned(photos int, took time.Duration)
}

type nopMetrics struct{}

func (nopMetrics) AuthAttempt(string, string)      {}
func (nopMetrics) SessionRestored(string)          {}
func (nopMetrics) RoleFixed(domain.Role)           {}
func (nopMetrics) AlbumScanned(int, time.Duration) {}

type nopRecorder struct{}

func (nopRecorder) Record(domain.ActivityEvent) {}

// Restore outcomes.
const (
	OutcomeLoggedOut  = "logged_out"
	OutcomeConsistent = "consistent"
	OutcomeRepaired   = "repaired"
	OutcomeTeardown   = "teardown"
)
