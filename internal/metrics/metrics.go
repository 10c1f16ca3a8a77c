// Package metrics exposes Prometheus counters for the auth and tenancy path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LoginAttempts counts login attempts by outcome (success, failed).
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storehub_login_attempts_total",
		Help: "Login attempts by outcome",
	}, []string{"outcome"})

	// AuthFailures counts rejected requests by error code.
	AuthFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storehub_auth_failures_total",
		Help: "Authentication and authorization failures by error code",
	}, []string{"code"})

	// PermissionDenials counts denials by the permission that was missing.
	PermissionDenials = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "storehub_permission_denials_total",
		Help: "Permission denials by required permission",
	}, []string{"permission"})

	// ContextResolveDuration observes time spent resolving request contexts.
	ContextResolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "storehub_context_resolve_seconds",
		Help:    "Time spent resolving request contexts",
		Buckets: prometheus.DefBuckets,
	})
)
