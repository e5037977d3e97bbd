// Package metrics defines and registers all custom Prometheus metrics for the
// auth API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Collectors register with the default Prometheus registry on package init
// through promauto; the /metrics route exposes them next to echo's request
// metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "auth"

// Operation labels.
const (
	OpSignup         = "signup"
	OpSignin         = "signin"
	OpValidate       = "validate"
	OpForgotPassword = "forgot_password"
	OpResetPassword  = "reset_password"
)

// Result labels.
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// ── Flow metrics ──────────────────────────────────────────────────────────────

// OperationsTotal counts auth flow invocations.
// Labels:
//   - operation: one of the Op* constants
//   - result: "success", "rejected" (client error) or "error" (infrastructure failure)
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Total number of auth operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// TokensIssuedTotal counts signed tokens.
// Label:
//   - kind: "session" or "reset"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by kind.",
	},
	[]string{"kind"},
)

// ── Hashing metrics ───────────────────────────────────────────────────────────

// PasswordHashDuration measures bcrypt hash and verify calls.
// Label:
//   - op: "hash" or "verify"
var PasswordHashDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "password_hash_duration_seconds",
		Help:      "Duration of password hashing and verification.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5},
	},
	[]string{"op"},
)
