// Package metrics defines and registers the custom Prometheus metrics of the
// user API. It is the single source of truth for metric names, labels, and
// help strings.
//
// All metrics are registered with the default Prometheus registry on package
// initialisation via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "userhub"

// ── Authentication ───────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokensIssuedTotal counts bearer tokens handed out.
// Label:
//   - reason: "login" or "register"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of bearer tokens issued.",
	},
	[]string{"reason"},
)

// TokensRevokedTotal counts successful logouts.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of logout requests that left the token unusable.",
	},
)

// AuthFailuresTotal counts rejected bearer tokens on protected routes.
// Label:
//   - reason: "missing", "expired", "invalid", "revoked" or "unknown_user"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of requests rejected as unauthenticated.",
	},
	[]string{"reason"},
)

// AccessDeniedTotal counts authenticated requests rejected by role checks.
// Label:
//   - required_role: the role the route demanded
var AccessDeniedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "access_denied_total",
		Help:      "Total number of authenticated requests rejected as forbidden.",
	},
	[]string{"required_role"},
)

// ── Users ────────────────────────────────────────────────────────────────────

// RegistrationsTotal counts accounts created through /register.
var RegistrationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "registrations_total",
		Help:      "Total number of user registrations.",
	},
)

// UsersDeletedTotal counts accounts removed by administrators.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of users deleted by administrators.",
	},
)
