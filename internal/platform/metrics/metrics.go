package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics
// is valid and records nothing, which keeps tests free of registry setup.
type Metrics struct {
	RequestDuration        *prometheus.HistogramVec
	InventoryMutations     *prometheus.CounterVec
	AuditWriteFailures     prometheus.Counter
	PolicyDenials          *prometheus.CounterVec
	LoginAttempts          *prometheus.CounterVec
	LegacyCredentialLogins prometheus.Counter
	TokensRevoked          prometheus.Counter
}

// New creates and registers all metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wardstock_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		InventoryMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardstock_inventory_mutations_total",
			Help: "Successful inventory mutations by action",
		}, []string{"action"}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardstock_audit_write_failures_total",
			Help: "Audit log writes that failed after the inventory mutation committed",
		}),
		PolicyDenials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardstock_policy_denials_total",
			Help: "Requests rejected by the authorization policy, by action",
		}, []string{"action"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardstock_login_attempts_total",
			Help: "Login attempts by outcome",
		}, []string{"outcome"}),
		LegacyCredentialLogins: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardstock_legacy_credential_logins_total",
			Help: "Successful logins verified against a plain-text stored secret",
		}),
		TokensRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardstock_tokens_revoked_total",
			Help: "Session tokens revoked through logout",
		}),
	}
}

func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func (m *Metrics) IncrementInventoryMutation(action string) {
	if m == nil {
		return
	}
	m.InventoryMutations.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementAuditWriteFailure() {
	if m == nil {
		return
	}
	m.AuditWriteFailures.Inc()
}

func (m *Metrics) IncrementPolicyDenial(action string) {
	if m == nil {
		return
	}
	m.PolicyDenials.WithLabelValues(action).Inc()
}

func (m *Metrics) IncrementLoginAttempt(outcome string) {
	if m == nil {
		return
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementLegacyCredentialLogin() {
	if m == nil {
		return
	}
	m.LegacyCredentialLogins.Inc()
}

func (m *Metrics) IncrementTokensRevoked() {
	if m == nil {
		return
	}
	m.TokensRevoked.Inc()
}
