package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resume", Name: "records_created_total", Help: "Number of records created by store."},
		[]string{"store"},
	)
	LoginAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resume", Name: "login_attempts_total", Help: "Login attempts by result."},
		[]string{"result"},
	)
	AccessDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resume", Name: "access_denied_total", Help: "Requests rejected by the page gate."},
		[]string{"page"},
	)
	RateLimitAllowed = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resume", Name: "rate_limit_allowed_total", Help: "Number of allowed requests by limiter type."},
		[]string{"limiter"},
	)
	RateLimitRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "resume", Name: "rate_limit_rejected_total", Help: "Number of rejected requests by limiter type."},
		[]string{"limiter"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(RecordsCreated)
	reg.MustRegister(LoginAttempts)
	reg.MustRegister(AccessDenied)
	reg.MustRegister(RateLimitAllowed)
	reg.MustRegister(RateLimitRejected)
}
