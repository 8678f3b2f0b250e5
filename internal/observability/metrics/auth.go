package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AccessTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "access_tokens_issued_total",
			Help: "Total number of access tokens issued",
		},
	)

	RefreshTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "refresh_tokens_issued_total",
			Help: "Total number of refresh tokens issued",
		},
	)

	TokenValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_validations_total",
			Help: "Total number of token validations by kind",
		},
		[]string{"kind"},
	)

	TokenValidationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_validations_failed_total",
			Help: "Total number of failed token validations by kind",
		},
		[]string{"kind"},
	)

	SessionEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_events_total",
			Help: "Total number of session lifecycle events by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	AuthorizationDenied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorization_denied_total",
			Help: "Total number of requests rejected by the authorization guard",
		},
		[]string{"reason"},
	)
)
