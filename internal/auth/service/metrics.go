package service

import "github.com/AlibekovAA/job-board/backend/internal/observability/metrics"

func recordSession(operation, outcome string) {
	metrics.SessionEventsTotal.WithLabelValues(operation, outcome).Inc()
}
