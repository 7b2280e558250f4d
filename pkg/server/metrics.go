package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formkit/pkg/validation"
)

// submission outcomes
const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeInvalid  = "invalid_request"
	outcomeFailed   = "failed"
)

type metrics struct {
	submissions *prometheus.CounterVec
	issues      *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formkit",
			Name:      "submissions_total",
			Help:      "Form submissions by outcome.",
		}, []string{"form", "outcome"}),
		issues: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "formkit",
			Name:      "validation_issues_total",
			Help:      "Field validation issues by kind.",
		}, []string{"form", "kind"}),
	}
}

func (m *metrics) submission(form, outcome string) {
	m.submissions.WithLabelValues(form, outcome).Inc()
}

func (m *metrics) observeIssues(form string, issues []validation.Issue) {
	for _, issue := range issues {
		m.issues.WithLabelValues(form, string(issue.Kind)).Inc()
	}
}
