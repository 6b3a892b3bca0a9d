package observability

import (
	"context"

	"github.com/aretw0/anamnesis/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Answer outcomes used as the "outcome" label of AnswersTotal.
const (
	OutcomeScored     = "scored"
	OutcomeEliminated = "eliminated"
	OutcomeIgnored    = "ignored"
)

// Metrics holds the Prometheus collectors of the questionnaire engine.
type Metrics struct {
	SessionsStarted    prometheus.Counter
	SessionsCompleted  prometheus.Counter
	AnswersTotal       *prometheus.CounterVec
	Eliminations       *prometheus.CounterVec
	Branches           prometheus.Counter
	AnsweredPerSession prometheus.Histogram
}

// NewMetrics creates and registers the collectors on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "anamnesis_sessions_started_total",
			Help: "Total sessions started or reset",
		}),
		SessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "anamnesis_sessions_completed_total",
			Help: "Total sessions that exhausted their question sequence",
		}),
		AnswersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anamnesis_answers_total",
			Help: "Total answers recorded by context key and outcome",
		}, []string{"key", "outcome"}),
		Eliminations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anamnesis_candidate_eliminations_total",
			Help: "Total candidate eliminations by candidate",
		}, []string{"candidate"}),
		Branches: factory.NewCounter(prometheus.CounterOpts{
			Name: "anamnesis_branches_taken_total",
			Help: "Total forward jumps caused by branch rules",
		}),
		AnsweredPerSession: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "anamnesis_questions_answered",
			Help:    "Questions answered per completed session",
			Buckets: []float64{1, 2, 4, 6, 8, 10, 15, 20, 30},
		}),
	}
}

// Hooks returns lifecycle hooks feeding the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	if m == nil {
		return domain.LifecycleHooks{}
	}
	return domain.LifecycleHooks{
		OnSessionStart: func(ctx context.Context, e *domain.SessionEvent) {
			m.SessionsStarted.Inc()
		},
		OnAnswer: func(ctx context.Context, e *domain.AnswerEvent) {
			m.AnswersTotal.WithLabelValues(e.ContextKey, outcome(e)).Inc()
			for _, id := range e.Eliminated {
				m.Eliminations.WithLabelValues(id).Inc()
			}
			if e.BranchTo != "" {
				m.Branches.Inc()
			}
		},
		OnComplete: func(ctx context.Context, e *domain.SessionEvent) {
			m.SessionsCompleted.Inc()
			m.AnsweredPerSession.Observe(float64(e.Questions))
		},
	}
}

func outcome(e *domain.AnswerEvent) string {
	switch {
	case !e.Signal:
		return OutcomeIgnored
	case e.Negative:
		return OutcomeEliminated
	default:
		return OutcomeScored
	}
}
