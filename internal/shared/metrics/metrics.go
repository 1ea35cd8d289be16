package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	assessmentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_assessments_total",
			Help: "Total unified credit assessments by variant and risk level",
		},
		[]string{"variant", "risk_level"},
	)

	assessmentsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "credit_assessments_failed_total",
			Help: "Total failed credit assessments by error code",
		},
		[]string{"code"},
	)

	assessmentDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "credit_assessment_duration_ms",
			Help:    "Assessment duration in milliseconds",
			Buckets: []float64{5, 25, 100, 250, 500, 1000, 2000, 5000, 10000, 30000},
		},
	)

	bureauFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bureau_fetch_total",
			Help: "Bureau score fetches by bureau and outcome",
		},
		[]string{"bureau", "outcome"},
	)

	llmCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_calls_total",
			Help: "LLM completion calls by purpose and outcome",
		},
		[]string{"purpose", "outcome"},
	)

	applicationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "applications_created_total",
			Help: "Total application records created",
		},
	)
)

// IncAssessment records a completed assessment.
func IncAssessment(variant, riskLevel string) {
	assessmentsTotal.WithLabelValues(variant, riskLevel).Inc()
}

// IncAssessmentFailed records a failed assessment.
func IncAssessmentFailed(code string) {
	assessmentsFailed.WithLabelValues(code).Inc()
}

// ObserveAssessmentDurationMs records an assessment duration in milliseconds.
func ObserveAssessmentDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	assessmentDuration.Observe(value)
}

// IncBureauFetch records a bureau fetch outcome ("ok" or "error").
func IncBureauFetch(bureau, outcome string) {
	bureauFetches.WithLabelValues(bureau, outcome).Inc()
}

// IncLLMCall records an LLM call outcome.
func IncLLMCall(purpose, outcome string) {
	llmCalls.WithLabelValues(purpose, outcome).Inc()
}

// IncApplicationCreated increments the created applications counter.
func IncApplicationCreated() {
	applicationsCreated.Inc()
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
