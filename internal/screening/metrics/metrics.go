package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the screening module.
// Tracks wizard navigation, classification outcomes and the finalize path.
type Metrics struct {
	StepTransitions      *prometheus.CounterVec
	ValidationFailures   *prometheus.CounterVec
	Classifications      *prometheus.CounterVec
	FlagsTriggered       *prometheus.CounterVec
	DuplicateSubmissions prometheus.Counter
	NotificationFailures prometheus.Counter
	QueueRejections      prometheus.Counter
	FinalizeDuration     prometheus.Histogram
}

// New registers the screening metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		StepTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_step_transitions_total",
			Help: "Wizard navigation calls by variant and direction",
		}, []string{"variant", "direction"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_validation_failures_total",
			Help: "Steps rejected for unanswered required fields",
		}, []string{"variant", "step"}),
		Classifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_classifications_total",
			Help: "Completed screenings by variant, risk and probability",
		}, []string{"variant", "risk", "probability"}),
		FlagsTriggered: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "lexscreen_flags_triggered_total",
			Help: "Flags raised on completed screenings",
		}, []string{"variant", "flag"}),
		DuplicateSubmissions: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexscreen_duplicate_submissions_total",
			Help: "Finalize calls replayed for an already stored screening",
		}),
		NotificationFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexscreen_notification_failures_total",
			Help: "Notifications that could not be delivered",
		}),
		QueueRejections: factory.NewCounter(prometheus.CounterOpts{
			Name: "lexscreen_notification_queue_rejections_total",
			Help: "Records refused because the notification queue was full",
		}),
		FinalizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "lexscreen_finalize_duration_seconds",
			Help:    "Duration of Finalize (record persistence critical path)",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementStep(variant, direction string) {
	m.StepTransitions.WithLabelValues(variant, direction).Inc()
}

func (m *Metrics) IncrementValidationFailure(variant, step string) {
	m.ValidationFailures.WithLabelValues(variant, step).Inc()
}

// RecordClassification counts a completed screening and each of its flags.
func (m *Metrics) RecordClassification(variant, risk, probability string, flags []string) {
	m.Classifications.WithLabelValues(variant, risk, probability).Inc()
	for _, f := range flags {
		m.FlagsTriggered.WithLabelValues(variant, f).Inc()
	}
}

func (m *Metrics) IncrementDuplicate() {
	m.DuplicateSubmissions.Inc()
}

func (m *Metrics) IncrementNotificationFailure() {
	m.NotificationFailures.Inc()
}

func (m *Metrics) IncrementQueueRejection() {
	m.QueueRejections.Inc()
}

// ObserveFinalize records the duration of a Finalize call.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveFinalize(start time.Time) {
	m.FinalizeDuration.Observe(time.Since(start).Seconds())
}
