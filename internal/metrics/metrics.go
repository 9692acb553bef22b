// Package metrics exposes Prometheus collectors for question generation,
// quiz completion, LLM calls and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/skillcheck/internal/llm"
	"github.com/abhisek/skillcheck/internal/questiongen"
	"github.com/abhisek/skillcheck/internal/quiz"
)

// Manager owns the collectors and the registry they live in. It
// satisfies questiongen.Observer, quiz.Observer and llm.RequestObserver.
type Manager struct {
	namespace string
	buckets   []float64
	registry  *prometheus.Registry
	runtime   bool

	questionsGenerated *prometheus.CounterVec
	generationFailures *prometheus.CounterVec
	validationRejects  *prometheus.CounterVec

	quizzesCompleted     prometheus.Counter
	duplicateSubmissions prometheus.Counter
	appSyncFailures      prometheus.Counter

	llmDuration *prometheus.HistogramVec
	llmTokens   *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
}

var (
	_ questiongen.Observer = (*Manager)(nil)
	_ quiz.Observer        = (*Manager)(nil)
	_ llm.RequestObserver  = (*Manager)(nil)
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithHistogramBuckets sets the LLM latency buckets, in seconds.
func WithHistogramBuckets(buckets []float64) Option {
	return func(m *Manager) {
		if len(buckets) > 0 {
			m.buckets = buckets
		}
	}
}

// WithRegistry registers the collectors on r instead of a fresh registry.
func WithRegistry(r *prometheus.Registry) Option {
	return func(m *Manager) { m.registry = r }
}

// WithRuntimeCollectors adds the Go runtime and process collectors.
func WithRuntimeCollectors() Option {
	return func(m *Manager) { m.runtime = true }
}

// NewManager creates the collectors on a private registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "skillcheck",
		buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initialize()
	return m
}

func (m *Manager) initialize() {
	if m.runtime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	auto := promauto.With(m.registry)

	m.questionsGenerated = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "questions_generated_total",
		Help:      "Questions placed into quiz sets, by source",
	}, []string{"source"})

	m.generationFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "generation_failures_total",
		Help:      "External generation attempts that fell back, by reason",
	}, []string{"reason"})

	m.validationRejects = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "validation_rejects_total",
		Help:      "Generated questions rejected, by validator",
	}, []string{"validator"})

	m.quizzesCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "quizzes_completed_total",
		Help:      "Quizzes that reached the completed state",
	})

	m.duplicateSubmissions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "duplicate_submissions_total",
		Help:      "Submissions that found the quiz already completed",
	})

	m.appSyncFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "application_sync_failures_total",
		Help:      "Failed application status updates after quiz completion",
	})

	m.llmDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "llm_request_duration_seconds",
		Help:      "LLM provider call latency",
		Buckets:   m.buckets,
	}, []string{"provider", "outcome"})

	m.llmTokens = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "llm_tokens_total",
		Help:      "Tokens consumed by LLM calls",
	}, []string{"provider", "direction"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "http_requests_total",
		Help:      "HTTP API requests by route, method and status code",
	}, []string{"route", "method", "status_code"})
}

// Registry returns the registry backing the collectors.
func (m *Manager) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Manager) QuestionsGenerated(source questiongen.Source, n int) {
	m.questionsGenerated.WithLabelValues(string(source)).Add(float64(n))
}

func (m *Manager) GenerationFailed(reason string) {
	m.generationFailures.WithLabelValues(reason).Inc()
}

func (m *Manager) QuestionRejected(validator string) {
	m.validationRejects.WithLabelValues(validator).Inc()
}

func (m *Manager) QuizCompleted() { m.quizzesCompleted.Inc() }

func (m *Manager) DuplicateSubmission() { m.duplicateSubmissions.Inc() }

func (m *Manager) ApplicationSyncFailed() { m.appSyncFailures.Inc() }

func (m *Manager) ObserveLLMRequest(provider, _ string, d time.Duration, usage llm.Usage, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.llmDuration.WithLabelValues(provider, outcome).Observe(d.Seconds())
	m.llmTokens.WithLabelValues(provider, "input").Add(float64(usage.InputTokens))
	m.llmTokens.WithLabelValues(provider, "output").Add(float64(usage.OutputTokens))
}

// RecordHTTPRequest counts one API request.
func (m *Manager) RecordHTTPRequest(route, method string, status int) {
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}
