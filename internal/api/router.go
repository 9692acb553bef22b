// Package api exposes the quiz engine over HTTP.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/metrics"
	"github.com/abhisek/skillcheck/internal/quiz"
)

type RouterConfig struct {
	Service *quiz.Service
	Metrics *metrics.Manager
	Logger  *zap.Logger
}

func New(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	h := NewHandler(cfg.Service, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		r.Use(requestMetrics(cfg.Metrics))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(requirePrincipal)
		r.Mount("/quizzes", Routes(h))
	})
	return r
}

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Post("/", h.CreateQuiz)
	r.Get("/", h.ListQuizzes)
	r.Route("/{id}", func(r chi.Router) {
		r.Post("/generate", h.Generate)
		r.Post("/start", h.Start)
		r.Get("/questions", h.GetQuestions)
		r.Post("/answers", h.RecordAnswer)
		r.Post("/submit", h.Submit)
		r.Get("/results", h.Results)
		r.Post("/sync", h.SyncApplication)
	})
	return r
}
