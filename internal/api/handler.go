package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/quiz"
)

// Principal headers. Authentication happens in front of this service; the
// gateway forwards the verified identity.
const (
	HeaderPrincipalID   = "X-Principal-ID"
	HeaderPrincipalRole = "X-Principal-Role"
)

// Handler serves the quiz endpoints.
type Handler struct {
	service *quiz.Service
	logger  *zap.Logger
}

func NewHandler(s *quiz.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{service: s, logger: logger}
}

func principalFrom(r *http.Request) quiz.Principal {
	return quiz.Principal{
		ID:   r.Header.Get(HeaderPrincipalID),
		Role: quiz.Role(r.Header.Get(HeaderPrincipalRole)),
	}
}

func (h *Handler) CreateQuiz(w http.ResponseWriter, r *http.Request) {
	var req createQuizRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	p := principalFrom(r)
	var (
		q   *quiz.Quiz
		err error
	)
	if req.ApplicationID == "" {
		q, err = h.service.CreatePractice(r.Context(), p)
	} else {
		q, err = h.service.CreateForApplication(r.Context(), p, req.ApplicationID)
	}
	if err != nil {
		h.fail(w, r, "create quiz", err)
		return
	}
	writeJSON(w, http.StatusCreated, newQuizResponse(q))
}

func (h *Handler) ListQuizzes(w http.ResponseWriter, r *http.Request) {
	qs, err := h.service.ListQuizzes(r.Context(), principalFrom(r))
	if err != nil {
		h.fail(w, r, "list quizzes", err)
		return
	}
	out := make([]quizResponse, 0, len(qs))
	for i := range qs {
		out = append(out, newQuizResponse(&qs[i]))
	}
	writeJSON(w, http.StatusOK, out)
}

// Generate builds the question set synchronously and reports how many
// questions it holds. Clients that want the set poll GetQuestions.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	qs, err := h.service.Generate(r.Context(), principalFrom(r), id)
	if err != nil {
		h.fail(w, r, "generate questions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"quiz_id": id, "questions": len(qs)})
}

func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	q, err := h.service.Start(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "start quiz", err)
		return
	}
	writeJSON(w, http.StatusOK, newQuizResponse(q))
}

// GetQuestions is the idempotent read clients poll while generation runs.
// An empty set answers 200 with ready=false.
func (h *Handler) GetQuestions(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	id := chi.URLParam(r, "id")
	qs, err := h.service.Questions(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "list questions", err)
		return
	}

	reveal := p.Role == quiz.RoleEmployer
	if !reveal && len(qs) > 0 {
		report, err := h.service.Results(r.Context(), p, id)
		if err != nil {
			h.fail(w, r, "load results", err)
			return
		}
		reveal = report.Result != nil
	}
	writeJSON(w, http.StatusOK, newQuestionsResponse(id, qs, reveal))
}

func (h *Handler) RecordAnswer(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "question_id is required")
		return
	}

	a, err := h.service.RecordAnswer(r.Context(), principalFrom(r), chi.URLParam(r, "id"), req.QuestionID, req.Answer, req.Skipped)
	if err != nil {
		h.fail(w, r, "record answer", err)
		return
	}
	writeJSON(w, http.StatusCreated, newAnswerResponse(a))
}

// Submit completes the quiz. The result is included only when the
// submitter may see it.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	id := chi.URLParam(r, "id")
	sub, err := h.service.Submit(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "submit quiz", err)
		return
	}

	out := submitResponse{
		Quiz:              newQuizResponse(sub.Quiz),
		Duplicate:         sub.Duplicate,
		ApplicationSynced: sub.ApplicationSynced,
	}
	if sub.SyncErr != nil {
		out.SyncError = sub.SyncErr.Error()
	}
	report, err := h.service.Results(r.Context(), p, id)
	if err != nil {
		h.fail(w, r, "load results", err)
		return
	}
	if report.Result != nil {
		out.Result = &resultResponse{Overall: report.Result.Overall, Skills: report.Result.Skills}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Results(r.Context(), principalFrom(r), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "load results", err)
		return
	}
	writeJSON(w, http.StatusOK, newReportResponse(report))
}

func (h *Handler) SyncApplication(w http.ResponseWriter, r *http.Request) {
	if err := h.service.SyncApplication(r.Context(), principalFrom(r), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, "sync application", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := statusFor(err)
	log := h.logger.With(
		zap.String("op", op),
		zap.String("request_id", requestID(r)),
		zap.Error(err))
	if status >= http.StatusInternalServerError {
		log.Error("request failed")
		writeError(w, status, "internal server error")
		return
	}
	log.Debug("request rejected", zap.Int("status", status))
	writeError(w, status, publicMessage(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, quiz.ErrInvalidPrincipal):
		return http.StatusUnauthorized
	case errors.Is(err, quiz.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, quiz.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, quiz.ErrInvalidChoice):
		return http.StatusBadRequest
	case errors.Is(err, quiz.ErrAlreadyCompleted),
		errors.Is(err, quiz.ErrAlreadyStarted),
		errors.Is(err, quiz.ErrAnswerExists),
		errors.Is(err, quiz.ErrOutOfOrder),
		errors.Is(err, quiz.ErrNotActive),
		errors.Is(err, quiz.ErrSubmitNotAllowed),
		errors.Is(err, quiz.ErrNoApplication):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage strips wrapping context, which may name internal ids, and
// keeps the sentinel text.
func publicMessage(err error) string {
	for _, sentinel := range []error{
		quiz.ErrInvalidPrincipal, quiz.ErrForbidden, quiz.ErrNotFound,
		quiz.ErrInvalidChoice, quiz.ErrAlreadyCompleted, quiz.ErrAlreadyStarted,
		quiz.ErrAnswerExists, quiz.ErrOutOfOrder, quiz.ErrNotActive,
		quiz.ErrSubmitNotAllowed, quiz.ErrNoApplication,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
