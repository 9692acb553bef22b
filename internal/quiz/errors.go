package quiz

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrForbidden        = errors.New("principal may not access this quiz")
	ErrInvalidPrincipal = errors.New("principal id and a known role are required")

	// ErrAlreadyCompleted is returned by a store when the completion
	// precondition fails.
	ErrAlreadyCompleted = errors.New("quiz already completed")
	ErrAlreadyStarted   = errors.New("quiz already started")
	ErrAnswerExists     = errors.New("question already answered")
	ErrNotActive        = errors.New("quiz is not in progress")
	ErrSubmitNotAllowed = errors.New("nothing has been answered yet")
	ErrInvalidChoice    = errors.New("choice is not one of the question's options")
	ErrOutOfOrder       = errors.New("question is not the next open question")
	ErrNoActiveQuestion = errors.New("no active question")
	ErrAdvancePending   = errors.New("waiting to advance")
	ErrUnknownSkill     = errors.New("score references a skill outside the quiz")
	ErrNotReady         = errors.New("questions are not ready yet, refresh manually")
	ErrNoApplication    = errors.New("quiz has no linked application")
)
