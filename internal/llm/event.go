package llm

import (
	"context"
	"time"
)

// Event is the audit record of one provider call.
type Event struct {
	ID           int
	CreatedAt    time.Time
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// EventRecorder persists events. The SQLite store implements it.
type EventRecorder interface {
	RecordLLMEvent(ctx context.Context, ev Event) error
}

// RequestObserver receives one callback per provider call, after the
// call returns. Metrics collectors implement it.
type RequestObserver interface {
	ObserveLLMRequest(provider, purpose string, d time.Duration, usage Usage, err error)
}
