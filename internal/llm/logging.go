package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// LoggingProvider is a decorator that logs every call, records it as an
// Event and reports it to an optional observer. Recording failures are
// logged and never fail the call.
type LoggingProvider struct {
	inner     Provider
	recorder  EventRecorder
	observer  RequestObserver
	logger    *zap.Logger
	logBodies bool
}

// LoggingOption configures a LoggingProvider.
type LoggingOption func(*LoggingProvider)

// LogTo sets the zap logger.
func LogTo(l *zap.Logger) LoggingOption {
	return func(p *LoggingProvider) { p.logger = l }
}

// ObserveWith attaches a RequestObserver.
func ObserveWith(o RequestObserver) LoggingOption {
	return func(p *LoggingProvider) { p.observer = o }
}

// WithoutBodies stops request and response bodies being stored.
func WithoutBodies() LoggingOption {
	return func(p *LoggingProvider) { p.logBodies = false }
}

// WithLogging wraps a Provider with event logging. recorder may be nil.
func WithLogging(p Provider, recorder EventRecorder, opts ...LoggingOption) Provider {
	lp := &LoggingProvider{
		inner:     p,
		recorder:  recorder,
		logger:    zap.NewNop(),
		logBodies: true,
	}
	for _, o := range opts {
		o(lp)
	}
	return lp
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start)

	ev := Event{
		CreatedAt: start,
		Provider:  l.inner.Name(),
		Model:     l.inner.ModelID(),
		Purpose:   purpose,
		LatencyMs: elapsed.Milliseconds(),
		Success:   err == nil,
	}
	var usage Usage
	if resp != nil {
		usage = resp.Usage
		ev.InputTokens = usage.InputTokens
		ev.OutputTokens = usage.OutputTokens
		if resp.Model != "" {
			ev.Model = resp.Model
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	if l.logBodies {
		ev.RequestBody = serializeRequest(req)
		if resp != nil {
			ev.ResponseBody = string(resp.Content)
		}
	}

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", purpose),
		zap.Duration("latency", elapsed),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		l.logger.Warn("llm request failed", append(fields, zap.Error(err))...)
	} else {
		l.logger.Debug("llm request", fields...)
	}

	if l.observer != nil {
		l.observer.ObserveLLMRequest(ev.Provider, purpose, elapsed, usage, err)
	}
	if l.recorder != nil {
		// The caller's context may already be done; the record should
		// still land.
		if recErr := l.recorder.RecordLLMEvent(context.WithoutCancel(ctx), ev); recErr != nil {
			l.logger.Warn("failed to record llm event", zap.Error(recErr))
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Name() string { return l.inner.Name() }

// serializeRequest builds a readable representation of the LLM request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
