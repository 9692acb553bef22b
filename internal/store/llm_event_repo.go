package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/skillcheck/internal/llm"
)

var _ llm.EventRecorder = (*Store)(nil)

// RecordLLMEvent appends an LLM request event.
func (s *Store) RecordLLMEvent(ctx context.Context, ev llm.Event) error {
	ins := build().Insert(LlmEventsTable.Name).
		Columns("created_at", "provider", "model", "purpose", "input_tokens", "output_tokens",
			"latency_ms", "success", "error_message", "request_body", "response_body").
		Values(ev.CreatedAt, ev.Provider, ev.Model, ev.Purpose, ev.InputTokens, ev.OutputTokens,
			ev.LatencyMs, ev.Success, ev.ErrorMessage, ev.RequestBody, ev.ResponseBody)
	if _, err := exec(ctx, s.db, ins); err != nil {
		return fmt.Errorf("record llm event: %w", err)
	}
	return nil
}

var llmEventColumns = []string{"id", "created_at", "provider", "model", "purpose", "input_tokens",
	"output_tokens", "latency_ms", "success", "error_message", "request_body", "response_body"}

// RecentLLMEvents returns up to limit events, newest first. A purpose of
// "" matches every event.
func (s *Store) RecentLLMEvents(ctx context.Context, purpose string, limit int) ([]llm.Event, error) {
	sel := build().Select(llmEventColumns...).
		From(build().Table(LlmEventsTable.Name)).
		OrderBy(entsql.Desc("id"))
	if purpose != "" {
		sel.Where(entsql.EQ("purpose", purpose))
	}
	if limit > 0 {
		sel.Limit(limit)
	}
	rows, err := query(ctx, s.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list llm events: %w", err)
	}
	defer rows.Close()

	var out []llm.Event
	for rows.Next() {
		ev, err := scanLLMEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *ev)
	}
	return out, rows.Err()
}

// LLMEvent returns one event by id.
func (s *Store) LLMEvent(ctx context.Context, id int) (*llm.Event, error) {
	sel := build().Select(llmEventColumns...).
		From(build().Table(LlmEventsTable.Name)).
		Where(entsql.EQ("id", id))
	ev, err := scanLLMEvent(queryRow(ctx, s.db, sel))
	if err != nil {
		return nil, fmt.Errorf("llm event %d: %w", id, notFound(err))
	}
	return ev, nil
}

func scanLLMEvent(row scanner) (*llm.Event, error) {
	var ev llm.Event
	if err := row.Scan(&ev.ID, &ev.CreatedAt, &ev.Provider, &ev.Model, &ev.Purpose,
		&ev.InputTokens, &ev.OutputTokens, &ev.LatencyMs, &ev.Success,
		&ev.ErrorMessage, &ev.RequestBody, &ev.ResponseBody); err != nil {
		return nil, err
	}
	return &ev, nil
}
