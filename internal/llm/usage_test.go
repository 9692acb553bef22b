package llm

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	events := []Event{
		{Purpose: "question-gen", Model: "gpt-4o-mini", InputTokens: 1_000_000, OutputTokens: 0, LatencyMs: 100, Success: true},
		{Purpose: "question-gen", Model: "gpt-4o-mini", InputTokens: 0, OutputTokens: 1_000_000, LatencyMs: 300, Success: false},
		{Purpose: "other", Model: "homegrown-1", InputTokens: 10, OutputTokens: 20, LatencyMs: 50, Success: true},
	}

	byPurpose := Summarize(events, ByPurpose)
	if len(byPurpose) != 2 {
		t.Fatalf("groups = %d, want 2", len(byPurpose))
	}
	if byPurpose[0].Key != "other" || byPurpose[1].Key != "question-gen" {
		t.Fatalf("keys = %q, %q, want sorted", byPurpose[0].Key, byPurpose[1].Key)
	}

	gen := byPurpose[1]
	if gen.Calls != 2 || gen.Failures != 1 {
		t.Errorf("calls/failures = %d/%d, want 2/1", gen.Calls, gen.Failures)
	}
	if gen.AvgLatencyMs != 200 {
		t.Errorf("AvgLatencyMs = %d, want 200", gen.AvgLatencyMs)
	}
	if math.Abs(gen.Cost-0.75) > 1e-9 {
		t.Errorf("Cost = %v, want 0.75", gen.Cost)
	}

	other := byPurpose[0]
	if other.Unpriced != 1 || other.Cost != 0 {
		t.Errorf("unknown model: unpriced=%d cost=%v", other.Unpriced, other.Cost)
	}

	byModel := Summarize(events, ByModel)
	if len(byModel) != 2 || byModel[0].Key != "gpt-4o-mini" {
		t.Errorf("byModel = %+v", byModel)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if got := Summarize(nil, ByModel); len(got) != 0 {
		t.Errorf("Summarize(nil) = %v, want empty", got)
	}
}
