package llm

import "sort"

// UsageSummary aggregates events that share a key.
type UsageSummary struct {
	Key          string
	Calls        int
	Failures     int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64

	// Cost is the estimated USD cost of the priced events. Unpriced is
	// the number of events whose model has no known pricing.
	Cost     float64
	Unpriced int
}

// ByPurpose keys events by purpose.
func ByPurpose(ev Event) string { return ev.Purpose }

// ByModel keys events by model id.
func ByModel(ev Event) string { return ev.Model }

// Summarize groups events by key and returns the groups sorted by key.
func Summarize(events []Event, key func(Event) string) []UsageSummary {
	groups := make(map[string]*UsageSummary)
	latency := make(map[string]int64)
	for _, ev := range events {
		k := key(ev)
		g, ok := groups[k]
		if !ok {
			g = &UsageSummary{Key: k}
			groups[k] = g
		}
		g.Calls++
		if !ev.Success {
			g.Failures++
		}
		g.InputTokens += ev.InputTokens
		g.OutputTokens += ev.OutputTokens
		latency[k] += ev.LatencyMs
		if c, ok := EventCost(ev); ok {
			g.Cost += c
		} else {
			g.Unpriced++
		}
	}

	out := make([]UsageSummary, 0, len(groups))
	for k, g := range groups {
		g.AvgLatencyMs = latency[k] / int64(g.Calls)
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
