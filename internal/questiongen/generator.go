package questiongen

import "context"

// Generator is an external question source. Implementations may return
// fewer, more, or invalid questions; the Bank validates and tops up.
type Generator interface {
	Generate(ctx context.Context, req Request) ([]Question, error)
}
