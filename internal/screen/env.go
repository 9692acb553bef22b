package screen

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/skill"
)

// SkillDirectory resolves skill ids to display names.
type SkillDirectory interface {
	Skills(ctx context.Context, ids []string) (map[string]skill.Skill, error)
}

// Env carries what every screen needs to reach the quiz engine.
type Env struct {
	Ctx       context.Context
	Service   *quiz.Service
	Skills    SkillDirectory
	Principal quiz.Principal
	Session   quiz.SessionConfig
	Poll      quiz.PollPolicy
	Logger    *zap.Logger

	// NewRand returns the random source of a session. Nil means a
	// time-seeded PCG.
	NewRand func() *rand.Rand
}

// Rand returns a fresh random source for a session.
func (e *Env) Rand() *rand.Rand {
	if e.NewRand != nil {
		return e.NewRand()
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// Log returns the logger, never nil.
func (e *Env) Log() *zap.Logger {
	if e.Logger == nil {
		return zap.NewNop()
	}
	return e.Logger
}

// SkillNames maps skill ids to names, falling back to the id.
func (e *Env) SkillNames(ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		names[id] = id
	}
	if e.Skills == nil || len(ids) == 0 {
		return names
	}
	known, err := e.Skills.Skills(e.Ctx, ids)
	if err != nil {
		e.Log().Warn("failed to resolve skill names", zap.Error(err))
		return names
	}
	for id, sk := range known {
		if sk.Name != "" {
			names[id] = sk.Name
		}
	}
	return names
}

// PrincipalLabel is shown in the header.
func (e *Env) PrincipalLabel() string {
	return fmt.Sprintf("%s (%s)", e.Principal.ID, e.Principal.Role)
}
