package questiongen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/abhisek/skillcheck/internal/llm"
)

// LLMGenerator implements Generator using an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// NewLLMGenerator creates a generator backed by provider.
func NewLLMGenerator(provider llm.Provider, cfg Config) *LLMGenerator {
	return &LLMGenerator{provider: provider, config: cfg}
}

type questionOutput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

type questionSetOutput struct {
	Questions []questionOutput `json:"questions"`
}

// Generate asks the LLM for req.Count questions. The result is not
// validated here.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]Question, error) {
	ctx = llm.WithPurpose(ctx, "question-gen")

	maxTokens := g.config.MaxTokensPerQuestion*req.Count + 256
	resp, err := g.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   maxTokens,
		Temperature: g.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate questions for %q: %w", req.Target.SkillID, err)
	}

	var raw questionSetOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, &llm.ErrInvalidResponse{
			Content: resp.Content,
			Err:     fmt.Errorf("decode question set: %w", err),
		}
	}

	out := make([]Question, 0, len(raw.Questions))
	for _, r := range raw.Questions {
		out = append(out, Question{
			SkillID:       req.Target.SkillID,
			Text:          r.Question,
			Options:       r.Options,
			CorrectAnswer: r.CorrectAnswer,
			Explanation:   r.Explanation,
			Source:        SourceLLM,
		})
	}
	return out, nil
}
