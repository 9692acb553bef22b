package questiongen

import "testing"

func validQuestion() Question {
	return Question{
		SkillID:       "go",
		Text:          "Which keyword starts a goroutine?",
		Options:       []string{"go", "defer", "chan", "select"},
		CorrectAnswer: "go",
		Explanation:   "The go statement starts a goroutine.",
	}
}

func TestDefaultValidators(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(q *Question)
		validator string
	}{
		{"valid", func(q *Question) {}, ""},
		{"empty text", func(q *Question) { q.Text = "   " }, "structural"},
		{"three options", func(q *Question) { q.Options = q.Options[:3] }, "options"},
		{"five options", func(q *Question) { q.Options = append(q.Options, "range") }, "options"},
		{"blank option", func(q *Question) { q.Options[2] = " " }, "options"},
		{"duplicate option", func(q *Question) { q.Options[3] = "defer" }, "options"},
		{"sentinel option", func(q *Question) { q.Options[1] = SkipSentinel }, "options"},
		{"answer not in options", func(q *Question) { q.CorrectAnswer = "Go" }, "answer"},
		{"answer with whitespace", func(q *Question) { q.CorrectAnswer = "go " }, "answer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			verr := Validate(&q, DefaultValidators())
			if tt.validator == "" {
				if verr != nil {
					t.Fatalf("unexpected validation error: %v", verr)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected %s failure, got nil", tt.validator)
			}
			if verr.Validator != tt.validator {
				t.Errorf("expected validator %q, got %q (%s)", tt.validator, verr.Validator, verr.Message)
			}
		})
	}
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"What is Go?", "what is go"},
		{"  what   IS\tgo ? ", "what is go"},
		{"Line\none", "line one"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizeText(tt.in); got != tt.want {
			t.Errorf("NormalizeText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDedupSet(t *testing.T) {
	d := dedupSet{}
	if !d.add("What is Go?") {
		t.Fatal("first add should be new")
	}
	if d.add("what  is go") {
		t.Error("near-identical text should be rejected")
	}
	if !d.add("What is Rust?") {
		t.Error("different text should be new")
	}
}
