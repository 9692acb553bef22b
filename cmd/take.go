package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/app"
	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/screen"
)

var takeCmd = &cobra.Command{
	Use:   "take [quiz-id]",
	Short: "Take a quiz in the terminal",
	Long:  "Opens the terminal client. With a quiz id the quiz opens directly; otherwise pick one from the home screen.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var id string
		if len(args) == 1 {
			id = args[0]
		}
		return runTake(cmd, id)
	},
}

// runTake opens the store, builds dependencies, and launches the TUI.
func runTake(cmd *cobra.Command, quizID string) error {
	p, err := requireRole(cmd, quiz.RoleEmployee)
	if err != nil {
		return err
	}
	d, err := openDeps(cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()
	return takeWith(cmd, d, p, quizID)
}

func takeWith(cmd *cobra.Command, d *deps, p quiz.Principal, quizID string) error {
	ctx := cmdContext(cmd)

	var q *quiz.Quiz
	if quizID != "" {
		var err error
		if q, err = d.service.Get(ctx, p, quizID); err != nil {
			return err
		}
	}

	env := &screen.Env{
		Ctx:       ctx,
		Service:   d.service,
		Skills:    d.store,
		Principal: p,
		Session:   d.sessionConfig(),
		Poll:      d.pollPolicy(),
		Logger:    d.logger.Named("tui"),
	}
	return app.Run(env, q)
}
