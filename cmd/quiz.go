package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/quiz"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Create, inspect and score quizzes",
}

var quizPracticeCmd = &cobra.Command{
	Use:   "practice",
	Short: "Create a practice quiz from your profile skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		take, _ := cmd.Flags().GetBool("take")
		p, err := requireRole(cmd, quiz.RoleEmployee)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmdContext(cmd)
		q, err := d.service.CreatePractice(ctx, p)
		if err != nil {
			return err
		}
		n, err := generate(ctx, d, p, q.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Practice quiz %s ready with %d questions\n", q.ID, n)
		if take {
			return takeWith(cmd, d, p, q.ID)
		}
		return nil
	},
}

var quizGenerateCmd = &cobra.Command{
	Use:   "generate <quiz-id>",
	Short: "Regenerate the questions of a quiz that has not started",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		n, err := generate(cmdContext(cmd), d, p, args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Generated %d questions\n", n)
		return nil
	},
}

var quizListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your quizzes",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		quizzes, err := d.service.ListQuizzes(cmdContext(cmd), p)
		if err != nil {
			return err
		}
		if len(quizzes) == 0 {
			fmt.Println("No quizzes yet.")
			return nil
		}

		fmt.Printf("%-36s  %-11s  %-36s  %6s  %s\n", "ID", "Status", "Application", "Score", "Created")
		fmt.Println(strings.Repeat("─", 112))
		for _, q := range quizzes {
			app := q.ApplicationID
			if q.Practice() {
				app = "(practice)"
			}
			score := "-"
			if q.Score != nil {
				score = fmt.Sprintf("%d%%", *q.Score)
			}
			fmt.Printf("%-36s  %-11s  %-36s  %6s  %s\n",
				q.ID, q.Status, app, score, q.CreatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var quizQuestionsCmd = &cobra.Command{
	Use:   "questions <quiz-id>",
	Short: "Print the questions of a quiz",
	Long:  "Answer keys are shown to employers, and to candidates once their results are visible.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		ctx := cmdContext(cmd)
		questions, err := d.service.Questions(ctx, p, args[0])
		if err != nil {
			return err
		}
		if len(questions) == 0 {
			fmt.Println("No questions yet. Generate them with: skillcheck quiz generate", args[0])
			return nil
		}

		reveal := p.Role == quiz.RoleEmployer
		if !reveal {
			report, err := d.service.Results(ctx, p, args[0])
			if err != nil {
				return err
			}
			reveal = report.Result != nil
		}

		names := skillNames(ctx, d, questions)
		sep := strings.Repeat("─", 60)
		for i, q := range questions {
			fmt.Println(sep)
			fmt.Printf("%d. [%s] %s\n", i+1, names[q.SkillID], q.Text)
			for j, opt := range q.Options {
				mark := " "
				if reveal && opt == q.CorrectAnswer {
					mark = "✓"
				}
				fmt.Printf("   %s %d) %s\n", mark, j+1, opt)
			}
			if reveal && q.Explanation != "" {
				fmt.Printf("   %s\n", q.Explanation)
			}
		}
		return nil
	},
}

var quizSubmitCmd = &cobra.Command{
	Use:   "submit <quiz-id>",
	Short: "Score and complete an in-progress quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		sub, err := d.service.Submit(cmdContext(cmd), p, args[0])
		if err != nil {
			return err
		}
		switch {
		case sub.Duplicate:
			fmt.Println("Quiz was already submitted.")
		default:
			fmt.Println("Quiz submitted.")
		}
		if !sub.ApplicationSynced {
			fmt.Printf("Application status was not updated: %v\n", sub.SyncErr)
			fmt.Println("Retry with: skillcheck quiz sync", args[0])
		}
		return printReport(cmd, d, p, args[0])
	},
}

var quizResultsCmd = &cobra.Command{
	Use:   "results <quiz-id>",
	Short: "Show quiz results, if they are visible to you",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()
		return printReport(cmd, d, p, args[0])
	},
}

var quizSyncCmd = &cobra.Command{
	Use:   "sync <quiz-id>",
	Short: "Retry marking the application of a completed quiz as quiz_completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.service.SyncApplication(cmdContext(cmd), p, args[0]); err != nil {
			return err
		}
		fmt.Println("Application marked quiz_completed.")
		return nil
	},
}

// generate builds the question set of a quiz and returns its size.
func generate(ctx context.Context, d *deps, p quiz.Principal, quizID string) (int, error) {
	fmt.Println("Generating questions...")
	questions, err := d.service.Generate(ctx, p, quizID)
	if err != nil {
		return 0, fmt.Errorf("generate questions: %w", err)
	}
	return len(questions), nil
}

func printReport(cmd *cobra.Command, d *deps, p quiz.Principal, quizID string) error {
	ctx := cmdContext(cmd)
	report, err := d.service.Results(ctx, p, quizID)
	if err != nil {
		return err
	}
	q := report.Quiz
	fmt.Printf("Quiz %s  (%s)\n", q.ID, q.Status)
	if !q.Practice() {
		fmt.Printf("Application status: %s\n", report.ApplicationStatus)
	}

	switch {
	case q.Status != quiz.StatusCompleted:
		fmt.Println("Not submitted yet.")
		return nil
	case !report.Visible || report.Result == nil:
		fmt.Println("Results are hidden until the employer moves your application forward.")
		return nil
	}

	res := report.Result
	ids := make([]string, len(res.Skills))
	for i, s := range res.Skills {
		ids[i] = s.SkillID
	}
	names, err := d.store.Skills(ctx, ids)
	if err != nil {
		return err
	}

	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("%-24s  %7s  %8s\n", "Skill", "Score", "Correct")
	fmt.Println(strings.Repeat("─", 48))
	for _, s := range res.Skills {
		name := s.SkillID
		if sk, ok := names[s.SkillID]; ok {
			name = sk.Name
		}
		fmt.Printf("%-24s  %6d%%  %4d/%-3d\n", truncate(name, 24), s.Percent, s.Correct, s.Total)
	}
	fmt.Println(strings.Repeat("─", 48))
	fmt.Printf("%-24s  %6d%%\n", "OVERALL", res.Overall)
	return nil
}

func skillNames(ctx context.Context, d *deps, questions []quiz.Question) map[string]string {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.SkillID)
	}
	out := make(map[string]string, len(ids))
	skills, err := d.store.Skills(ctx, ids)
	if err != nil {
		d.logger.Warn("resolve skill names", zap.Error(err))
	}
	for _, id := range ids {
		out[id] = id
		if sk, ok := skills[id]; ok {
			out[id] = sk.Name
		}
	}
	return out
}

func init() {
	quizPracticeCmd.Flags().Bool("take", false, "Start the quiz right away")

	quizCmd.AddCommand(quizPracticeCmd)
	quizCmd.AddCommand(quizGenerateCmd)
	quizCmd.AddCommand(quizListCmd)
	quizCmd.AddCommand(quizQuestionsCmd)
	quizCmd.AddCommand(quizSubmitCmd)
	quizCmd.AddCommand(quizResultsCmd)
	quizCmd.AddCommand(quizSyncCmd)
}
