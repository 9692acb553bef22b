package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/store"
)

var applicationCmd = &cobra.Command{
	Use:     "application",
	Aliases: []string{"app"},
	Short:   "Apply to jobs and review applications",
}

var applicationApplyCmd = &cobra.Command{
	Use:   "apply <job-id>",
	Short: "Apply to a job and prepare its assessment quiz",
	Args:  cobra.ExactArgs(1),
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
		job, err := d.store.Job(ctx, args[0])
		if err != nil {
			return fmt.Errorf("job %s: %w", args[0], err)
		}

		now := time.Now()
		app := &quiz.Application{
			ID:         uuid.NewString(),
			JobID:      job.ID,
			EmployeeID: p.ID,
			Status:     quiz.ApplicationPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := d.store.CreateApplication(ctx, app); err != nil {
			return err
		}

		q, err := d.service.CreateForApplication(ctx, p, app.ID)
		if err != nil {
			return err
		}
		n, err := generate(ctx, d, p, q.ID)
		if err != nil {
			return err
		}
		fmt.Printf("Applied to %q\n", job.Title)
		fmt.Printf("  application  %s\n", app.ID)
		fmt.Printf("  quiz         %s (%d questions)\n", q.ID, n)

		if !take {
			fmt.Printf("\nTake it with: skillcheck take %s --as %s\n", q.ID, p.ID)
			return nil
		}
		return takeWith(cmd, d, p, q.ID)
	},
}

var applicationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your applications, or the applications to one of your jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		jobID, _ := cmd.Flags().GetString("job")
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
		var apps []quiz.Application
		switch p.Role {
		case quiz.RoleEmployer:
			if jobID == "" {
				return errors.New("employers must pass --job")
			}
			if _, err := ownedJob(ctx, d.store, p, jobID); err != nil {
				return err
			}
			apps, err = d.store.ListApplications(ctx, jobID, "")
		default:
			apps, err = d.store.ListApplications(ctx, jobID, p.ID)
		}
		if err != nil {
			return err
		}
		if len(apps) == 0 {
			fmt.Println("No applications found.")
			return nil
		}

		fmt.Printf("%-36s  %-36s  %-12s  %-16s  %s\n", "ID", "Job", "Candidate", "Status", "Updated")
		fmt.Println(strings.Repeat("─", 124))
		for _, a := range apps {
			fmt.Printf("%-36s  %-36s  %-12s  %-16s  %s\n",
				a.ID, a.JobID, truncate(a.EmployeeID, 12), a.Status,
				a.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var applicationStatusCmd = &cobra.Command{
	Use:   "status <application-id> <status>",
	Short: "Move an application through the hiring workflow",
	Long: "Sets the application status. Known statuses: " +
		joinStatuses() + ". quiz_completed is normally set by quiz submission.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status := quiz.ApplicationStatus(args[1])
		if !status.Valid() {
			return fmt.Errorf("unknown status %q (want one of %s)", args[1], joinStatuses())
		}
		return updateOwnedApplication(cmd, args[0], func(ctx context.Context, st *store.Store) error {
			return st.UpdateApplicationStatus(ctx, args[0], status)
		})
	},
}

var applicationInterviewCmd = &cobra.Command{
	Use:   "interview <application-id> <details>",
	Short: "Invite a candidate to interview",
	Long:  "Records the interview details and moves the application to interview, which also reveals quiz results to the candidate.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateOwnedApplication(cmd, args[0], func(ctx context.Context, st *store.Store) error {
			if err := st.SetInterviewDetails(ctx, args[0], args[1]); err != nil {
				return err
			}
			return st.UpdateApplicationStatus(ctx, args[0], quiz.ApplicationInterview)
		})
	},
}

// updateOwnedApplication runs fn after checking that the acting employer
// owns the application's job.
func updateOwnedApplication(cmd *cobra.Command, id string, fn func(ctx context.Context, st *store.Store) error) error {
	p, err := requireRole(cmd, quiz.RoleEmployer)
	if err != nil {
		return err
	}
	d, err := openDeps(cmd, nil)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmdContext(cmd)
	app, err := d.store.Application(ctx, id)
	if err != nil {
		return fmt.Errorf("application %s: %w", id, err)
	}
	if _, err := ownedJob(ctx, d.store, p, app.JobID); err != nil {
		return err
	}
	if err := fn(ctx, d.store); err != nil {
		return err
	}

	app, err = d.store.Application(ctx, id)
	if err != nil {
		return err
	}
	fmt.Printf("Application %s is now %s\n", app.ID, app.Status)
	if app.InterviewDetails != "" {
		fmt.Printf("Interview: %s\n", app.InterviewDetails)
	}
	return nil
}

func ownedJob(ctx context.Context, st *store.Store, p quiz.Principal, jobID string) (*quiz.Job, error) {
	job, err := st.Job(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", jobID, err)
	}
	if job.EmployerID != p.ID {
		return nil, quiz.ErrForbidden
	}
	return job, nil
}

func joinStatuses() string {
	names := make([]string, len(quiz.ApplicationStatuses))
	for i, s := range quiz.ApplicationStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func init() {
	applicationApplyCmd.Flags().Bool("take", false, "Start the quiz right away")
	applicationListCmd.Flags().String("job", "", "Job id (required for employers)")

	applicationCmd.AddCommand(applicationApplyCmd)
	applicationCmd.AddCommand(applicationListCmd)
	applicationCmd.AddCommand(applicationStatusCmd)
	applicationCmd.AddCommand(applicationInterviewCmd)
}
