package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quiz"
)

var jobCmd = &cobra.Command{
	Use:   "job",
	Short: "Manage job listings (employer)",
}

var jobCreateCmd = &cobra.Command{
	Use:   "create <title> [skill=level...]",
	Short: "Create a job listing with its required skills",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		job := &quiz.Job{
			ID:         uuid.NewString(),
			EmployerID: p.ID,
			Title:      args[0],
			CreatedAt:  time.Now(),
		}
		assocs, err := parseSkillLevels(cmd, d.store, job.ID, args[1:])
		if err != nil {
			return err
		}
		if err := d.store.CreateJob(ctx, job); err != nil {
			return err
		}
		if err := d.store.SetJobSkills(ctx, job.ID, assocs); err != nil {
			return err
		}
		fmt.Printf("Created job %q (%s) requiring %d skills\n", job.Title, job.ID, len(assocs))
		return nil
	},
}

var jobRequireCmd = &cobra.Command{
	Use:   "require <job-id> <skill=level>...",
	Short: "Replace the required skills of a job",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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
		job, err := d.store.Job(ctx, args[0])
		if err != nil {
			return err
		}
		if job.EmployerID != p.ID {
			return quiz.ErrForbidden
		}
		assocs, err := parseSkillLevels(cmd, d.store, job.ID, args[1:])
		if err != nil {
			return err
		}
		if err := d.store.SetJobSkills(ctx, job.ID, assocs); err != nil {
			return err
		}
		return printAssociations(cmd, d.store, "Need", assocs)
	},
}

var jobListCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs and their required skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		p, err := principal(cmd)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		employerID := ""
		if p.Role == quiz.RoleEmployer && !all {
			employerID = p.ID
		}
		ctx := cmdContext(cmd)
		jobs, err := d.store.ListJobs(ctx, employerID)
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No jobs found.")
			return nil
		}

		for i, j := range jobs {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("%s  %s  (employer %s, %s)\n", j.ID, j.Title, j.EmployerID,
				j.CreatedAt.Local().Format("2006-01-02"))
			fmt.Println(strings.Repeat("─", 48))
			assocs, err := d.store.JobSkills(ctx, j.ID)
			if err != nil {
				return err
			}
			if len(assocs) == 0 {
				fmt.Println("(no required skills, quizzes use the general-fit question)")
				continue
			}
			if err := printAssociations(cmd, d.store, "Need", assocs); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	jobListCmd.Flags().Bool("all", false, "List jobs of every employer")

	jobCmd.AddCommand(jobCreateCmd)
	jobCmd.AddCommand(jobRequireCmd)
	jobCmd.AddCommand(jobListCmd)
}
