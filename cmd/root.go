package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "skillcheck",
	Short: "Timed skill assessments for job applications",
	Long: "skillcheck generates multiple-choice quizzes from the skills a job requires, " +
		"runs them in the terminal, and scores them for candidates and employers.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTake(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("db", "", "Path to SQLite database file (overrides config and SKILLCHECK_DB)")
	pf.String("config", "", "Path to YAML config file (overrides SKILLCHECK_CONFIG)")
	pf.String("as", "", "Principal id to act as (defaults to SKILLCHECK_PRINCIPAL)")
	pf.String("role", string(quiz.RoleEmployee), "Principal role: employee or employer")

	rootCmd.AddCommand(skillCmd)
	rootCmd.AddCommand(jobCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(applicationCmd)
	rootCmd.AddCommand(quizCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the configured path, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}

// principal resolves the acting principal from --as and --role.
func principal(cmd *cobra.Command) (quiz.Principal, error) {
	id, _ := cmd.Flags().GetString("as")
	if id == "" {
		id = lookupEnv("PRINCIPAL")
	}
	role, _ := cmd.Flags().GetString("role")
	p := quiz.Principal{ID: id, Role: quiz.Role(role)}
	if err := p.Validate(); err != nil {
		return p, fmt.Errorf("principal (--as %q --role %q): %w", id, role, err)
	}
	return p, nil
}

// requireRole checks the principal and its role. Catalog commands act for
// one side of the hiring workflow only.
func requireRole(cmd *cobra.Command, role quiz.Role) (quiz.Principal, error) {
	p, err := principal(cmd)
	if err != nil {
		return p, err
	}
	if p.Role != role {
		return p, fmt.Errorf("%s requires --role %s", cmd.CommandPath(), role)
	}
	return p, nil
}
