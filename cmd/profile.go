package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quiz"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the candidate skill profile (employee)",
}

var profileAddSkillCmd = &cobra.Command{
	Use:   "add-skill <skill=level>...",
	Short: "Add or update self-rated skills",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := requireRole(cmd, quiz.RoleEmployee)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		assocs, err := parseSkillLevels(cmd, d.store, p.ID, args)
		if err != nil {
			return err
		}
		for _, a := range assocs {
			if err := d.store.AddCandidateSkill(cmdContext(cmd), p.ID, a); err != nil {
				return err
			}
		}
		fmt.Printf("Saved %d skills\n", len(assocs))
		return nil
	},
}

var profileSkillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Show your self-rated skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := requireRole(cmd, quiz.RoleEmployee)
		if err != nil {
			return err
		}
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		assocs, err := d.store.CandidateSkills(cmdContext(cmd), p.ID)
		if err != nil {
			return err
		}
		if len(assocs) == 0 {
			fmt.Println("No skills on your profile yet.")
			return nil
		}
		return printAssociations(cmd, d.store, "Level", assocs)
	},
}

func init() {
	profileCmd.AddCommand(profileAddSkillCmd)
	profileCmd.AddCommand(profileSkillsCmd)
}
