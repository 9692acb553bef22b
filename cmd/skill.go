package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/skillcheck/internal/quiz"
	"github.com/abhisek/skillcheck/internal/skill"
	"github.com/abhisek/skillcheck/internal/store"
)

var skillCmd = &cobra.Command{
	Use:   "skill",
	Short: "Manage the skill catalog",
}

var skillAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a skill to the catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		desc, _ := cmd.Flags().GetString("description")

		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		sk := skill.Skill{ID: uuid.NewString(), Name: strings.TrimSpace(args[0]), Description: desc}
		if sk.Name == "" {
			return errors.New("skill name is required")
		}
		if err := d.store.CreateSkill(cmdContext(cmd), sk); err != nil {
			return err
		}
		fmt.Printf("Added skill %s (%s)\n", sk.Name, sk.ID)
		return nil
	},
}

var skillListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all skills",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, nil)
		if err != nil {
			return err
		}
		defer d.Close()

		skills, err := d.store.ListSkills(cmdContext(cmd))
		if err != nil {
			return err
		}
		if len(skills) == 0 {
			fmt.Println("No skills yet. Add one with: skillcheck skill add <name>")
			return nil
		}

		fmt.Printf("%-36s  %-24s  %s\n", "ID", "Name", "Description")
		fmt.Println(strings.Repeat("─", 100))
		for _, s := range skills {
			fmt.Printf("%-36s  %-24s  %s\n", s.ID, truncate(s.Name, 24), truncate(s.Description, 36))
		}
		fmt.Printf("\n%d skills\n", len(skills))
		return nil
	},
}

// parseSkillLevels turns "name=level" arguments into associations for
// subjectID. Skills are looked up by name.
func parseSkillLevels(cmd *cobra.Command, st *store.Store, subjectID string, args []string) ([]skill.Association, error) {
	out := make([]skill.Association, 0, len(args))
	for _, arg := range args {
		name, rawLevel, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=level, got %q", arg)
		}
		level, err := strconv.Atoi(rawLevel)
		if err != nil {
			return nil, fmt.Errorf("level of %q: %w", name, err)
		}
		sk, err := st.SkillByName(cmdContext(cmd), strings.TrimSpace(name))
		if err != nil {
			if errors.Is(err, quiz.ErrNotFound) {
				return nil, fmt.Errorf("unknown skill %q", name)
			}
			return nil, err
		}
		a := skill.Association{SkillID: sk.ID, SubjectID: subjectID, Level: skill.Level(level)}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// printAssociations lists associations with skill names resolved.
func printAssociations(cmd *cobra.Command, st *store.Store, heading string, assocs []skill.Association) error {
	ids := make([]string, len(assocs))
	for i, a := range assocs {
		ids[i] = a.SkillID
	}
	skills, err := st.Skills(cmdContext(cmd), ids)
	if err != nil {
		return err
	}

	fmt.Printf("%-24s  %5s  %s\n", "Skill", heading, "Band")
	fmt.Println(strings.Repeat("─", 48))
	for _, a := range assocs {
		name := a.SkillID
		if sk, ok := skills[a.SkillID]; ok {
			name = sk.Name
		}
		fmt.Printf("%-24s  %5d  %s\n", truncate(name, 24), a.Level, a.Level.Label())
	}
	return nil
}

func init() {
	skillAddCmd.Flags().StringP("description", "d", "", "Short description used in question prompts")

	skillCmd.AddCommand(skillAddCmd)
	skillCmd.AddCommand(skillListCmd)
}
