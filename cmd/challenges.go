package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/syncrate/internal/challenges"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List, show and submit coding challenges",
}

var challengesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the challenge catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%-18s  %-24s  %-12s  %-6s  %4s\n", "ID", "Title", "Category", "Level", "XP")
		fmt.Fprintln(w, strings.Repeat("─", 72))
		for _, ch := range challenges.Catalog() {
			fmt.Fprintf(w, "%-18s  %-24s  %-12s  %-6s  %4d\n",
				ch.ID, truncate(ch.Title, 24), ch.Category.DisplayName(), ch.Difficulty, ch.XP)
		}
		return nil
	},
}

var challengesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a challenge prompt and its starter code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := challenges.Get(args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s (%s, %s, %d XP)\n\n", ch.Title, ch.Category.DisplayName(), ch.Difficulty, ch.XP)
		fmt.Fprintln(w, ch.Prompt)
		if ch.Expected != "" {
			fmt.Fprintf(w, "Expected structure: %s\n", ch.Expected)
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, ch.StarterCode())
		return nil
	},
}

var challengesSubmitCmd = &cobra.Command{
	Use:   "submit <id> <file>",
	Short: "Grade a solution file against a challenge",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ch, err := challenges.Get(args[0])
		if err != nil {
			return err
		}
		code, err := readSource(cmd, args[1])
		if err != nil {
			return err
		}

		out := challenges.Evaluate(ch, code)
		w := cmd.OutOrStdout()
		if out.Passed {
			fmt.Fprintf(w, "✓ %s cleared\n", ch.Title)
		} else {
			fmt.Fprintf(w, "✗ %s not cleared\n", ch.Title)
		}
		if out.Feedback != nil {
			printResult(w, out.Feedback)
		}

		student, _ := cmd.Flags().GetString("student")
		if student == "" {
			return nil
		}

		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.profiles.Find(cmd.Context(), student)
		if err != nil {
			return fmt.Errorf("find student: %w", err)
		}
		u, err := rt.profiles.RecordSubmission(cmd.Context(), p.ID, ch, out)
		if err != nil {
			return fmt.Errorf("record submission: %w", err)
		}
		if u.FirstClear {
			fmt.Fprintf(w, "+%d XP (total %d)\n", u.XPAwarded, u.Profile.XP)
		}
		for _, b := range u.NewBadges {
			fmt.Fprintf(w, "%s badge unlocked: %s (%s)\n", b.Icon, b.Name, b.Rarity.DisplayName())
		}
		fmt.Fprintf(w, "Sync rate: %d%%\n", u.Profile.SyncRate)
		return nil
	},
}

func init() {
	challengesSubmitCmd.Flags().String("student", "", "Record the submission for this profile")

	challengesCmd.AddCommand(challengesListCmd)
	challengesCmd.AddCommand(challengesShowCmd)
	challengesCmd.AddCommand(challengesSubmitCmd)
}
