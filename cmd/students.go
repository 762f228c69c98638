package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/profile"
)

var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "Manage student profiles",
}

var studentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		all, _ := cmd.Flags().GetBool("all")
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		list, err := rt.profiles.List(cmd.Context())
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		if len(list) == 0 {
			fmt.Fprintln(w, "No profiles yet.")
			return nil
		}
		fmt.Fprintf(w, "%-12s  %-20s  %-8s  %-13s  %6s  %5s  %s\n",
			"ID", "Name", "Role", "Rank", "XP", "Sync", "Last active")
		fmt.Fprintln(w, strings.Repeat("─", 90))
		for _, p := range list {
			if p.IsAdmin() && !all {
				continue
			}
			fmt.Fprintf(w, "%-12s  %-20s  %-8s  %-13s  %6d  %4d%%  %s\n",
				truncate(p.ID, 12), truncate(p.Name, 20), p.Role, p.RankLabel(),
				p.XP, p.SyncRate, humanize.Time(p.LastActiveAt))
		}
		return nil
	},
}

var studentsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		admin, _ := cmd.Flags().GetBool("admin")
		role := profile.RoleStudent
		if admin {
			role = profile.RoleAdmin
		}
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.profiles.Create(cmd.Context(), args[0], role)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created %s %q (%s)\n", p.Role, p.Name, p.ID)
		return nil
	},
}

var studentsShowCmd = &cobra.Command{
	Use:   "show <id-or-name>",
	Short: "Show a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.profiles.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "ID:          %s\n", p.ID)
		fmt.Fprintf(w, "Name:        %s\n", p.Name)
		fmt.Fprintf(w, "Role:        %s\n", p.Role)
		fmt.Fprintf(w, "Rank:        %s\n", p.RankDetail())
		fmt.Fprintf(w, "XP:          %s\n", humanize.Comma(int64(p.XP)))
		fmt.Fprintf(w, "Sync rate:   %d%%\n", p.SyncRate)
		fmt.Fprintf(w, "Streak:      %d (best %d)\n", p.Streak, p.BestStreak)
		fmt.Fprintf(w, "Joined:      %s\n", humanize.Time(p.CreatedAt))
		fmt.Fprintf(w, "Last active: %s\n", humanize.Time(p.LastActiveAt))
		if p.Calibrated {
			fmt.Fprintln(w, "Scores:")
			for _, c := range calibration.AllCategories() {
				fmt.Fprintf(w, "  %-13s %3d%%\n", c.DisplayName(), p.Scores[c])
			}
		}
		if len(p.Completed) > 0 {
			done := append([]string(nil), p.Completed...)
			sort.Strings(done)
			fmt.Fprintf(w, "Cleared:     %s\n", strings.Join(done, ", "))
		}
		if len(p.Badges) > 0 {
			fmt.Fprintf(w, "Badges:      %s\n", strings.Join(p.Badges, ", "))
		}
		return nil
	},
}

var studentsDeleteCmd = &cobra.Command{
	Use:   "delete <id-or-name>",
	Short: "Delete a profile and its history",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.profiles.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := rt.profiles.Delete(cmd.Context(), p.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q\n", p.Name)
		return nil
	},
}

var studentsResetCmd = &cobra.Command{
	Use:   "reset <id-or-name>",
	Short: "Reset a profile's rank, XP and badges",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		p, err := rt.profiles.Find(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if _, err := rt.profiles.Reset(cmd.Context(), p.ID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Reset %q\n", p.Name)
		return nil
	},
}

func init() {
	studentsListCmd.Flags().Bool("all", false, "Include admin profiles")
	studentsAddCmd.Flags().Bool("admin", false, "Create an admin profile")

	studentsCmd.AddCommand(studentsListCmd)
	studentsCmd.AddCommand(studentsAddCmd)
	studentsCmd.AddCommand(studentsShowCmd)
	studentsCmd.AddCommand(studentsDeleteCmd)
	studentsCmd.AddCommand(studentsResetCmd)
}
