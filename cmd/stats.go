package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/syncrate/internal/screens/dashboard"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the analytics overview",
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		rt, err := openRuntime(cmd, false)
		if err != nil {
			return err
		}
		defer rt.Close()

		o, err := rt.analytics.Overview(cmd.Context())
		if err != nil {
			return fmt.Errorf("build overview: %w", err)
		}
		w := cmd.OutOrStdout()
		if asJSON {
			return printJSON(w, o)
		}

		const width = 72
		for _, section := range []string{
			dashboard.RenderVitals(o),
			dashboard.RenderRanks(o, width),
			dashboard.RenderCategories(o, width),
			dashboard.RenderDiagnostics(o),
			dashboard.RenderLeaderboard(o),
		} {
			fmt.Fprintln(w, section)
			fmt.Fprintln(w)
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "Print the overview as JSON")
}
