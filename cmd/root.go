package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/syncrate/internal/achievements"
	"github.com/abhisek/syncrate/internal/calibration"
	"github.com/abhisek/syncrate/internal/challenges"
	"github.com/abhisek/syncrate/internal/config"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/store"
)

// version is set via -ldflags at build time.
var version = "(devel)"

// cfg is loaded once per invocation in PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "syncrate",
	Short: "Coding-skill calibration and code diagnostics in the terminal",
	Long: "Syncrate calibrates a student's coding level with a timed quiz, " +
		"diagnoses submitted C# code and tracks progress through challenges and badges.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("config")
		c, err := config.Load(path)
		if err != nil {
			return err
		}
		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			c.Log.Level = lvl
		}
		cfg = c
		return logger.Initialize(cfg.Log)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, "", false, nil)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and bundled content",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "syncrate", version)
		fmt.Fprintf(out, "  %d calibration questions, %d challenges, %d badges\n",
			len(calibration.DefaultBank()), len(challenges.Catalog()), len(achievements.Catalog()))
	},
}

// Execute runs the root command; ctx is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SYNCRATE_DB)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(calibrateCmd)
	rootCmd.AddCommand(diagnoseCmd)
	rootCmd.AddCommand(challengesCmd)
	rootCmd.AddCommand(studentsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then the db config key or SYNCRATE_DB, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
