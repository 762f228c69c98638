package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/app"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/screen"
	"github.com/abhisek/syncrate/internal/screens/calibrate"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Sign in and open the TUI at home",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("student")
		admin, _ := cmd.Flags().GetBool("admin")
		return runTUI(cmd, name, admin, nil)
	},
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Take the timed calibration quiz",
	Long:  "Take the timed calibration quiz. Without --student the run is anonymous and nothing is recorded.",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("student")
		return runTUI(cmd, name, false, func(env *screen.Env) screen.Screen {
			return calibrate.New(env)
		})
	},
}

// runTUI opens the store and starts the Bubble Tea program. With a name
// the profile is signed in first and the app starts at home, with open
// pushed on top when given.
func runTUI(cmd *cobra.Command, name string, admin bool, open app.Opener) error {
	if err := logToFile(); err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	rt, err := openRuntime(cmd, true)
	if err != nil {
		return err
	}
	defer rt.Close()

	env := &screen.Env{
		Profiles:    rt.profiles,
		Diagnostics: rt.diagnostics,
		Analytics:   rt.analytics,
		Events:      rt.store.EventRepo(),
		Refresh:     cfg.Dashboard.Refresh,
	}

	if name != "" {
		role := profile.RoleStudent
		if admin {
			role = profile.RoleAdmin
		}
		p, created, err := rt.profiles.SignIn(cmd.Context(), name, role)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		logger.Get().Info("signed in",
			zap.String("profile", p.ID),
			zap.String("role", string(p.Role)),
			zap.Bool("created", created))
		env.Current = p
	}

	return app.Run(env, open)
}

func init() {
	playCmd.Flags().String("student", "", "Profile name to sign in as")
	playCmd.Flags().Bool("admin", false, "Sign in with the admin role")
	calibrateCmd.Flags().String("student", "", "Record the result for this profile")
}
