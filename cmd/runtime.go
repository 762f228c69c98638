package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/syncrate/internal/analytics"
	"github.com/abhisek/syncrate/internal/diagnostics"
	"github.com/abhisek/syncrate/internal/llm"
	"github.com/abhisek/syncrate/internal/logger"
	"github.com/abhisek/syncrate/internal/profile"
	"github.com/abhisek/syncrate/internal/store"
)

// runtime holds the services one command works with.
type runtime struct {
	store       *store.Store
	profiles    *profile.Service
	diagnostics *diagnostics.Service
	analytics   *analytics.Service
	provider    llm.Provider
}

// openRuntime opens the store and builds the services on top of it. With
// withLLM set it also builds the configured provider; a provider that fails
// to initialize only disables AI review.
func openRuntime(cmd *cobra.Command, withLLM bool) (*runtime, error) {
	st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}

	rt := &runtime{store: st}
	events := st.EventRepo()
	if withLLM && cfg.LLMEnabled() {
		p, err := llm.NewProvider(cmd.Context(), cfg.LLM, events)
		if err != nil {
			logger.Get().Warn("LLM provider not configured; AI review unavailable", zap.Error(err))
			fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		} else {
			rt.provider = p
		}
	}

	rt.profiles = profile.NewService(st.ProfileRepo(), events)
	rt.diagnostics = diagnostics.NewService(rt.provider, events)
	rt.analytics = analytics.NewService(st.ProfileRepo(), events, analytics.Options{})
	return rt, nil
}

func (r *runtime) Close() {
	r.diagnostics.Close()
	if err := r.store.Close(); err != nil {
		logger.Get().Warn("close store", zap.Error(err))
	}
}

// logToFile redirects console logging into the data directory so it does
// not draw over the TUI.
func logToFile() error {
	if cfg.Log.Output != "" && cfg.Log.Output != "stderr" && cfg.Log.Output != "stdout" {
		return nil
	}
	dir, err := store.DataDir()
	if err != nil {
		return err
	}
	lc := cfg.Log
	lc.Output = filepath.Join(dir, "syncrate.log")
	return logger.Initialize(lc)
}
