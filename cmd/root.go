package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-scout/internal/config"
)

var cfg *config.Config

// Persistent overrides applied on top of the loaded config.
var (
	storeDriver string
	aiProvider  string
	logLevel    string
)

var rootCmd = &cobra.Command{
	Use:   "lead-scout",
	Short: "AI-assisted local business lead discovery",
	Long:  "Asks a generative model for businesses in a niche and location, extracts and scores them as leads, deduplicates them into a local store and tracks them through a sales pipeline.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		applyOverrides(c)
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}
		zap.L().Debug("config loaded",
			zap.String("command", cmd.CommandPath()),
			zap.String("store", cfg.Store.Driver),
			zap.String("provider", cfg.AI.Provider),
		)
		return nil
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

// applyOverrides copies non-empty persistent flags into c.
func applyOverrides(c *config.Config) {
	if storeDriver != "" {
		c.Store.Driver = storeDriver
	}
	if aiProvider != "" {
		c.AI.Provider = aiProvider
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&storeDriver, "store", "", "store backend override (sqlite, postgres, memory)")
	pf.StringVar(&aiProvider, "provider", "", "text provider override (anthropic, openai, perplexity)")
	pf.StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
