package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/lead-scout/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration as YAML with secrets masked",
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(maskSecrets(*cfg)); err != nil {
			return eris.Wrap(err, "config show")
		}
		return enc.Close()
	},
}

// maskSecrets returns a copy of c with credentials replaced.
func maskSecrets(c config.Config) config.Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		if len(s) <= 8 {
			return "****"
		}
		return s[:4] + "****"
	}
	c.Anthropic.Key = mask(c.Anthropic.Key)
	c.OpenAI.Key = mask(c.OpenAI.Key)
	c.Perplexity.Key = mask(c.Perplexity.Key)
	c.Google.PlacesKey = mask(c.Google.PlacesKey)
	c.Notion.Token = mask(c.Notion.Token)
	if c.Store.DatabaseURL != "" {
		c.Store.DatabaseURL = "****"
	}
	return c
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd)
}
