// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

const redacted = "<redacted>"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Config prints the configuration after merging defaults, the config file,
PAPER_GRAPH_* environment variables and flags. API keys are redacted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := appConfig
		if cfg.AI.APIKey != "" {
			cfg.AI.APIKey = redacted
		}
		if cfg.Web.APIKey != "" {
			cfg.Web.APIKey = redacted
		}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
