// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/config"
)

var (
	configURL     string
	configPerPage int
)

// configCmd shows or updates the stored CLI configuration. Only non-secret
// settings live here; the session token is in the OS keychain.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update CLI configuration",
	Long: `The config command shows the current configuration, or updates it when
--url or --per-page is given. The QUERYFORGE_URL environment variable
overrides the stored URL without changing it.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		changed := false
		if configURL != "" {
			cfg.BaseURL = strings.TrimRight(configURL, "/")
			changed = true
		}
		if configPerPage > 0 {
			cfg.PerPage = configPerPage
			changed = true
		}
		if changed {
			if err := config.Save(cfg); err != nil {
				return err
			}
			pterm.Println("✅ Configuration saved")
		}

		renderTable([]string{"Setting", "Value"}, [][]string{
			{"Server URL", cfg.BaseURL},
			{"Items per page", strconv.Itoa(cfg.PerPage)},
			{"Log level", cfg.LogLevel},
		})
		return nil
	},
}

func init() {
	configCmd.Flags().StringVar(&configURL, "url", "", "Backend base URL")
	configCmd.Flags().IntVar(&configPerPage, "per-page", 0, "Default items per page")
	rootCmd.AddCommand(configCmd)
}
