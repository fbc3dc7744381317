// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"os"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/admin"
)

// statsCmd shows the system statistics snapshot: user counts and recent
// audit activity.
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show system statistics (admin only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(ctx, adminOnly); err != nil {
			return swallowExpired(err)
		}

		stop := startInlineSpinner(os.Stdout, "Fetching statistics", spinnerFrames, 120*time.Millisecond)
		stats, err := admin.NewService(a.client).Stats(ctx)
		stop()
		if err != nil {
			return presentNetworkError(err, "fetching statistics")
		}

		renderTable([]string{"Metric", "Value"}, [][]string{
			{"Users total", strconv.Itoa(stats.Users.Total)},
			{"Users active", strconv.Itoa(stats.Users.Active)},
			{"Users pending approval", strconv.Itoa(stats.Users.PendingApproval)},
			{"Activity last 24h", strconv.Itoa(stats.RecentActivity.Last24h)},
			{"Activity last 7d", strconv.Itoa(stats.RecentActivity.Last7d)},
		})
		if stats.Users.PendingApproval > 0 {
			pterm.Printf("⏳ %d account(s) waiting for approval - see 'qf user list'\n", stats.Users.PendingApproval)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
