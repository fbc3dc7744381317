// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/api"
)

// whoamiCmd displays the current authenticated account by resolving the
// session against the backend. When the backend is unreachable it falls back
// to the snapshot saved at login.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show the current authenticated account",
	Long: `The whoami command resolves the current session against the backend and
shows the account it belongs to, including role and session expiry.

If no valid session exists, it will indicate that you are not logged in. When
the backend is unreachable, it falls back to the locally saved snapshot from
your last login.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		if _, ok := a.store.Token(); !ok {
			printNotLoggedIn()
			return nil
		}

		user, err := a.auth.CurrentUser(ctx)
		if err != nil {
			if errors.Is(err, api.ErrSessionExpired) {
				return nil
			}
			// Offline fallback: report what the backend last told us
			if st, stateErr := a.store.LoadState(); stateErr == nil && st.LoggedIn {
				pterm.Printf("👤 %s (%s) (last known, backend unreachable)\n", st.Email, st.Role)
				return nil
			}
			return presentNetworkError(err, "resolving your session")
		}
		if user == nil {
			printNotLoggedIn()
			return nil
		}

		pterm.Printf("👤 %s", user.Email)
		if user.FullName != "" {
			pterm.Printf(" (%s)", user.FullName)
		}
		pterm.Println()
		pterm.Printf("   Role: %s\n", user.Role)
		if len(user.Permissions) > 0 {
			pterm.Printf("   Permissions: %v\n", user.Permissions)
		}
		if exp, err := a.auth.SessionExpiry(); err == nil {
			remaining := time.Until(exp).Round(time.Minute)
			if remaining > 0 {
				pterm.Printf("   Session expires in %s\n", formatDuration(remaining))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func printNotLoggedIn() {
	pterm.Println("🔒 You're not logged in yet!")
	pterm.Println("   Run 'qf login' to get started.")
}

func formatDuration(d time.Duration) string {
	if d >= time.Hour {
		return fmt.Sprintf("%dh%02dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dm", int(d.Minutes()))
}
