// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/session"
)

// logoutCmd represents the logout command for clearing authentication state.
// It removes the stored token from the OS keychain and attempts a best-effort
// remote logout; the local clear happens regardless of backend response.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the saved session token",
	Long: `The logout command clears the stored session from the OS keychain and
notifies the backend to invalidate the session (best-effort). Local logout
always succeeds, even when the backend is unreachable.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		_ = a.auth.Logout(cmd.Context())
		_ = a.store.SaveState(session.State{})

		pterm.Println("✅ Signed out. The saved session has been removed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
