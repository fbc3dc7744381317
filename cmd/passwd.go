// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// passwdCmd changes the password of the signed-in account.
var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change your account password",
	Long: `The passwd command changes the password of the currently signed-in
account. You are asked for the current password and the new one; the new
password must meet the backend's strength rules.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, ok := a.store.Token(); !ok {
			printNotLoggedIn()
			return nil
		}

		oldPassword, err := promptPassword("Current password: ")
		if err != nil {
			return err
		}
		newPassword, err := promptPassword("New password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm new password: ")
		if err != nil {
			return err
		}
		if newPassword != confirm {
			pterm.Println("❌ Passwords do not match")
			return nil
		}

		result, err := a.auth.ChangePassword(cmd.Context(), oldPassword, newPassword)
		if err != nil {
			return presentNetworkError(err, "changing your password")
		}
		if !result.OK {
			pterm.Printf("❌ %s\n", result.Err)
			return nil
		}
		pterm.Println("✅ Password changed.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(passwdCmd)
}
