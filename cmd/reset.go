// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var resetToken string

// resetCmd requests or completes a password reset. Without --token it asks
// the backend to send a reset link; with --token it redeems the token for a
// new password.
var resetCmd = &cobra.Command{
	Use:   "reset [email]",
	Short: "Request or complete a password reset",
	Long: `The reset command starts or finishes a password reset.

Without --token, it asks the backend to send a reset link to the given email.
The backend answers identically whether or not the address exists.

With --token, it redeems the reset token for a new password.`,
	Args: cobra.MaximumNArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		if resetToken != "" {
			newPassword, err := promptPassword("New password: ")
			if err != nil {
				return err
			}
			result, err := a.auth.CompletePasswordReset(ctx, resetToken, newPassword)
			if err != nil {
				return presentNetworkError(err, "resetting your password")
			}
			if !result.OK {
				pterm.Printf("❌ %s\n", result.Err)
				return nil
			}
			pterm.Println("✅ Password reset. You can sign in with the new password.")
			return nil
		}

		email := ""
		if len(args) == 1 {
			email = args[0]
		} else {
			email, err = promptLine("Email: ")
			if err != nil {
				return err
			}
		}
		result, err := a.auth.RequestPasswordReset(ctx, email)
		if err != nil {
			return presentNetworkError(err, "requesting a password reset")
		}
		if !result.OK {
			pterm.Printf("❌ %s\n", result.Err)
			return nil
		}
		pterm.Println("📬 If that address exists, a reset link is on its way.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().StringVar(&resetToken, "token", "", "Reset token from the email link")
}
