// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/auth"
)

// registerCmd creates a new account. New accounts are created inactive and
// unapproved; an administrator must approve them before login succeeds.
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new QueryForge account",
	Long: `The register command creates a new account on the configured backend.
You will be prompted for your name, email and a password. Passwords must be at
least 8 characters with upper and lower case letters, a digit and a special
character.

New accounts require administrator approval before they can sign in.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		first, err := promptLine("First name: ")
		if err != nil {
			return err
		}
		last, err := promptLine("Last name: ")
		if err != nil {
			return err
		}
		email, err := promptLine("Email: ")
		if err != nil {
			return err
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}
		confirm, err := promptPassword("Confirm password: ")
		if err != nil {
			return err
		}
		if password != confirm {
			pterm.Println("❌ Passwords do not match")
			return nil
		}

		result, err := a.auth.Register(cmd.Context(), auth.Profile{
			Email:     email,
			FirstName: first,
			LastName:  last,
			Password:  password,
		})
		if err != nil {
			return presentNetworkError(err, "registering your account")
		}
		if !result.OK {
			pterm.Printf("❌ Registration failed: %s\n", result.Err)
			return nil
		}

		pterm.Println("✅ Account created.")
		pterm.Println("   An administrator must approve it before you can sign in.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
