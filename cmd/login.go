// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"queryforge/cli/internal/httperrors"
	"queryforge/cli/internal/session"
)

var loginEmail string

// loginCmd represents the login command for credential authentication.
// It prompts for email and password (the password with echo disabled),
// exchanges them for a bearer token and stores it in the OS keychain.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in to the QueryForge backend",
	Long: `The login command authenticates against the configured QueryForge backend
with your email and password. On success the session token is stored securely
in the OS keychain and used by every subsequent command.

If already logged in with a valid session, the existing session is replaced.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}

		pterm.Printf("Signing in to %s\n", httperrors.ExtractHostFromURL(a.cfg.BaseURL))

		email := strings.TrimSpace(loginEmail)
		if email == "" {
			email, err = promptLine("Email: ")
			if err != nil {
				return err
			}
		}
		password, err := promptPassword("Password: ")
		if err != nil {
			return err
		}

		stopSpinner := startInlineSpinner(os.Stdout, "Signing in", spinnerFrames, 120*time.Millisecond)
		result, err := a.auth.Login(ctx, email, password)
		stopSpinner()
		if err != nil {
			return presentNetworkError(err, "signing in")
		}
		if !result.OK {
			pterm.Printf("❌ Login failed: %s\n", result.Err)
			return nil
		}

		// Snapshot who logged in so whoami can answer offline
		_ = a.store.SaveState(session.State{
			LoggedIn: true,
			Email:    result.User.Email,
			Role:     result.User.Role,
		})

		name := result.User.FirstName
		if name == "" {
			name = result.User.Email
		}
		pterm.Printf("🎉 Welcome back, %s!\n", name)
		pterm.Printf("   Signed in as %s (%s)\n", result.User.Email, result.User.Role)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "Email address to sign in with")
}

// promptLine reads one trimmed line from stdin.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password with terminal echo disabled. When stdin is
// not a terminal (tests, pipes) it falls back to a plain line read.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return promptLine("")
	}
	raw, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
