// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the QueryForge admin
// workbench. It implements subcommands for authentication, managed-entity
// administration, the SQL console and system statistics using the Cobra CLI
// framework, with a terminal UI built on pterm.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"queryforge/cli/internal/logging"
)

var (
	showVersion bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:           "qf",
	Short:         "QueryForge admin CLI for AI configuration management",
	Long:          `qf is the command-line workbench for a QueryForge backend: manage models, personas, agents, workflows and tools, administer users, and run SQL against the admin console.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Printf("qf %s\n", Version)
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application. Errors are masked before display so a
// failing request can never leak a token or password into the terminal.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, logging.Mask(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show version information")
}
