// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/admin"
	"queryforge/cli/internal/auth"
	"queryforge/cli/internal/entity"
)

// usersCmd groups user administration: list, approve and role assignment.
// All of it is admin-only; the backend enforces that on every route and the
// CLI checks up front to fail with a clear message.
var usersCmd = &cobra.Command{
	Use:     "user",
	Aliases: []string{"users"},
	Short:   "Administer user accounts (admin only)",
}

var (
	usersPage   int
	usersSearch string
	usersRole   string
)

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List user accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(ctx, adminOnly); err != nil {
			return swallowExpired(err)
		}

		ctrl := entity.NewController[auth.User](a.client, entity.Users)
		opts := entity.ListOptions{
			Page:    usersPage,
			PerPage: a.cfg.PerPage,
			Search:  usersSearch,
			Filters: map[string]string{},
		}
		if usersRole != "" {
			opts.Filters["role"] = usersRole
		}

		stop := startInlineSpinner(os.Stdout, "Fetching users", spinnerFrames, 120*time.Millisecond)
		result, err := ctrl.List(ctx, opts)
		stop()
		if err != nil {
			return presentNetworkError(err, "listing users")
		}
		if len(result.Items) == 0 {
			pterm.Println("No users found.")
			return nil
		}

		rows := make([][]string, 0, len(result.Items))
		for _, u := range result.Items {
			rows = append(rows, []string{
				strconv.Itoa(u.ID), u.Email, u.FullName, u.Role,
				yesNo(u.IsActive), yesNo(u.IsApproved), u.LastLogin,
			})
		}
		renderTable([]string{"ID", "Email", "Name", "Role", "Active", "Approved", "Last Login"}, rows)
		printPagination(result.Pagination)
		return nil
	},
}

var usersApproveCmd = &cobra.Command{
	Use:   "approve ID",
	Short: "Approve a pending user account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(ctx, adminOnly); err != nil {
			return swallowExpired(err)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}

		ctrl := entity.NewController[auth.User](a.client, entity.Users)
		if err := ctrl.Approve(ctx, id); err != nil {
			return swallowExpired(err)
		}
		pterm.Printf("✅ User %d approved\n", id)
		return nil
	},
}

var usersRoleCmd = &cobra.Command{
	Use:   "set-role ID ROLE",
	Short: "Assign a role to a user",
	Long: `Assign one of the backend roles (Admin, Developer, "Business User") to a
user account. The change is recorded in the backend audit log.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(ctx, adminOnly); err != nil {
			return swallowExpired(err)
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid id %q", args[0])
		}
		role := strings.TrimSpace(args[1])

		msg, err := admin.NewService(a.client).SetUserRole(ctx, id, role)
		if err != nil {
			return swallowExpired(err)
		}
		pterm.Printf("✅ %s\n", msg)
		return nil
	},
}

func init() {
	usersListCmd.Flags().IntVar(&usersPage, "page", 1, "Page to fetch")
	usersListCmd.Flags().StringVarP(&usersSearch, "search", "s", "", "Search by email or name")
	usersListCmd.Flags().StringVar(&usersRole, "role", "", "Filter by role name")
	usersCmd.AddCommand(usersListCmd, usersApproveCmd, usersRoleCmd)
	rootCmd.AddCommand(usersCmd)
}
