// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/entity"
)

// newEntityCommand builds the full command family for one managed entity
// kind: list, get, create, update, delete, duplicate, enable and disable.
// The five entity commands differ only in descriptor and table layout, so
// one builder produces them all.
func newEntityCommand[T any](use, plural string, desc entity.Descriptor, headers []string, row func(T) []string) *cobra.Command {
	parent := &cobra.Command{
		Use:     use,
		Aliases: []string{plural},
		Short:   "Manage " + plural,
	}

	var (
		listPage    int
		listPerPage int
		listSearch  string
		listFilters []string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List " + plural,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if _, ok := a.store.Token(); !ok {
				printNotLoggedIn()
				return nil
			}
			ctrl := entity.NewController[T](a.client, desc)

			perPage := listPerPage
			if perPage <= 0 {
				perPage = a.cfg.PerPage
			}
			opts := entity.ListOptions{
				Page:    listPage,
				PerPage: perPage,
				Search:  listSearch,
				Filters: map[string]string{},
			}
			for _, f := range listFilters {
				k, v, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid filter %q, expected key=value", f)
				}
				opts.Filters[k] = v
			}

			stop := startInlineSpinner(os.Stdout, "Fetching "+plural, spinnerFrames, 120*time.Millisecond)
			result, err := ctrl.List(cmd.Context(), opts)
			stop()
			if err != nil {
				return presentNetworkError(err, "listing "+plural)
			}
			if len(result.Items) == 0 {
				pterm.Printf("No %s found.\n", plural)
				return nil
			}
			rows := make([][]string, 0, len(result.Items))
			for _, item := range result.Items {
				rows = append(rows, row(item))
			}
			renderTable(headers, rows)
			printPagination(result.Pagination)
			return nil
		},
	}
	list.Flags().IntVar(&listPage, "page", 1, "Page to fetch")
	list.Flags().IntVar(&listPerPage, "per-page", 0, "Items per page (default from config)")
	list.Flags().StringVarP(&listSearch, "search", "s", "", "Search term")
	list.Flags().StringArrayVarP(&listFilters, "filter", "f", nil, "Filter as key=value (repeatable), e.g. -f status=active")

	get := &cobra.Command{
		Use:   "get ID",
		Short: "Show one " + desc.Name + " in full",
		Args:  cobra.ExactArgs(1),
		RunE: runEntityAction(func(a *app, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctrl := entity.NewController[T](a.client, desc)
			item, err := ctrl.Get(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printItem(item)
		}),
	}

	var createSets []string
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a " + desc.Name,
		Long: fmt.Sprintf(`Create a %s from --set key=value pairs. Values that parse as JSON
(numbers, booleans, objects, arrays) are sent typed; everything else is sent
as a string. Required fields: %s.`, desc.Name, strings.Join(desc.Required, ", ")),
		RunE: runEntityAction(func(a *app, cmd *cobra.Command, args []string) error {
			payload, err := parseSetFlags(createSets)
			if err != nil {
				return err
			}
			ctrl := entity.NewController[T](a.client, desc)
			item, err := ctrl.Create(cmd.Context(), payload)
			if err != nil {
				return err
			}
			pterm.Printf("✅ %s created\n", title(desc.Name))
			return printItem(item)
		}),
	}
	create.Flags().StringArrayVar(&createSets, "set", nil, "Field as key=value (repeatable)")

	var updateSets []string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Update fields of a " + desc.Name,
		Args:  cobra.ExactArgs(1),
		RunE: runEntityAction(func(a *app, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			payload, err := parseSetFlags(updateSets)
			if err != nil {
				return err
			}
			if len(payload) == 0 {
				return fmt.Errorf("nothing to update, pass at least one --set key=value")
			}
			ctrl := entity.NewController[T](a.client, desc)
			item, err := ctrl.Update(cmd.Context(), id, payload)
			if err != nil {
				return err
			}
			pterm.Printf("✅ %s updated\n", title(desc.Name))
			return printItem(item)
		}),
	}
	update.Flags().StringArrayVar(&updateSets, "set", nil, "Field as key=value (repeatable)")

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + desc.Name,
		Args:  cobra.ExactArgs(1),
		RunE: runEntityAction(func(a *app, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctrl := entity.NewController[T](a.client, desc)
			if err := ctrl.Delete(cmd.Context(), id); err != nil {
				return err
			}
			pterm.Printf("🗑️  %s %d deleted\n", title(desc.Name), id)
			return nil
		}),
	}

	duplicate := &cobra.Command{
		Use:   "duplicate ID",
		Short: "Clone a " + desc.Name + " server-side",
		Args:  cobra.ExactArgs(1),
		RunE: runEntityAction(func(a *app, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctrl := entity.NewController[T](a.client, desc)
			item, err := ctrl.Duplicate(cmd.Context(), id)
			if err != nil {
				return err
			}
			pterm.Printf("✅ %s duplicated\n", title(desc.Name))
			return printItem(item)
		}),
	}

	parent.AddCommand(list, get, create, update, del, duplicate,
		newToggleCommand[T]("enable", desc, true),
		newToggleCommand[T]("disable", desc, false))
	return parent
}

func newToggleCommand[T any](verb string, desc entity.Descriptor, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " ID",
		Short: title(verb) + " a " + desc.Name,
		Args:  cobra.ExactArgs(1),
		RunE: runEntityAction(func(a *app, cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}
			ctrl := entity.NewController[T](a.client, desc)
			if err := ctrl.Toggle(cmd.Context(), id, active); err != nil {
				return err
			}
			pterm.Printf("✅ %s %d %sd\n", title(desc.Name), id, verb)
			return nil
		}),
	}
}

// runEntityAction wires the shared preamble: app construction and the
// session-presence check. A session that expires mid-action is already
// announced by the expiry hook, so the sentinel is not surfaced again.
func runEntityAction(fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, ok := a.store.Token(); !ok {
			printNotLoggedIn()
			return nil
		}
		return swallowExpired(fn(a, cmd, args))
	}
}

// parseSetFlags turns repeated key=value pairs into a payload. Values that
// parse as JSON are sent typed, everything else as a string.
func parseSetFlags(sets []string) (map[string]any, error) {
	payload := make(map[string]any, len(sets))
	for _, s := range sets {
		k, v, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected key=value", s)
		}
		var typed any
		if err := json.Unmarshal([]byte(v), &typed); err == nil {
			payload[k] = typed
		} else {
			payload[k] = v
		}
	}
	return payload, nil
}

// printItem renders one entity as indented JSON.
func printItem(item any) error {
	b, err := json.MarshalIndent(item, "", "  ")
	if err != nil {
		return err
	}
	pterm.Println(string(b))
	return nil
}
