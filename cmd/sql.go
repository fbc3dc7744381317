// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"queryforge/cli/internal/admin"
	"queryforge/cli/internal/console"
)

var (
	sqlExec    string
	sqlCSVOut  string
	sqlXLSXOut string
	sqlPerPage int
)

// sqlCmd is the SQL console. Without flags it opens an interactive prompt;
// with --exec it runs a single query and exits. All execution happens
// server-side through the admin endpoint, which validates queries and blocks
// dangerous keywords.
var sqlCmd = &cobra.Command{
	Use:   "sql",
	Short: "Run SQL against the admin console (admin only)",
	Long: `The sql command opens an interactive console against the backend's SQL
endpoint. Queries are validated and executed server-side; SELECT results come
back paginated.

Interactive commands:
  \n           next page of the current result
  \p           previous page
  \h           show query history (last 20 submissions)
  \export F    export the current result to F (.csv or .xlsx)
  \schema      show the database schema
  \templates   show canned query templates
  \q           quit

Use --exec for one-shot execution, optionally with --csv/--xlsx to export.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(ctx, adminOnly); err != nil {
			return swallowExpired(err)
		}

		perPage := sqlPerPage
		if perPage <= 0 {
			perPage = a.cfg.PerPage
		}
		con := console.New(a.client, perPage)

		if sqlExec != "" {
			return runOneShot(cmd, con, sqlExec)
		}
		return runConsole(cmd, a, con)
	},
}

func init() {
	sqlCmd.Flags().StringVarP(&sqlExec, "exec", "e", "", "Execute a single query and exit")
	sqlCmd.Flags().StringVar(&sqlCSVOut, "csv", "", "Write the result to a CSV file (with --exec)")
	sqlCmd.Flags().StringVar(&sqlXLSXOut, "xlsx", "", "Write the result to an Excel file (with --exec)")
	sqlCmd.Flags().IntVar(&sqlPerPage, "per-page", 0, "Rows per page (default from config)")
	sqlCmd.AddCommand(sqlSchemaCmd, sqlTemplatesCmd)
	rootCmd.AddCommand(sqlCmd)
}

func runOneShot(cmd *cobra.Command, con *console.Console, query string) error {
	if err := executeAndRender(cmd, con, query, 1); err != nil {
		return err
	}
	if sqlCSVOut != "" {
		if err := exportResult(con, sqlCSVOut); err != nil {
			return err
		}
	}
	if sqlXLSXOut != "" {
		if err := exportResult(con, sqlXLSXOut); err != nil {
			return err
		}
	}
	return nil
}

func runConsole(cmd *cobra.Command, a *app, con *console.Console) error {
	pterm.Printf("Connected to %s - type a query, or \\q to quit.\n", a.cfg.BaseURL)
	pterm.Println()

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("sql> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			// EOF (ctrl-d) ends the session
			fmt.Println()
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "\\") {
			done, err := runConsoleCommand(cmd, a, con, line)
			if err != nil {
				pterm.Printf("❌ %s\n", err)
			}
			if done {
				return nil
			}
			continue
		}

		if err := executeAndRender(cmd, con, line, 1); err != nil {
			return err
		}
	}
}

// runConsoleCommand handles backslash commands. It reports whether the
// session should end.
func runConsoleCommand(cmd *cobra.Command, a *app, con *console.Console, line string) (bool, error) {
	name, arg, _ := strings.Cut(line, " ")
	switch name {
	case `\q`, `\quit`, `\exit`:
		return true, nil
	case `\n`:
		return false, turnPage(cmd, con, con.NextPage, "next")
	case `\p`:
		return false, turnPage(cmd, con, con.PrevPage, "previous")
	case `\h`, `\history`:
		printHistory(con)
		return false, nil
	case `\export`:
		arg = strings.TrimSpace(arg)
		if arg == "" {
			return false, fmt.Errorf(`usage: \export FILE.csv|FILE.xlsx`)
		}
		return false, exportResult(con, arg)
	case `\schema`:
		return false, printSchema(cmd, a)
	case `\templates`:
		return false, printTemplates(cmd, a)
	default:
		return false, fmt.Errorf("unknown command %s", name)
	}
}

// turnPage re-runs the current query for an adjacent page. Running off
// either end of the result reads as "no next/previous page"; transport
// faults and session expiry keep their own handling instead of being
// mistaken for the end of the result set.
func turnPage(cmd *cobra.Command, con *console.Console, turn func(context.Context) error, direction string) error {
	if err := turn(cmd.Context()); err != nil {
		if errors.Is(err, console.ErrNoResult) {
			return fmt.Errorf("no %s page", direction)
		}
		return presentNetworkError(err, "fetching the "+direction+" page")
	}
	if con.State() == console.Failed {
		pterm.Printf("❌ %s\n", con.Err())
		return nil
	}
	renderResult(con)
	return nil
}

// executeAndRender runs one submission. Backend rejections (blocked keyword,
// syntax error) are rendered, not returned; only transport faults propagate.
func executeAndRender(cmd *cobra.Command, con *console.Console, query string, page int) error {
	cursor.Hide()
	stop := startInlineSpinner(os.Stdout, "Executing", spinnerFrames, 120*time.Millisecond)
	err := con.Execute(cmd.Context(), query, page)
	stop()
	cursor.Show()

	if err != nil {
		if err == console.ErrEmptyQuery {
			pterm.Println("❌ Query cannot be empty")
			return nil
		}
		return presentNetworkError(err, "executing the query")
	}
	if con.State() == console.Failed {
		pterm.Printf("❌ %s\n", con.Err())
		return nil
	}
	renderResult(con)
	return nil
}

func renderResult(con *console.Console) {
	result := con.Result()
	if result == nil {
		return
	}

	if !result.Tabular() {
		pterm.Printf("✅ %s", result.Message)
		if result.RowsAffected > 0 {
			pterm.Printf(" (%d row(s) affected)", result.RowsAffected)
		}
		pterm.Println()
		return
	}

	rows := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		cells := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			cells[i] = console.FormatValue(r[col])
		}
		rows = append(rows, cells)
	}
	renderTable(result.Columns, rows)

	pterm.Printf("%d row(s)", result.RowsReturned)
	if result.ServerTime > 0 {
		pterm.Printf(" in %.3fs server-side", result.ServerTime)
	}
	pterm.Printf(" (%s round trip)", con.Duration().Round(time.Millisecond))
	pterm.Println()
	p := result.Pagination
	if p.TotalPages > 1 {
		pterm.Printf("Page %d of %d - \\n next, \\p previous\n", p.Page, p.TotalPages)
	}
}

func printHistory(con *console.Console) {
	entries := con.History()
	if len(entries) == 0 {
		pterm.Println("No queries yet.")
		return
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		outcome := fmt.Sprintf("%d row(s)", e.RowCount)
		if !e.Success {
			outcome = "failed: " + e.Error
		}
		rows = append(rows, []string{
			e.Timestamp.Format("15:04:05"),
			truncate(e.Query, 60),
			outcome,
		})
	}
	renderTable([]string{"Time", "Query", "Outcome"}, rows)
}

func exportResult(con *console.Console, path string) error {
	switch {
	case strings.HasSuffix(path, ".xlsx"):
		if err := con.ExportXLSX(path); err != nil {
			return err
		}
	default:
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := con.ExportCSV(f); err != nil {
			return err
		}
	}
	pterm.Printf("💾 Exported to %s\n", path)
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// sqlSchemaCmd prints the introspected database schema.
var sqlSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Show the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(cmd.Context(), adminOnly); err != nil {
			return swallowExpired(err)
		}
		return printSchema(cmd, a)
	},
}

// sqlTemplatesCmd prints the canned query catalog.
var sqlTemplatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Show canned query templates",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		if _, err := a.requireUser(cmd.Context(), adminOnly); err != nil {
			return swallowExpired(err)
		}
		return printTemplates(cmd, a)
	},
}

func printSchema(cmd *cobra.Command, a *app) error {
	stop := startInlineSpinner(os.Stdout, "Fetching schema", spinnerFrames, 120*time.Millisecond)
	schema, err := admin.NewService(a.client).Schema(cmd.Context())
	stop()
	if err != nil {
		return presentNetworkError(err, "fetching the schema")
	}

	tables := make([]string, 0, len(schema))
	for table := range schema {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	for _, table := range tables {
		info := schema[table]
		pterm.DefaultSection.Println(table)
		rows := make([][]string, 0, len(info.Columns))
		for _, col := range info.Columns {
			flags := ""
			if col.PrimaryKey {
				flags = "PK"
			}
			if !col.Nullable {
				if flags != "" {
					flags += ", "
				}
				flags += "NOT NULL"
			}
			rows = append(rows, []string{col.Name, col.Type, flags})
		}
		renderTable([]string{"Column", "Type", "Flags"}, rows)
		for _, fk := range info.ForeignKeys {
			pterm.Printf("  FK %v → %s(%v)\n", fk.ConstrainedColumns, fk.ReferredTable, fk.ReferredColumns)
		}
	}
	return nil
}

func printTemplates(cmd *cobra.Command, a *app) error {
	templates, err := admin.NewService(a.client).Templates(cmd.Context())
	if err != nil {
		return presentNetworkError(err, "fetching templates")
	}
	categories := make([]string, 0, len(templates))
	for category := range templates {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	for _, category := range categories {
		pterm.DefaultSection.Println(strings.ReplaceAll(category, "_", " "))
		for _, tpl := range templates[category] {
			pterm.Printf("• %s - %s\n", pterm.Bold.Sprint(tpl.Name), tpl.Description)
			pterm.Printf("  %s\n", tpl.Query)
		}
	}
	return nil
}
