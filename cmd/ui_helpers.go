package cmd

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"queryforge/cli/internal/entity"
)

// startInlineSpinner starts a simple inline spinner animation on a single
// line. The spinner runs in a separate goroutine and is stopped by calling
// the returned function, which also clears the line.
func startInlineSpinner(w io.Writer, text string, frames []string, interval time.Duration) func() {
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		i := 0
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				// Clear the spinner line completely, then return
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				line := fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
				i++
			}
		}
	}()
	return func() {
		close(stop)
		wg.Wait()
	}
}

var spinnerFrames = []string{"|", "/", "-", "\\"}

// renderTable prints a header row plus data rows with pterm.
func renderTable(headers []string, rows [][]string) {
	data := pterm.TableData{headers}
	data = append(data, rows...)
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

// printPagination shows the list footer: current position and how to move.
func printPagination(p entity.Pagination) {
	if p.TotalPages <= 1 {
		return
	}
	pterm.Printf("Page %d of %d (%d total)", p.Page, p.TotalPages, p.Total)
	if p.HasNext() {
		pterm.Printf("  •  next: --page %d", p.Page+1)
	}
	if p.HasPrev() {
		pterm.Printf("  •  prev: --page %d", p.Page-1)
	}
	pterm.Println()
}

// title upper-cases the first letter for message prefixes.
func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// yesNo renders a boolean for table cells.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
