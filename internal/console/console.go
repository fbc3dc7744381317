// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package console implements the SQL query console: free-form query
// submission against the server-validated /api/admin/sql/execute endpoint,
// pagination of tabular results, bounded local history, and CSV/XLSX export
// of the fetched rows. No query planning or execution happens client-side;
// the backend owns validation, the keyword blocklist and pagination.
package console

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"queryforge/cli/internal/api"
	"queryforge/cli/internal/entity"
)

// ErrEmptyQuery is the local validation failure for a blank submission;
// no request is issued.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ErrNoResult marks operations that need a loaded result set (export, page
// turns) when none is displayed.
var ErrNoResult = errors.New("no result set loaded")

// State is the console's execution state.
type State int

const (
	Idle State = iota
	Executing
	Succeeded
	Failed
)

// Result is one page of a query's outcome. Tabular queries fill Columns and
// Rows; non-SELECT statements fill Message and RowsAffected instead.
type Result struct {
	Columns      []string          `json:"columns"`
	Rows         []map[string]any  `json:"data"`
	RowsReturned int               `json:"rows_returned"`
	Pagination   entity.Pagination `json:"pagination"`
	QueryType    string            `json:"query_type"`
	ServerTime   float64           `json:"execution_time"`
	Message      string            `json:"message"`
	RowsAffected int               `json:"rows_affected"`
}

// Tabular reports whether the result carries rows to render or export.
func (r *Result) Tabular() bool {
	return r != nil && len(r.Columns) > 0
}

// Console drives query execution. State machine:
// Idle → Executing → Succeeded/Failed, re-entrant from any terminal state.
type Console struct {
	client  *api.Client
	perPage int

	mu        sync.Mutex
	state     State
	result    *Result
	query     string
	page      int
	lastErr   string
	duration  time.Duration
	nextSeq   uint64
	latestSeq uint64

	history *history
}

// New creates a console with the given page size.
func New(client *api.Client, perPage int) *Console {
	if perPage <= 0 {
		perPage = 50
	}
	return &Console{
		client:  client,
		perPage: perPage,
		history: newHistory(HistoryCapacity),
	}
}

// Execute submits the query for the given page. A query that trims to empty
// is rejected locally with ErrEmptyQuery and no network call; locally
// rejected input is not a submission and is not recorded in history.
//
// On success the displayed result set is replaced; on failure (non-ok
// response or transport fault) it is cleared and the error surfaced. Exactly
// one history entry is recorded per actual submission, either way, including
// submissions whose response arrives after a newer one has already landed;
// those keep the newer displayed state. Transport faults are additionally
// returned as errors.
func (c *Console) Execute(ctx context.Context, query string, page int) error {
	query = strings.TrimSpace(query)
	if query == "" {
		c.mu.Lock()
		c.lastErr = ErrEmptyQuery.Error()
		c.mu.Unlock()
		return ErrEmptyQuery
	}
	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.state = Executing
	c.query = query
	c.page = page
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	started := time.Now()
	resp, err := c.client.Post(ctx, api.PathSQLExecute, map[string]any{
		"query":    query,
		"page":     page,
		"per_page": c.perPage,
	})
	elapsed := time.Since(started)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq < c.latestSeq {
		// A newer submission already landed. The displayed state stays
		// with the winner, but the outcome is still recorded: one history
		// entry per submission, superseded or not.
		c.record(query, resp, err)
		return nil
	}
	c.latestSeq = seq
	c.duration = elapsed

	if err != nil {
		c.fail(query, err.Error())
		return err
	}
	if !resp.Ok() {
		c.fail(query, resp.ErrorMessage())
		return nil
	}

	var result Result
	if decodeErr := resp.Decode(&result); decodeErr != nil {
		c.fail(query, "malformed response: "+decodeErr.Error())
		return nil
	}
	result.Pagination.Normalize()

	c.state = Succeeded
	c.result = &result
	c.lastErr = ""
	c.history.add(HistoryEntry{
		Query:     query,
		Timestamp: time.Now(),
		Success:   true,
		RowCount:  result.RowsReturned,
	})
	return nil
}

// record adds the history entry for a submission whose response no longer
// drives the displayed state. Callers hold mu.
func (c *Console) record(query string, resp *api.Response, err error) {
	entry := HistoryEntry{Query: query, Timestamp: time.Now()}
	switch {
	case err != nil:
		entry.Error = err.Error()
	case !resp.Ok():
		entry.Error = resp.ErrorMessage()
	default:
		var result Result
		if decodeErr := resp.Decode(&result); decodeErr != nil {
			entry.Error = "malformed response: " + decodeErr.Error()
		} else {
			entry.Success = true
			entry.RowCount = result.RowsReturned
		}
	}
	c.history.add(entry)
}

// fail clears the displayed result and records the failure. Callers hold mu.
func (c *Console) fail(query, msg string) {
	c.state = Failed
	c.result = nil
	c.lastErr = msg
	c.history.add(HistoryEntry{
		Query:     query,
		Timestamp: time.Now(),
		Success:   false,
		Error:     msg,
	})
}

// NextPage re-submits the current query for the following page. Each page
// turn is a fresh round trip; prior pages are not cached.
func (c *Console) NextPage(ctx context.Context) error {
	c.mu.Lock()
	if c.result == nil || !c.result.Pagination.HasNext() {
		c.mu.Unlock()
		return ErrNoResult
	}
	query, page := c.query, c.page+1
	c.mu.Unlock()
	return c.Execute(ctx, query, page)
}

// PrevPage re-submits the current query for the preceding page.
func (c *Console) PrevPage(ctx context.Context) error {
	c.mu.Lock()
	if c.result == nil || !c.result.Pagination.HasPrev() {
		c.mu.Unlock()
		return ErrNoResult
	}
	query, page := c.query, c.page-1
	c.mu.Unlock()
	return c.Execute(ctx, query, page)
}

// State returns the current execution state.
func (c *Console) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Result returns the currently displayed result set, nil when none.
func (c *Console) Result() *Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result
}

// Err returns the last surfaced error message.
func (c *Console) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Duration returns the wall-clock time of the last submission.
func (c *Console) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// History returns past submissions, newest first.
func (c *Console) History() []HistoryEntry {
	return c.history.list()
}
