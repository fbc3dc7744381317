// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"queryforge/cli/internal/api"
	"queryforge/cli/internal/session"
)

func newTestConsole(t *testing.T, handler http.Handler) *Console {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := session.NewMemory()
	require.NoError(t, store.SetToken("tok"))
	return New(api.New(srv.URL, store), 50)
}

func tabularHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		page := int(req["page"].(float64))
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"columns":       []string{"id", "email"},
			"data":          []map[string]any{{"id": 1, "email": "a@b.co"}},
			"rows_returned": 1,
			"pagination":    map[string]any{"page": page, "per_page": 50, "total": 120, "total_pages": 3},
			"query_type":    "SELECT",
		})
	})
}

func TestExecuteEmptyQueryIssuesNoRequest(t *testing.T) {
	var calls int
	c := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	err := c.Execute(context.Background(), "   \n\t ", 1)
	require.ErrorIs(t, err, ErrEmptyQuery)
	assert.Zero(t, calls, "blank submissions never reach the network")
	assert.Empty(t, c.History(), "local rejections are not submissions")
}

func TestHistoryKeepsTwentyNewestEntries(t *testing.T) {
	c := newTestConsole(t, tabularHandler(t))

	for i := 1; i <= 25; i++ {
		require.NoError(t, c.Execute(context.Background(), fmt.Sprintf("SELECT %d", i), 1))
	}

	got := c.History()
	require.Len(t, got, HistoryCapacity)
	assert.Equal(t, "SELECT 25", got[0].Query, "newest first")
	assert.Equal(t, "SELECT 6", got[19].Query, "the five oldest were evicted")
}

func TestFailureClearsResultAndRecordsHistory(t *testing.T) {
	var fail bool
	c := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]string{"error": "Query contains prohibited keyword: DROP"})
			return
		}
		tabularHandler(t).ServeHTTP(w, r)
	}))

	require.NoError(t, c.Execute(context.Background(), "SELECT 1", 1))
	require.NotNil(t, c.Result())

	fail = true
	require.NoError(t, c.Execute(context.Background(), "DROP TABLE users", 1))
	assert.Equal(t, Failed, c.State())
	assert.Nil(t, c.Result(), "failed execution clears the displayed result")
	assert.Equal(t, "Query contains prohibited keyword: DROP", c.Err())

	got := c.History()
	require.Len(t, got, 2)
	assert.False(t, got[0].Success)
	assert.Equal(t, "Query contains prohibited keyword: DROP", got[0].Error)
	assert.True(t, got[1].Success)
}

func TestPageTurnReissuesSameQuery(t *testing.T) {
	var bodies []map[string]any
	c := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		bodies = append(bodies, req)
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"columns":       []string{"id"},
			"data":          []map[string]any{{"id": 1}},
			"rows_returned": 1,
			"pagination":    map[string]any{"page": int(req["page"].(float64)), "per_page": 50, "total": 120, "total_pages": 3},
			"query_type":    "SELECT",
		})
	}))

	require.NoError(t, c.Execute(context.Background(), "SELECT * FROM users", 1))
	require.NoError(t, c.NextPage(context.Background()))

	require.Len(t, bodies, 2, "each page turn is a fresh round trip")
	assert.Equal(t, "SELECT * FROM users", bodies[1]["query"])
	assert.Equal(t, float64(2), bodies[1]["page"])

	require.NoError(t, c.PrevPage(context.Background()))
	require.Len(t, bodies, 3)
	assert.Equal(t, float64(1), bodies[2]["page"])
}

func TestPageTurnWithoutResult(t *testing.T) {
	c := newTestConsole(t, tabularHandler(t))
	assert.ErrorIs(t, c.NextPage(context.Background()), ErrNoResult)
	assert.ErrorIs(t, c.PrevPage(context.Background()), ErrNoResult)
}

func TestSupersededExecutionStillRecordsHistory(t *testing.T) {
	slowArrived := make(chan struct{})
	release := make(chan struct{})
	c := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		query := req["query"].(string)
		if strings.Contains(query, "slow") {
			close(slowArrived)
			<-release
		}
		json.NewEncoder(w).Encode(map[string]any{
			"success":       true,
			"columns":       []string{"q"},
			"data":          []map[string]any{{"q": query}},
			"rows_returned": 1,
			"pagination":    map[string]any{"page": 1, "per_page": 50, "total": 1, "total_pages": 1},
			"query_type":    "SELECT",
		})
	}))

	done := make(chan error, 1)
	go func() { done <- c.Execute(context.Background(), "SELECT slow", 1) }()
	<-slowArrived

	require.NoError(t, c.Execute(context.Background(), "SELECT fast", 1))
	close(release)
	require.NoError(t, <-done)

	result := c.Result()
	require.NotNil(t, result)
	assert.Equal(t, "SELECT fast", result.Rows[0]["q"], "the newer submission owns the displayed result")
	assert.Equal(t, Succeeded, c.State())

	got := c.History()
	require.Len(t, got, 2, "one entry per submission, superseded or not")
	assert.Equal(t, "SELECT slow", got[0].Query)
	assert.True(t, got[0].Success)
	assert.Equal(t, 1, got[0].RowCount)
	assert.Equal(t, "SELECT fast", got[1].Query)
}

func TestExportCSVQuotesOnlyFieldsThatNeedIt(t *testing.T) {
	c := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"columns": []string{"name", "note"},
			"data": []map[string]any{
				{"name": "plain", "note": "has, comma"},
				{"name": "empty", "note": ""},
				{"name": "missing", "note": nil},
			},
			"rows_returned": 3,
			"pagination":    map[string]any{"page": 1, "per_page": 50, "total": 3, "total_pages": 1},
			"query_type":    "SELECT",
		})
	}))
	require.NoError(t, c.Execute(context.Background(), "SELECT name, note FROM t", 1))

	var buf strings.Builder
	require.NoError(t, c.ExportCSV(&buf))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "name,note", lines[0])
	assert.Equal(t, `plain,"has, comma"`, lines[1], "field with a comma is quoted")
	assert.Equal(t, "empty,", lines[2], "empty string stays empty")
	assert.Equal(t, "missing,NULL", lines[3], "null renders distinctly from empty")
}

func TestExportWithoutResult(t *testing.T) {
	c := newTestConsole(t, tabularHandler(t))
	var buf strings.Builder
	assert.ErrorIs(t, c.ExportCSV(&buf), ErrNoResult)
	assert.ErrorIs(t, c.ExportXLSX(t.TempDir()+"/out.xlsx"), ErrNoResult)
}

func TestNonSelectResultIsNotTabular(t *testing.T) {
	c := newTestConsole(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success":        true,
			"message":        "Query executed successfully",
			"rows_affected":  4,
			"query_type":     "UPDATE",
			"execution_time": 0.012,
		})
	}))
	require.NoError(t, c.Execute(context.Background(), "UPDATE t SET x = 1", 1))

	result := c.Result()
	require.NotNil(t, result)
	assert.False(t, result.Tabular())
	assert.Equal(t, 4, result.RowsAffected)
	assert.Equal(t, "Query executed successfully", result.Message)
}

func TestDurationIsMeasured(t *testing.T) {
	c := newTestConsole(t, tabularHandler(t))
	require.NoError(t, c.Execute(context.Background(), "SELECT 1", 1))
	assert.Greater(t, c.Duration().Nanoseconds(), int64(0))
}
