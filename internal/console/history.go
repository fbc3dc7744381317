// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package console

import (
	"sync"
	"time"
)

// HistoryCapacity bounds the local query history.
const HistoryCapacity = 20

// HistoryEntry records one query submission, success or failure.
type HistoryEntry struct {
	Query     string
	Timestamp time.Time
	Success   bool
	RowCount  int
	Error     string
}

// history is a bounded FIFO of past submissions. Oldest entries are evicted
// at capacity; iteration is newest-first. In-memory only, reset per process.
type history struct {
	mu      sync.Mutex
	entries []HistoryEntry
	cap     int
}

func newHistory(capacity int) *history {
	return &history{cap: capacity}
}

func (h *history) add(e HistoryEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, e)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// list returns a newest-first copy.
func (h *history) list() []HistoryEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]HistoryEntry, len(h.entries))
	for i, e := range h.entries {
		out[len(h.entries)-1-i] = e
	}
	return out
}
