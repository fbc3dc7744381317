// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package entity

// Pagination is the normalized list-envelope metadata. The backend emits
// both total_pages and has_next/has_prev; total_pages is canonical here and
// the flags are derived, never read back raw. total_pages of 0 and 1 both
// mean "no further pages".
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int   `json:"total"`
	TotalPages int   `json:"total_pages"`
	RawNext    *bool `json:"has_next,omitempty"`
	RawPrev    *bool `json:"has_prev,omitempty"`
}

// Normalize maps whichever convention the envelope used onto total_pages.
// When only has_next is present, the page count is bounded below: the exact
// total is unknown, but "there is at least one more page" is.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.TotalPages == 0 && p.RawNext != nil {
		if *p.RawNext {
			p.TotalPages = p.Page + 1
		} else {
			p.TotalPages = p.Page
		}
	}
}

// HasNext reports whether a further page exists.
func (p Pagination) HasNext() bool {
	return p.TotalPages > 1 && p.Page < p.TotalPages
}

// HasPrev reports whether an earlier page exists.
func (p Pagination) HasPrev() bool {
	return p.Page > 1
}
