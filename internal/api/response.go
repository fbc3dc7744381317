// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Response is a fully-read backend response. The request client never
// interprets bodies beyond the 401 path; callers decode what they need.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// Ok reports whether the status is in the 2xx range.
func (r *Response) Ok() bool {
	return r != nil && r.Status >= 200 && r.Status < 300
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Body, v)
}

// ErrorMessage extracts the backend's {"error": "..."} field for display.
// When the body has no such field it falls back to the HTTP status text, so
// callers always have something verbatim to surface.
func (r *Response) ErrorMessage() string {
	if r == nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(r.Body, &payload); err == nil && payload.Error != "" {
		if payload.Details != "" {
			return payload.Error + ": " + payload.Details
		}
		return payload.Error
	}
	if text := strings.TrimSpace(string(r.Body)); text != "" && len(text) <= 200 && !strings.HasPrefix(text, "<") {
		return text
	}
	return http.StatusText(r.Status)
}
