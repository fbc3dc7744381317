// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api implements the authenticated request client for the QueryForge
// backend. Every backend call in the CLI goes through Client: it owns bearer
// token attachment, the one-shot 401 refresh-and-retry, and forced
// de-authentication when no valid token can be obtained. Feature code treats
// "response with Ok()" as the only success condition and never re-implements
// refresh logic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"queryforge/cli/internal/session"
)

// ErrSessionExpired is returned when a 401 could not be recovered by a token
// refresh. The session has already been cleared and the expiry hook notified;
// callers must treat it as terminal and already handled, not surface it as a
// fresh error.
var ErrSessionExpired = errors.New("session expired")

// Client dispatches authenticated requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store

	// onExpired is invoked after an unrecoverable 401 has cleared the
	// session. The top-level command layer subscribes to point the user at
	// `qf login`; the client itself performs no navigation side effects.
	onExpired func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithExpiryHook registers the session-expired callback.
func WithExpiryHook(fn func()) Option {
	return func(c *Client) { c.onExpired = fn }
}

// New creates a request client with a 15-second transport timeout.
func New(baseURL string, store session.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request describes one backend call. Body may be nil, pre-serialized
// ([]byte / json.RawMessage), or any JSON-marshalable value.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Call dispatches the request with the held token attached.
//
// 401 handling is a one-shot policy: attempt exactly one token refresh with
// the held token, and when it succeeds, persist the new token and retry the
// original request once, returning that response whatever its status. A
// second consecutive 401 is a genuine authorization failure surfaced to the
// caller as an ordinary non-ok response. When the refresh itself fails, the
// session is cleared, the expiry hook fires, and (nil, ErrSessionExpired) is
// returned.
//
// Transport faults propagate as errors and never clear the session.
func (c *Client) Call(ctx context.Context, req Request) (*Response, error) {
	token, _ := c.store.Token()

	resp, err := c.dispatch(ctx, req, token)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusUnauthorized {
		return resp, nil
	}
	if token == "" {
		// Nothing was attached, so there is no session to recover; the 401
		// is the answer (e.g. bad login credentials).
		return resp, nil
	}

	newToken, ok := c.refresh(ctx, token)
	if !ok {
		_ = c.store.Clear()
		if c.onExpired != nil {
			c.onExpired()
		}
		return nil, ErrSessionExpired
	}
	if err := c.store.SetToken(newToken); err != nil {
		return nil, fmt.Errorf("persist refreshed token: %w", err)
	}

	return c.dispatch(ctx, req, newToken)
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Call(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Call(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Call(ctx, Request{Method: http.MethodPut, Path: path, Body: body})
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Call(ctx, Request{Method: http.MethodDelete, Path: path})
}

// dispatch performs a single HTTP round trip with the given token.
// The token is captured per dispatch, so a rotation while a request is in
// flight cannot corrupt it.
func (c *Client) dispatch(ctx context.Context, req Request, token string) (*Response, error) {
	body, err := encodeBody(req.Body)
	if err != nil {
		return nil, err
	}

	u := c.baseURL + req.Path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: httpResp.StatusCode, Header: httpResp.Header, Body: raw}, nil
}

// refresh exchanges the held token for a fresh one via POST /api/auth/refresh.
// The backend re-mints from the presented token; there is no separate refresh
// credential. Returns ("", false) when no new token could be obtained.
func (c *Client) refresh(ctx context.Context, token string) (string, bool) {
	if token == "" {
		return "", false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+PathRefresh, nil)
	if err != nil {
		return "", false
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return "", false
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return "", false
	}

	var out struct {
		AccessToken string `json:"access_token"`
		Token       string `json:"token"`
	}
	if err := json.NewDecoder(httpResp.Body).Decode(&out); err != nil {
		return "", false
	}
	if out.AccessToken != "" {
		return out.AccessToken, true
	}
	if out.Token != "" {
		return out.Token, true
	}
	return "", false
}

func encodeBody(body any) (io.Reader, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return bytes.NewReader(b), nil
	case json.RawMessage:
		return bytes.NewReader(b), nil
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, err
		}
		return bytes.NewReader(raw), nil
	}
}
