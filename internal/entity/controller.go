// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package entity implements one generic list/form controller reused for
// every managed resource kind (models, personas, agents, workflows, tools,
// users). The backend's per-entity routes are structurally identical, so a
// single parametrized controller configured by a Descriptor replaces what
// would otherwise be near-duplicate per-entity clients.
package entity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"queryforge/cli/internal/api"
)

// ErrSuperseded is returned when a newer list dispatch was issued before
// this one's response arrived; the stale result must not be rendered.
var ErrSuperseded = errors.New("list result superseded by a newer request")

// Descriptor configures the generic controller for one entity kind.
type Descriptor struct {
	// Name is the singular key the backend nests single items under.
	Name string
	// ItemsKey is the plural key list envelopes nest items under.
	ItemsKey string
	// Path is the collection path, e.g. "/api/models".
	Path string
	// Required names the payload fields the backend insists on; checked
	// client-side so no request is issued for an incomplete form.
	Required []string
	// JSONFields are payload fields that, when given as strings, must be
	// valid embedded JSON (schemas, workflow definitions).
	JSONFields []string
	// Filters are the entity-specific query parameters list supports.
	Filters []string
}

// ListOptions carries pagination and filtering for a list call. A page turn
// reuses the same options with only Page changed, so search and filters ride
// along unchanged.
type ListOptions struct {
	Page    int
	PerPage int
	Search  string
	Filters map[string]string
}

// Page is one page of decoded items plus normalized pagination metadata.
type Page[T any] struct {
	Items      []T
	Pagination Pagination
}

// Controller is the parametrized list/form controller for one entity kind.
type Controller[T any] struct {
	client *api.Client
	desc   Descriptor

	mu        sync.Mutex
	nextSeq   uint64
	latestSeq uint64
}

// NewController binds a descriptor to the shared request client.
func NewController[T any](client *api.Client, desc Descriptor) *Controller[T] {
	return &Controller[T]{client: client, desc: desc}
}

// Descriptor returns the controller's entity configuration.
func (c *Controller[T]) Descriptor() Descriptor { return c.desc }

// List fetches one page. Responses from dispatches that have since been
// superseded by a newer List call are dropped with ErrSuperseded, so rapid
// refiltering cannot paint stale results over fresh ones.
func (c *Controller[T]) List(ctx context.Context, opts ListOptions) (Page[T], error) {
	c.mu.Lock()
	c.nextSeq++
	seq := c.nextSeq
	c.mu.Unlock()

	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(opts.PerPage))
	}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	for k, v := range opts.Filters {
		if v != "" {
			q.Set(k, v)
		}
	}

	resp, err := c.client.Get(ctx, c.desc.Path, q)
	if err != nil {
		return Page[T]{}, err
	}
	if !resp.Ok() {
		return Page[T]{}, errors.New(resp.ErrorMessage())
	}

	c.mu.Lock()
	if seq < c.latestSeq {
		c.mu.Unlock()
		return Page[T]{}, ErrSuperseded
	}
	c.latestSeq = seq
	c.mu.Unlock()

	return decodePage[T](resp.Body, c.desc.ItemsKey)
}

// Get fetches a single item by id.
func (c *Controller[T]) Get(ctx context.Context, id int) (T, error) {
	var zero T
	resp, err := c.client.Get(ctx, c.itemPath(id), nil)
	if err != nil {
		return zero, err
	}
	if !resp.Ok() {
		return zero, errors.New(resp.ErrorMessage())
	}
	return decodeItem[T](resp.Body, c.desc.Name)
}

// Create validates the payload locally, then POSTs it.
func (c *Controller[T]) Create(ctx context.Context, payload map[string]any) (T, error) {
	var zero T
	if err := c.Validate(payload); err != nil {
		return zero, err
	}
	resp, err := c.client.Post(ctx, c.desc.Path, payload)
	if err != nil {
		return zero, err
	}
	if !resp.Ok() {
		return zero, errors.New(resp.ErrorMessage())
	}
	return decodeItem[T](resp.Body, c.desc.Name)
}

// Update PUTs changed fields. Partial updates skip the required-field check
// but embedded JSON fields are still validated.
func (c *Controller[T]) Update(ctx context.Context, id int, payload map[string]any) (T, error) {
	var zero T
	if err := validateJSONFields(c.desc.JSONFields, payload); err != nil {
		return zero, err
	}
	resp, err := c.client.Put(ctx, c.itemPath(id), payload)
	if err != nil {
		return zero, err
	}
	if !resp.Ok() {
		return zero, errors.New(resp.ErrorMessage())
	}
	return decodeItem[T](resp.Body, c.desc.Name)
}

// Delete removes an item.
func (c *Controller[T]) Delete(ctx context.Context, id int) error {
	resp, err := c.client.Delete(ctx, c.itemPath(id))
	if err != nil {
		return err
	}
	if !resp.Ok() {
		return errors.New(resp.ErrorMessage())
	}
	return nil
}

// Duplicate clones an item server-side.
func (c *Controller[T]) Duplicate(ctx context.Context, id int) (T, error) {
	var zero T
	resp, err := c.client.Post(ctx, c.itemPath(id)+"/duplicate", nil)
	if err != nil {
		return zero, err
	}
	if !resp.Ok() {
		return zero, errors.New(resp.ErrorMessage())
	}
	return decodeItem[T](resp.Body, c.desc.Name)
}

// Toggle flips is_active via a partial update.
func (c *Controller[T]) Toggle(ctx context.Context, id int, active bool) error {
	resp, err := c.client.Put(ctx, c.itemPath(id), map[string]any{"is_active": active})
	if err != nil {
		return err
	}
	if !resp.Ok() {
		return errors.New(resp.ErrorMessage())
	}
	return nil
}

// Approve marks an item approved (admin action on most entity kinds).
func (c *Controller[T]) Approve(ctx context.Context, id int) error {
	resp, err := c.client.Call(ctx, api.Request{Method: http.MethodPost, Path: c.itemPath(id) + "/approve"})
	if err != nil {
		return err
	}
	if !resp.Ok() {
		return errors.New(resp.ErrorMessage())
	}
	return nil
}

// Validate runs the descriptor's client-side checks: required fields present
// and non-empty, embedded JSON fields well-formed. Local failures never
// issue a request.
func (c *Controller[T]) Validate(payload map[string]any) error {
	for _, field := range c.desc.Required {
		v, ok := payload[field]
		if !ok {
			return fmt.Errorf("%s is required", field)
		}
		if s, isStr := v.(string); isStr && s == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	return validateJSONFields(c.desc.JSONFields, payload)
}

func validateJSONFields(fields []string, payload map[string]any) error {
	for _, field := range fields {
		s, ok := payload[field].(string)
		if !ok || s == "" {
			continue
		}
		if !json.Valid([]byte(s)) {
			return fmt.Errorf("%s is not valid JSON", field)
		}
	}
	return nil
}

func (c *Controller[T]) itemPath(id int) string {
	return fmt.Sprintf("%s/%d", c.desc.Path, id)
}

func decodePage[T any](body []byte, itemsKey string) (Page[T], error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return Page[T]{}, err
	}

	var page Page[T]
	if items, ok := raw[itemsKey]; ok {
		if err := json.Unmarshal(items, &page.Items); err != nil {
			return Page[T]{}, err
		}
	}
	if pg, ok := raw["pagination"]; ok && string(pg) != "null" {
		if err := json.Unmarshal(pg, &page.Pagination); err != nil {
			return Page[T]{}, err
		}
	}
	page.Pagination.Normalize()
	if page.Pagination.PerPage == 0 {
		page.Pagination.PerPage = len(page.Items)
	}
	return page, nil
}

func decodeItem[T any](body []byte, key string) (T, error) {
	var zero T
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return zero, err
	}
	item, ok := raw[key]
	if !ok {
		// Some write endpoints return only a message; that is still success.
		return zero, nil
	}
	var out T
	if err := json.Unmarshal(item, &out); err != nil {
		return zero, err
	}
	return out, nil
}
