// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package entity

import "queryforge/cli/internal/api"

// Model is an LLM configuration entry.
type Model struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Provider      string   `json:"provider"`
	ModelName     string   `json:"model_name"`
	ContextWindow int      `json:"context_window"`
	MaxTokens     int      `json:"max_tokens"`
	Temperature   float64  `json:"temperature"`
	IsActive      bool     `json:"is_active"`
	IsApproved    bool     `json:"is_approved"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	CreatedBy     string   `json:"created_by"`
	CreatedAt     string   `json:"created_at"`
}

// Persona is a prompt template configuration.
type Persona struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	SystemPrompt string   `json:"system_prompt"`
	Visibility   string   `json:"visibility"`
	IsActive     bool     `json:"is_active"`
	IsApproved   bool     `json:"is_approved"`
	Tags         []string `json:"tags"`
	CreatedBy    string   `json:"created_by"`
	CreatedAt    string   `json:"created_at"`
}

// Agent binds a model, a persona and tools into an executable unit.
type Agent struct {
	ID               int      `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ModelName        string   `json:"model_name"`
	PersonaName      string   `json:"persona_name"`
	ExecutionPattern string   `json:"execution_pattern"`
	MaxTurns         int      `json:"max_turns"`
	Temperature      float64  `json:"temperature"`
	ToolIDs          []int    `json:"tool_ids"`
	IsActive         bool     `json:"is_active"`
	IsApproved       bool     `json:"is_approved"`
	Tags             []string `json:"tags"`
	CreatedBy        string   `json:"created_by"`
	CreatedAt        string   `json:"created_at"`
}

// Workflow is a multi-agent orchestration definition.
type Workflow struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsActive    bool     `json:"is_active"`
	IsApproved  bool     `json:"is_approved"`
	Tags        []string `json:"tags"`
	CreatedBy   string   `json:"created_by"`
	CreatedAt   string   `json:"created_at"`
}

// Tool is a callable capability exposed to agents.
type Tool struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	ToolType     string `json:"tool_type"`
	RateLimit    int    `json:"rate_limit"`
	Timeout      int    `json:"timeout"`
	IsActive     bool   `json:"is_active"`
	IsApproved   bool   `json:"is_approved"`
	HealthStatus string `json:"health_status"`
	CreatedAt    string `json:"created_at"`
}

// Managed-entity descriptors. Each one parametrizes the generic controller
// for a backend collection; the filters mirror the query parameters the
// corresponding routes accept.
var (
	Models = Descriptor{
		Name:     "model",
		ItemsKey: "models",
		Path:     api.PathModels,
		Required: []string{"name", "provider", "model_name"},
		Filters:  []string{"provider", "status"},
	}
	Personas = Descriptor{
		Name:       "persona",
		ItemsKey:   "personas",
		Path:       api.PathPersonas,
		Required:   []string{"name", "system_prompt"},
		JSONFields: []string{"input_schema", "output_schema"},
		Filters:    []string{"visibility", "status"},
	}
	Agents = Descriptor{
		Name:     "agent",
		ItemsKey: "agents",
		Path:     api.PathAgents,
		Required: []string{"name", "model_id", "persona_id"},
		Filters:  []string{"execution_pattern", "status"},
	}
	Workflows = Descriptor{
		Name:       "workflow",
		ItemsKey:   "workflows",
		Path:       api.PathWorkflows,
		Required:   []string{"name", "workflow_definition"},
		JSONFields: []string{"workflow_definition", "schedule_config"},
		Filters:    []string{"status"},
	}
	Tools = Descriptor{
		Name:       "tool",
		ItemsKey:   "tools",
		Path:       api.PathTools,
		Required:   []string{"name", "tool_type"},
		JSONFields: []string{"function_schema"},
		Filters:    []string{"tool_type", "status"},
	}
	// Users rides the admin surface but shares the same envelope shape.
	Users = Descriptor{
		Name:     "user",
		ItemsKey: "users",
		Path:     api.PathAdminUsers,
		Filters:  []string{"role"},
	}
)
