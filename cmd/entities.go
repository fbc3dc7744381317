// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"

	"queryforge/cli/internal/entity"
)

func init() {
	rootCmd.AddCommand(
		newEntityCommand("model", "models", entity.Models,
			[]string{"ID", "Name", "Provider", "Model", "Active", "Approved"},
			func(m entity.Model) []string {
				return []string{
					strconv.Itoa(m.ID), m.Name, m.Provider, m.ModelName,
					yesNo(m.IsActive), yesNo(m.IsApproved),
				}
			}),
		newEntityCommand("persona", "personas", entity.Personas,
			[]string{"ID", "Name", "Visibility", "Active", "Approved"},
			func(p entity.Persona) []string {
				return []string{
					strconv.Itoa(p.ID), p.Name, p.Visibility,
					yesNo(p.IsActive), yesNo(p.IsApproved),
				}
			}),
		newEntityCommand("agent", "agents", entity.Agents,
			[]string{"ID", "Name", "Model", "Persona", "Pattern", "Active"},
			func(a entity.Agent) []string {
				return []string{
					strconv.Itoa(a.ID), a.Name, a.ModelName, a.PersonaName,
					a.ExecutionPattern, yesNo(a.IsActive),
				}
			}),
		newEntityCommand("workflow", "workflows", entity.Workflows,
			[]string{"ID", "Name", "Active", "Approved", "Created By"},
			func(w entity.Workflow) []string {
				return []string{
					strconv.Itoa(w.ID), w.Name,
					yesNo(w.IsActive), yesNo(w.IsApproved), w.CreatedBy,
				}
			}),
		newEntityCommand("tool", "tools", entity.Tools,
			[]string{"ID", "Name", "Type", "Health", "Active"},
			func(t entity.Tool) []string {
				return []string{
					strconv.Itoa(t.ID), t.Name, t.ToolType,
					t.HealthStatus, yesNo(t.IsActive),
				}
			}),
	)
}
