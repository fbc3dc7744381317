// Copyright (c) 2025 QueryForge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package api

import "fmt"

// REST endpoint paths mounted by the QueryForge backend.
const (
	PathLogin          = "/api/auth/login"
	PathRegister       = "/api/auth/register"
	PathLogout         = "/api/auth/logout"
	PathRefresh        = "/api/auth/refresh"
	PathMe             = "/api/auth/me"
	PathChangePassword = "/api/auth/change-password"
	PathForgotPassword = "/api/auth/forgot-password"
	PathResetPassword  = "/api/auth/reset-password"

	PathSQLExecute   = "/api/admin/sql/execute"
	PathSQLSchema    = "/api/admin/sql/schema"
	PathSQLTemplates = "/api/admin/sql/templates"
	PathSystemStats  = "/api/admin/system/stats"
	PathAdminUsers   = "/api/admin/users"

	PathModels    = "/api/models"
	PathPersonas  = "/api/personas"
	PathAgents    = "/api/agents"
	PathWorkflows = "/api/workflows"
	PathTools     = "/api/tools"
)

// UserRolePath is the role-assignment route for one user.
func UserRolePath(userID int) string {
	return fmt.Sprintf("%s/%d/role", PathAdminUsers, userID)
}
