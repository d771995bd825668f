package session

import "crewdesk.org/internal/account"

// Permission names used by the role->permission table.
const (
	PermViewDashboard      = "view_dashboard"
	PermViewTasks          = "view_tasks"
	PermViewPerformance    = "view_performance"
	PermViewAssessments    = "view_assessments"
	PermViewSettings       = "view_settings"
	PermCreateTasks        = "create_tasks"
	PermEditTasks          = "edit_tasks"
	PermAssignTasks        = "assign_tasks"
	PermViewTeam           = "view_team"
	PermManageTeam         = "manage_team"
	PermEditPerformance    = "edit_performance"
	PermManageAssessments  = "manage_assessments"
	PermViewReports        = "view_reports"
	PermCreateReports      = "create_reports"
	PermDeleteTasks        = "delete_tasks"
	PermExportReports      = "export_reports"
	PermManageSettings     = "manage_settings"
	PermViewAllData        = "view_all_data"
	PermManageOrganization = "manage_organization"
)

// The table is built additively so the role hierarchy is a superset chain by
// construction: director >= manager >= operator.
var (
	operatorPermissions = []string{
		PermViewDashboard,
		PermViewTasks,
		PermViewPerformance,
		PermViewAssessments,
		PermViewSettings,
	}

	managerPermissions = extend(operatorPermissions,
		PermCreateTasks,
		PermEditTasks,
		PermAssignTasks,
		PermViewTeam,
		PermManageTeam,
		PermEditPerformance,
		PermManageAssessments,
		PermViewReports,
		PermCreateReports,
	)

	directorPermissions = extend(managerPermissions,
		PermDeleteTasks,
		PermExportReports,
		PermManageSettings,
		PermViewAllData,
		PermManageOrganization,
	)

	rolePermissions = map[account.Role][]string{
		account.RoleOperator: operatorPermissions,
		account.RoleManager:  managerPermissions,
		account.RoleDirector: directorPermissions,
	}
)

// Permissions returns the ordered permission set for a role. Unknown roles
// get nothing.
func Permissions(role account.Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission is a pure lookup against the static table, failing closed on
// unknown roles.
func HasPermission(role account.Role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range perms {
		if p == permission {
			return true
		}
	}
	return false
}

// CanAccessRoles reports whether the role is in the allowed set, failing
// closed on unknown roles.
func CanAccessRoles(role account.Role, allowed []account.Role) bool {
	if !role.Valid() {
		return false
	}
	for _, a := range allowed {
		if a == role {
			return true
		}
	}
	return false
}

func extend(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	out = append(out, extra...)
	return out
}
