package session

import (
	"testing"

	"crewdesk.org/internal/account"
)

func TestRoleHierarchyIsSupersetChain(t *testing.T) {
	chain := []account.Role{account.RoleOperator, account.RoleManager, account.RoleDirector}
	for i := 0; i < len(chain)-1; i++ {
		lower, higher := chain[i], chain[i+1]
		for _, perm := range Permissions(lower) {
			if !HasPermission(higher, perm) {
				t.Fatalf("%s lacks %q granted to %s", higher, perm, lower)
			}
		}
		if len(Permissions(higher)) <= len(Permissions(lower)) {
			t.Fatalf("%s should strictly extend %s", higher, lower)
		}
	}
}

func TestPermissionsByRole(t *testing.T) {
	cases := []struct {
		role       account.Role
		granted    []string
		notGranted []string
	}{
		{
			role:       account.RoleOperator,
			granted:    []string{PermViewDashboard, PermViewTasks, PermViewSettings},
			notGranted: []string{PermCreateTasks, PermManageTeam, PermDeleteTasks, PermManageOrganization},
		},
		{
			role:       account.RoleManager,
			granted:    []string{PermViewDashboard, PermCreateTasks, PermManageTeam, PermCreateReports},
			notGranted: []string{PermDeleteTasks, PermExportReports, PermViewAllData},
		},
		{
			role:       account.RoleDirector,
			granted:    []string{PermViewDashboard, PermManageTeam, PermDeleteTasks, PermManageOrganization},
			notGranted: nil,
		},
	}
	for _, tc := range cases {
		for _, p := range tc.granted {
			if !HasPermission(tc.role, p) {
				t.Errorf("%s should have %q", tc.role, p)
			}
		}
		for _, p := range tc.notGranted {
			if HasPermission(tc.role, p) {
				t.Errorf("%s should not have %q", tc.role, p)
			}
		}
	}
}

func TestUnknownRoleFailsClosed(t *testing.T) {
	ghost := account.Role("superadmin")
	if HasPermission(ghost, PermViewDashboard) {
		t.Fatal("unknown role must have no permissions")
	}
	if perms := Permissions(ghost); perms != nil {
		t.Fatalf("expected nil permission set, got %v", perms)
	}
	if CanAccessRoles(ghost, []account.Role{account.RoleOperator, account.RoleManager, account.RoleDirector}) {
		t.Fatal("unknown role must not pass role gates")
	}
}

func TestCanAccessRoles(t *testing.T) {
	allowed := []account.Role{account.RoleManager, account.RoleDirector}
	if CanAccessRoles(account.RoleOperator, allowed) {
		t.Fatal("operator is not in the allowed set")
	}
	if !CanAccessRoles(account.RoleManager, allowed) {
		t.Fatal("manager should pass")
	}
	if CanAccessRoles(account.RoleDirector, nil) {
		t.Fatal("empty allowed set admits nobody")
	}
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := Permissions(account.RoleOperator)
	perms[0] = "tampered"
	if Permissions(account.RoleOperator)[0] == "tampered" {
		t.Fatal("Permissions must not expose internal table")
	}
}
