package service

import (
	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/types"
)

// ============================================
// Project Access Policy
// ============================================

// Permission is the outcome of a policy check. Fields lists the project fields the
// caller may write for ActionCreate, ActionEdit and ActionUpdate.
type Permission struct {
	Role    string
	Action  string
	Allowed bool
	Fields  []string
}

// CanWrite reports whether field is in the permitted write set.
func (p Permission) CanWrite(field string) bool {
	for _, f := range p.Fields {
		if f == field {
			return true
		}
	}
	return false
}

// createFields are the manager fields a new project accepts; archived starts false.
var createFields = []string{
	types.FieldTitle, types.FieldDescription, types.FieldPrice, types.FieldCompletedTasks,
	types.FieldStartDate, types.FieldEndDate, types.FieldTeam,
}

// Classify resolves the caller's role on a project. Manager wins over team membership.
func Classify(identity Identity, project *repository.Project) string {
	if !identity.IsAuthenticated() || project == nil {
		return types.RoleNone
	}
	if project.ManagerID == identity.UserID {
		return types.RoleManager
	}
	if project.HasMember(identity.UserID) {
		return types.RoleMember
	}
	return types.RoleNone
}

// Authorize maps a role and an action to a permission. It has no side effects;
// Fields is a fresh slice the caller may keep.
func Authorize(role, action string) Permission {
	perm := Permission{Role: role, Action: action}

	switch role {
	case types.RoleManager:
		switch action {
		case types.ActionView, types.ActionList, types.ActionDelete:
			perm.Allowed = true
		case types.ActionCreate:
			perm.Allowed = true
			perm.Fields = append([]string(nil), createFields...)
		case types.ActionEdit, types.ActionUpdate:
			perm.Allowed = true
			perm.Fields = append([]string(nil), types.ManagerFields...)
		}
	case types.RoleMember:
		switch action {
		case types.ActionView, types.ActionList:
			perm.Allowed = true
		case types.ActionEdit, types.ActionUpdate:
			perm.Allowed = true
			perm.Fields = append([]string(nil), types.MemberFields...)
		}
	}

	return perm
}
