package service

import (
	"testing"

	"github.com/Marga-Ghale/ora-projects/internal/repository"
	"github.com/Marga-Ghale/ora-projects/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	project := &repository.Project{ManagerID: "a", Team: []string{"b", "a"}}

	tests := []struct {
		name     string
		identity Identity
		want     string
	}{
		{"manager", Identity{UserID: "a"}, types.RoleManager},
		{"member", Identity{UserID: "b"}, types.RoleMember},
		{"stranger", Identity{UserID: "c"}, types.RoleNone},
		{"anonymous", Identity{}, types.RoleNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.identity, project))
		})
	}

	assert.Equal(t, types.RoleNone, Classify(Identity{UserID: "a"}, nil))
}

func TestAuthorize(t *testing.T) {
	tests := []struct {
		role    string
		action  string
		allowed bool
		fields  []string
	}{
		{types.RoleManager, types.ActionView, true, nil},
		{types.RoleManager, types.ActionList, true, nil},
		{types.RoleManager, types.ActionCreate, true, createFields},
		{types.RoleManager, types.ActionEdit, true, types.ManagerFields},
		{types.RoleManager, types.ActionUpdate, true, types.ManagerFields},
		{types.RoleManager, types.ActionDelete, true, nil},

		{types.RoleMember, types.ActionView, true, nil},
		{types.RoleMember, types.ActionList, true, nil},
		{types.RoleMember, types.ActionCreate, false, nil},
		{types.RoleMember, types.ActionEdit, true, types.MemberFields},
		{types.RoleMember, types.ActionUpdate, true, types.MemberFields},
		{types.RoleMember, types.ActionDelete, false, nil},

		{types.RoleNone, types.ActionView, false, nil},
		{types.RoleNone, types.ActionCreate, false, nil},
		{types.RoleNone, types.ActionEdit, false, nil},
		{types.RoleNone, types.ActionUpdate, false, nil},
		{types.RoleNone, types.ActionDelete, false, nil},

		{types.RoleManager, "archive-everything", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.action, func(t *testing.T) {
			perm := Authorize(tt.role, tt.action)
			assert.Equal(t, tt.allowed, perm.Allowed)
			assert.Equal(t, tt.fields, perm.Fields)
			assert.Equal(t, tt.role, perm.Role)
		})
	}
}

func TestPermission_CanWrite(t *testing.T) {
	member := Authorize(types.RoleMember, types.ActionUpdate)
	assert.True(t, member.CanWrite(types.FieldCompletedTasks))
	assert.False(t, member.CanWrite(types.FieldTitle))
	assert.False(t, member.CanWrite(types.FieldArchived))

	manager := Authorize(types.RoleManager, types.ActionUpdate)
	for _, f := range types.ManagerFields {
		assert.True(t, manager.CanWrite(f), f)
	}

	create := Authorize(types.RoleManager, types.ActionCreate)
	assert.False(t, create.CanWrite(types.FieldArchived))
}

func TestAuthorize_FieldsAreCopies(t *testing.T) {
	for _, tt := range []struct{ role, action string }{
		{types.RoleManager, types.ActionCreate},
		{types.RoleManager, types.ActionUpdate},
		{types.RoleMember, types.ActionEdit},
	} {
		perm := Authorize(tt.role, tt.action)
		require.NotEmpty(t, perm.Fields)
		perm.Fields[0] = types.FieldArchived
	}

	assert.Equal(t, types.FieldCompletedTasks, types.MemberFields[0])
	assert.Equal(t, types.FieldTitle, types.ManagerFields[0])
	assert.Equal(t, types.FieldTitle, createFields[0])
	assert.False(t, Authorize(types.RoleMember, types.ActionUpdate).CanWrite(types.FieldArchived))
}
