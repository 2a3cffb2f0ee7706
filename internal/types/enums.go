package types

// Project roles, resolved per request from a project's manager and team
const (
	RoleManager = "manager"
	RoleMember  = "member"
	RoleNone    = "none"
)

// Project actions checked by the access policy
const (
	ActionView   = "view"
	ActionList   = "list"
	ActionCreate = "create"
	ActionEdit   = "edit"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Project fields that an update may overwrite
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldPrice          = "price"
	FieldCompletedTasks = "completedTasks"
	FieldStartDate      = "startDate"
	FieldEndDate        = "endDate"
	FieldTeam           = "team"
	FieldArchived       = "archived"
)

// User Status values
const (
	UserOnline  = "online"
	UserOffline = "offline"
	UserAway    = "away"
)

// ManagerFields is every field a manager may overwrite, in form order.
var ManagerFields = []string{
	FieldTitle, FieldDescription, FieldPrice, FieldCompletedTasks,
	FieldStartDate, FieldEndDate, FieldTeam, FieldArchived,
}

// MemberFields is the single progress field shared with team members.
var MemberFields = []string{FieldCompletedTasks}
