package auth

import "strings"

// Role is the single authorization attribute of a user. Privilege order is
// user < super_user < admin, but grants always come from the policy table
// below, never from ordering.
type Role string

const (
	RoleUser      Role = "user"
	RoleSuperUser Role = "super_user"
	RoleAdmin     Role = "admin"
)

func ParseRole(value string) (Role, bool) {
	switch Role(value) {
	case RoleUser, RoleSuperUser, RoleAdmin:
		return Role(value), true
	}
	return "", false
}

type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionManage Action = "manage"
	ActionExport Action = "export"
)

type Resource string

const (
	ResourceEmployee Resource = "employee"
	ResourceUser     Resource = "user"
	ResourceAudit    Resource = "audit"
)

// policy is the single source of truth for which roles may perform which
// action on which resource class. Every request boundary consults it through
// Allowed; routes never compare role strings themselves.
var policy = map[Resource]map[Action][]Role{
	ResourceEmployee: {
		ActionView:   {RoleUser, RoleSuperUser, RoleAdmin},
		ActionCreate: {RoleSuperUser, RoleAdmin},
		ActionEdit:   {RoleAdmin},
		ActionDelete: {RoleAdmin},
	},
	ResourceUser: {
		ActionView:   {RoleAdmin},
		ActionCreate: {RoleAdmin},
		ActionEdit:   {RoleAdmin},
		ActionDelete: {RoleAdmin},
		ActionManage: {RoleAdmin},
	},
	ResourceAudit: {
		ActionView:   {RoleAdmin},
		ActionExport: {RoleAdmin},
	},
}

// Allowed reports whether role may perform action on resource. Unknown
// (role, action, resource) combinations are denied.
func Allowed(role Role, action Action, resource Resource) bool {
	actions, ok := policy[resource]
	if !ok {
		return false
	}
	for _, r := range actions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles permitted for action on resource, used to
// build the access-denied message.
func AllowedRoles(action Action, resource Resource) []Role {
	actions, ok := policy[resource]
	if !ok {
		return nil
	}
	return actions[action]
}

func roleList(roles []Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}
