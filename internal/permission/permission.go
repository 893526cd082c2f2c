package permission

// Role is the closed set of console roles. Every signed-in actor has exactly
// one role; permissions are always derived from it and never stored.
type Role string

const (
	RoleSuperAdmin     Role = "super_admin"
	RoleAdmin          Role = "admin"
	RoleHeadDepartment Role = "head_department"
	RoleBranchManager  Role = "branch_manager"
	RoleStaff          Role = "staff"
)

// AllRoles lists every known role, ordered from most to least privileged.
var AllRoles = []Role{
	RoleSuperAdmin,
	RoleAdmin,
	RoleHeadDepartment,
	RoleBranchManager,
	RoleStaff,
}

func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleHeadDepartment, RoleBranchManager, RoleStaff:
		return true
	}
	return false
}

type Action string

const (
	ActionCreate    Action = "create"
	ActionRead      Action = "read"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionAuthorize Action = "authorize"
)

// Grant pairs a console module with the actions a role may perform on it.
type Grant struct {
	Module  string   `json:"module"`
	Actions []Action `json:"actions"`
}

// roleGrants is the static permission table. Base grants shared by all known
// roles (dashboard and reports, read-only) are appended by Resolve.
var roleGrants = map[Role][]Grant{
	RoleSuperAdmin: {
		{Module: "users", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "branches", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "system", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}},
		{Module: "audit", Actions: []Action{ActionRead}},
	},
	RoleAdmin: {
		{Module: "users", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "branches", Actions: []Action{ActionRead, ActionUpdate}},
		{Module: "customers", Actions: []Action{ActionRead}},
		{Module: "accounts", Actions: []Action{ActionRead}},
		{Module: "transactions", Actions: []Action{ActionRead}},
	},
	RoleHeadDepartment: {
		{Module: "users", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "customers", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "accounts", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionAuthorize}},
		{Module: "transactions", Actions: []Action{ActionRead, ActionAuthorize}},
		{Module: "approvals", Actions: []Action{ActionRead, ActionAuthorize}},
	},
	RoleBranchManager: {
		{Module: "customers", Actions: []Action{ActionCreate, ActionRead, ActionUpdate}},
		{Module: "accounts", Actions: []Action{ActionCreate, ActionRead, ActionUpdate, ActionAuthorize}},
		{Module: "transactions", Actions: []Action{ActionRead, ActionAuthorize}},
		{Module: "approvals", Actions: []Action{ActionRead, ActionAuthorize}},
		{Module: "teller", Actions: []Action{ActionRead}},
	},
	RoleStaff: {
		{Module: "customers", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "accounts", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "transactions", Actions: []Action{ActionCreate, ActionRead}},
		{Module: "teller", Actions: []Action{ActionCreate, ActionRead}},
	},
}

// Resolve returns the full grant set for a role. The result is a fresh slice
// on every call so callers can never mutate the table. Unknown roles resolve
// to an empty grant set rather than an error.
func Resolve(role Role) []Grant {
	extra, ok := roleGrants[role]
	if !ok {
		return []Grant{}
	}

	grants := make([]Grant, 0, len(extra)+2)
	for _, g := range extra {
		actions := make([]Action, len(g.Actions))
		copy(actions, g.Actions)
		grants = append(grants, Grant{Module: g.Module, Actions: actions})
	}
	grants = append(grants,
		Grant{Module: "dashboard", Actions: []Action{ActionRead}},
		Grant{Module: "reports", Actions: []Action{ActionRead}},
	)
	return grants
}

// Allows reports whether the role's grant set permits action on module.
func Allows(role Role, module string, action Action) bool {
	for _, g := range Resolve(role) {
		if g.Module != module {
			continue
		}
		for _, a := range g.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}

// creationRules maps a creator role to the roles it may provision. This is
// the canonical table: the super admin delegates admins, admins delegate the
// whole operational tier, department heads delegate only branch personnel.
var creationRules = map[Role][]Role{
	RoleSuperAdmin:     {RoleAdmin},
	RoleAdmin:          {RoleHeadDepartment, RoleBranchManager, RoleStaff},
	RoleHeadDepartment: {RoleBranchManager, RoleStaff},
	RoleBranchManager:  {},
	RoleStaff:          {},
}

// CreatableRoles returns the roles the creator may provision, in table order.
func CreatableRoles(creator Role) []Role {
	rules, ok := creationRules[creator]
	if !ok {
		return []Role{}
	}
	out := make([]Role, len(rules))
	copy(out, rules)
	return out
}

// CanCreate reports whether creator may provision a user with target role.
func CanCreate(creator, target Role) bool {
	for _, r := range creationRules[creator] {
		if r == target {
			return true
		}
	}
	return false
}

// CanToggleLock reports whether actor may lock or unlock target. Only the
// super admin and admins manage locks; the super admin itself is never
// lockable, and admins cannot lock their peers.
func CanToggleLock(actor, target Role) bool {
	if actor != RoleSuperAdmin && actor != RoleAdmin {
		return false
	}
	if target == RoleSuperAdmin {
		return false
	}
	if actor == RoleAdmin && target == RoleAdmin {
		return false
	}
	return true
}
