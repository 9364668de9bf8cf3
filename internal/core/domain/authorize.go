package domain

// Action enumerates the account-management operations subject to
// authorization.
type Action string

const (
	ActionListUsers  Action = "users:list"
	ActionReadUser   Action = "users:read"
	ActionCreateUser Action = "users:create"
	ActionUpdateUser Action = "users:update"
	ActionDeleteUser Action = "users:delete"
)

// Actor is the authenticated identity performing an action: the token
// subject plus the roles loaded from the directory.
type Actor struct {
	Username string
	Roles    []string
}

func (a Actor) hasRole(name string) bool {
	for _, r := range a.Roles {
		if r == name {
			return true
		}
	}
	return false
}

// Authorize decides whether actor may perform action against target.
// target may be nil for collection-level actions (list, create).
//
// Rules:
//   - list, create, delete: ADMIN only.
//   - read: ADMIN or MANAGER, or the account owner.
//   - update: ADMIN; MANAGER unless the target is itself an ADMIN; or the
//     account owner.
func Authorize(actor Actor, action Action, target *User) bool {
	if actor.hasRole(RoleAdmin) {
		return true
	}

	isSelf := target != nil && target.Username == actor.Username

	switch action {
	case ActionReadUser:
		return actor.hasRole(RoleManager) || isSelf
	case ActionUpdateUser:
		if actor.hasRole(RoleManager) && target != nil && !target.HasRole(RoleAdmin) {
			return true
		}
		return isSelf
	default:
		return false
	}
}
