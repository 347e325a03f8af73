package authz

import "github.com/earlycare/authz/types"

// SuperUser lets the user with the given id do any action on anything,
// before any rule is consulted
func SuperUser(id string) types.PresetPolicy {
	return func(user types.User, _ types.Action) bool {
		return user.ID == id
	}
}

// SuperRole lets every user carrying the role do any action on anything.
// The admin role already short-circuits inside the engine; this is for
// callers who layer their own elevated roles on top.
func SuperRole(role types.Role) types.PresetPolicy {
	return func(user types.User, _ types.Action) bool {
		return user.Role == role
	}
}

// ReadOnlyRole lets every user carrying the role view anything,
// leaving mutating actions to the engine rules
func ReadOnlyRole(role types.Role) types.PresetPolicy {
	return func(user types.User, act types.Action) bool {
		return user.Role == role && act.IsIn(types.View)
	}
}
