// Package engine holds the authorization decision rules.
// Every function here is a stateless pure function of the user's role, the
// target's ownership attributes, and the requested action: no I/O, no locks,
// no hidden state. The enforcement gate resolves targets and applies verdicts.
package engine

import "github.com/earlycare/authz/types"

// denial reasons carried on negative verdicts
const (
	ReasonInvalidRole   = "unrecognized role"
	ReasonNotGuardian   = "not the guardian of the subject"
	ReasonNotAssigned   = "not assigned to the subject"
	ReasonNotAuthor     = "not the author of the record"
	ReasonRoleForbidden = "role may not perform this operation"
	ReasonUnknownAction = "unknown action"
)

// SubjectDecision decides if user may perform act on subj.
// act may be a union of actions; it is permitted only when every member is.
func SubjectDecision(user types.User, subj types.Subject, act types.Action) types.Decision {
	if !user.Role.Valid() {
		return types.Deny(ReasonInvalidRole)
	}
	if !act.IsIn(types.AllActions) || act == types.None {
		return types.Deny(ReasonUnknownAction)
	}

	// creating is a role-level gate with no target
	if act.Includes(types.Create) {
		if d := CreateSubject(user); !d.Allowed {
			return d
		}
		act = act.Difference(types.Create)
	}

	for _, a := range act.Split() {
		if d := subjectAction(user, subj, a); !d.Allowed {
			return d
		}
	}
	return types.Permit()
}

func subjectAction(user types.User, subj types.Subject, act types.Action) types.Decision {
	switch user.Role {
	case types.Admin:
		return types.Permit()

	case types.Parent:
		// guardianship gates view, edit, and delete alike.
		// an empty guardian id never matches: administratively unowned
		// subjects are reachable by admins only.
		if subj.GuardianID != "" && subj.GuardianID == user.ID {
			return types.Permit()
		}
		return types.Deny(ReasonNotGuardian)

	case types.Teacher:
		if act == types.Delete {
			// teachers never delete subjects, assigned or not
			return types.Deny(ReasonRoleForbidden)
		}
		if subj.Staff.Has(user.ID) {
			return types.Permit()
		}
		return types.Deny(ReasonNotAssigned)
	}

	return types.Deny(ReasonInvalidRole)
}

// CreateSubject decides if user may create subjects at all
func CreateSubject(user types.User) types.Decision {
	switch user.Role {
	case types.Admin, types.Parent:
		return types.Permit()
	case types.Teacher:
		return types.Deny(ReasonRoleForbidden)
	}
	return types.Deny(ReasonInvalidRole)
}

// RecordDecision decides if user may perform act on rec,
// given parent, the subject the record concerns.
// The rule set is shared by all record kinds.
func RecordDecision(user types.User, rec types.Record, parent types.Subject, act types.Action) types.Decision {
	if !user.Role.Valid() {
		return types.Deny(ReasonInvalidRole)
	}
	if !act.IsIn(types.AllActions) || act == types.None {
		return types.Deny(ReasonUnknownAction)
	}

	if act.Includes(types.Create) {
		if d := CreateRecord(user, parent); !d.Allowed {
			return d
		}
		act = act.Difference(types.Create)
	}

	for _, a := range act.Split() {
		if d := recordAction(user, rec, parent, a); !d.Allowed {
			return d
		}
	}
	return types.Permit()
}

func recordAction(user types.User, rec types.Record, parent types.Subject, act types.Action) types.Decision {
	if user.Role == types.Admin {
		return types.Permit()
	}

	switch act {
	case types.View:
		// viewing a record follows viewing its subject
		return subjectAction(user, parent, types.View)

	case types.Edit:
		if user.Role != types.Teacher {
			// parents are read-only on records
			return types.Deny(ReasonRoleForbidden)
		}
		if !parent.Staff.Has(user.ID) {
			// assignment is a floor under authorship: a teacher pulled
			// off the subject loses edit access to records they wrote
			return types.Deny(ReasonNotAssigned)
		}
		if rec.CreatorID == user.ID {
			return types.Permit()
		}
		return types.Deny(ReasonNotAuthor)

	case types.Delete:
		// admin only, pending a retention policy
		return types.Deny(ReasonRoleForbidden)
	}

	return types.Deny(ReasonUnknownAction)
}

// CreateRecord decides if user may author a record about parent
func CreateRecord(user types.User, parent types.Subject) types.Decision {
	switch user.Role {
	case types.Admin:
		return types.Permit()
	case types.Teacher:
		// assignment to the subject is a prerequisite to authoring
		// records about it
		return subjectAction(user, parent, types.View)
	case types.Parent:
		return types.Deny(ReasonRoleForbidden)
	}
	return types.Deny(ReasonInvalidRole)
}
