package engine

import "github.com/earlycare/authz/types"

// AccessibleSubjects keeps exactly the subjects user may view.
// It is the vectorized form of the view predicate in SubjectDecision, not an
// independent rule set: the two cannot drift apart.
func AccessibleSubjects(user types.User, all []types.Subject) []types.Subject {
	out := make([]types.Subject, 0, len(all))
	for _, s := range all {
		if SubjectDecision(user, s, types.View).Allowed {
			out = append(out, s)
		}
	}
	return out
}

// AccessibleRecords keeps the records whose subject is in the user's
// accessible subject set
func AccessibleRecords(user types.User, recs []types.Record, subjects []types.Subject) []types.Record {
	accessible := AccessibleSubjects(user, subjects)
	visible := make(map[string]struct{}, len(accessible))
	for _, s := range accessible {
		visible[s.ID] = struct{}{}
	}

	out := make([]types.Record, 0, len(recs))
	for _, r := range recs {
		if _, ok := visible[r.SubjectID]; ok {
			out = append(out, r)
		}
	}
	return out
}
