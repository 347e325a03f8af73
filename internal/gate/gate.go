// Package gate wraps every entry point of the persistence collaborator with
// the engine's verdict: resolve the target, decide, and either delegate or
// report a rejection. It never performs the underlying operation on a deny,
// and list operations only ever return the filtered set.
package gate

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"

	"github.com/earlycare/authz/internal/engine"
	"github.com/earlycare/authz/types"
)

type gate struct {
	resolver  types.Resolver
	persister types.Persister
	presets   []types.PresetPolicy
	l         logr.Logger
}

// New creates an enforcement gate over the given collaborators.
// persister may be nil, leaving a read-only gate: mutating entry points
// report ErrNoPersister.
func New(resolver types.Resolver, persister types.Persister, l logr.Logger, presets ...types.PresetPolicy) types.Gate {
	return &gate{
		resolver:  resolver,
		persister: persister,
		presets:   presets,
		l:         l,
	}
}

// decideSubject consults presets first, then the engine rules
func (g *gate) decideSubject(user types.User, subj types.Subject, act types.Action) types.Decision {
	for _, p := range g.presets {
		if p(user, act) {
			return types.Permit()
		}
	}
	return engine.SubjectDecision(user, subj, act)
}

func (g *gate) decideRecord(user types.User, rec types.Record, parent types.Subject, act types.Action) types.Decision {
	for _, p := range g.presets {
		if p(user, act) {
			return types.Permit()
		}
	}
	return engine.RecordDecision(user, rec, parent, act)
}

func (g *gate) denied(user types.User, act types.Action, target string, d types.Decision) error {
	g.l.V(4).Info("denied", "user", user.ID, "role", user.Role, "action", act, "target", target, "reason", d.Reason)

	return &types.DeniedError{
		User:   user.ID,
		Action: act,
		Target: target,
		Reason: d.Reason,
	}
}

// parentOf resolves the subject a record concerns.
// A dangling reference is an error condition, never a silent deny.
func (g *gate) parentOf(ctx context.Context, rec *types.Record) (*types.Subject, error) {
	subj, e := g.resolver.FindSubject(ctx, rec.SubjectID)
	if e != nil {
		return nil, fmt.Errorf("subject %s of %s: %w", rec.SubjectID, rec, e)
	}
	return subj, nil
}

// CanOnSubject decides if user may perform act on the subject with the given id
func (g *gate) CanOnSubject(ctx context.Context, user types.User, subjectID string, act types.Action) (types.Decision, error) {
	g.l.V(6).Info("can on subject", "user", user.ID, "subject", subjectID, "action", act)

	if act == types.Create {
		// creating takes no target; a union including create still does
		return g.CanCreateSubject(user), nil
	}

	subj, e := g.resolver.FindSubject(ctx, subjectID)
	if e != nil {
		return types.Decision{}, e
	}

	return g.decideSubject(user, *subj, act), nil
}

// CanCreateSubject decides if user may create subjects at all
func (g *gate) CanCreateSubject(user types.User) types.Decision {
	g.l.V(6).Info("can create subject", "user", user.ID, "role", user.Role)

	for _, p := range g.presets {
		if p(user, types.Create) {
			return types.Permit()
		}
	}
	return engine.CreateSubject(user)
}

// CanOnRecord decides if user may perform act on the record of the given kind and id
func (g *gate) CanOnRecord(ctx context.Context, user types.User, kind types.RecordKind, recordID string, act types.Action) (types.Decision, error) {
	g.l.V(6).Info("can on record", "user", user.ID, "kind", kind, "record", recordID, "action", act)

	rec, e := g.resolver.FindRecord(ctx, kind, recordID)
	if e != nil {
		return types.Decision{}, e
	}
	parent, e := g.parentOf(ctx, rec)
	if e != nil {
		return types.Decision{}, e
	}

	return g.decideRecord(user, *rec, *parent, act), nil
}

// CanCreateRecord decides if user may author a record of the given kind about
// the subject with the given id
func (g *gate) CanCreateRecord(ctx context.Context, user types.User, kind types.RecordKind, subjectID string) (types.Decision, error) {
	g.l.V(6).Info("can create record", "user", user.ID, "kind", kind, "subject", subjectID)

	if subjectID == "" {
		// a record cannot exist without a subject: contract violation,
		// not a security decision
		return types.Decision{}, types.ErrMissingTarget
	}

	subj, e := g.resolver.FindSubject(ctx, subjectID)
	if e != nil {
		return types.Decision{}, e
	}

	for _, p := range g.presets {
		if p(user, types.Create) {
			return types.Permit(), nil
		}
	}
	return engine.CreateRecord(user, *subj), nil
}

// GetSubject returns the subject if user may view it
func (g *gate) GetSubject(ctx context.Context, user types.User, id string) (*types.Subject, error) {
	g.l.V(6).Info("get subject", "user", user.ID, "subject", id)

	subj, e := g.resolver.FindSubject(ctx, id)
	if e != nil {
		return nil, e
	}

	if d := g.decideSubject(user, *subj, types.View); !d.Allowed {
		return nil, g.denied(user, types.View, subj.String(), d)
	}
	return subj, nil
}

// CreateSubject stores a new subject if user may create one
func (g *gate) CreateSubject(ctx context.Context, user types.User, s types.Subject) (*types.Subject, error) {
	g.l.V(4).Info("create subject", "user", user.ID, "guardian", s.GuardianID)

	if g.persister == nil {
		return nil, types.ErrNoPersister
	}

	if d := g.CanCreateSubject(user); !d.Allowed {
		return nil, g.denied(user, types.Create, "subject", d)
	}

	if user.Role == types.Parent {
		// ownership comes from the authenticated creator, not the payload
		s.GuardianID = user.ID
	}

	return g.persister.InsertSubject(ctx, s)
}

// UpdateSubject replaces a stored subject if user may edit it
func (g *gate) UpdateSubject(ctx context.Context, user types.User, s types.Subject) error {
	g.l.V(4).Info("update subject", "user", user.ID, "subject", s.ID)

	if g.persister == nil {
		return types.ErrNoPersister
	}

	cur, e := g.resolver.FindSubject(ctx, s.ID)
	if e != nil {
		return e
	}

	// the verdict is over the stored state, not the payload
	if d := g.decideSubject(user, *cur, types.Edit); !d.Allowed {
		return g.denied(user, types.Edit, cur.String(), d)
	}

	// guardianship and staff assignment do not change through edits
	s.GuardianID = cur.GuardianID
	s.Staff = cur.Staff.Clone()

	return g.persister.UpdateSubject(ctx, s)
}

// DeleteSubject removes a subject if user may delete it
func (g *gate) DeleteSubject(ctx context.Context, user types.User, id string) error {
	g.l.V(4).Info("delete subject", "user", user.ID, "subject", id)

	if g.persister == nil {
		return types.ErrNoPersister
	}

	subj, e := g.resolver.FindSubject(ctx, id)
	if e != nil {
		return e
	}

	if d := g.decideSubject(user, *subj, types.Delete); !d.Allowed {
		return g.denied(user, types.Delete, subj.String(), d)
	}

	return g.persister.DeleteSubject(ctx, id)
}

// AssignStaff adds a teacher to the subject's staff set
func (g *gate) AssignStaff(ctx context.Context, user types.User, subjectID, staffID string) error {
	g.l.V(4).Info("assign staff", "user", user.ID, "subject", subjectID, "staff", staffID)

	return g.setStaff(ctx, user, subjectID, staffID, types.StaffSet.Add)
}

// UnassignStaff removes a teacher from the subject's staff set
func (g *gate) UnassignStaff(ctx context.Context, user types.User, subjectID, staffID string) error {
	g.l.V(4).Info("unassign staff", "user", user.ID, "subject", subjectID, "staff", staffID)

	return g.setStaff(ctx, user, subjectID, staffID, types.StaffSet.Remove)
}

func (g *gate) setStaff(ctx context.Context, user types.User, subjectID, staffID string, change func(types.StaffSet, string)) error {
	if g.persister == nil {
		return types.ErrNoPersister
	}
	if staffID == "" {
		return types.ErrMissingTarget
	}

	subj, e := g.resolver.FindSubject(ctx, subjectID)
	if e != nil {
		return e
	}

	// assignment management is admin only
	if user.Role != types.Admin {
		d := types.Deny(engine.ReasonRoleForbidden)
		if !user.Role.Valid() {
			d = types.Deny(engine.ReasonInvalidRole)
		}
		return g.denied(user, types.Edit, subj.String(), d)
	}

	staff := subj.Staff.Clone()
	if staff == nil {
		staff = types.NewStaffSet()
	}
	change(staff, staffID)

	return g.persister.SetStaff(ctx, subjectID, staff)
}

// AccessibleSubjects returns exactly the subjects user may view
func (g *gate) AccessibleSubjects(ctx context.Context, user types.User) ([]types.Subject, error) {
	g.l.V(6).Info("accessible subjects", "user", user.ID, "role", user.Role)

	all, e := g.resolver.AllSubjects(ctx)
	if e != nil {
		return nil, e
	}
	return engine.AccessibleSubjects(user, all), nil
}

// GetRecord returns the record if user may view it
func (g *gate) GetRecord(ctx context.Context, user types.User, kind types.RecordKind, id string) (*types.Record, error) {
	g.l.V(6).Info("get record", "user", user.ID, "kind", kind, "record", id)

	rec, e := g.resolver.FindRecord(ctx, kind, id)
	if e != nil {
		return nil, e
	}
	parent, e := g.parentOf(ctx, rec)
	if e != nil {
		return nil, e
	}

	if d := g.decideRecord(user, *rec, *parent, types.View); !d.Allowed {
		return nil, g.denied(user, types.View, rec.String(), d)
	}
	return rec, nil
}

// CreateRecord stores a new record if user may author one about its subject
func (g *gate) CreateRecord(ctx context.Context, user types.User, rec types.Record) (*types.Record, error) {
	g.l.V(4).Info("create record", "user", user.ID, "kind", rec.Kind, "subject", rec.SubjectID)

	if g.persister == nil {
		return nil, types.ErrNoPersister
	}
	if !rec.Kind.Valid() {
		return nil, types.ErrUnknownRecordKind
	}

	d, e := g.CanCreateRecord(ctx, user, rec.Kind, rec.SubjectID)
	if e != nil {
		return nil, e
	}
	if !d.Allowed {
		return nil, g.denied(user, types.Create, rec.Kind.String(), d)
	}

	// authorship comes from the authenticated creator, not the payload
	rec.CreatorID = user.ID

	return g.persister.InsertRecord(ctx, rec)
}

// UpdateRecord replaces a stored record if user may edit it
func (g *gate) UpdateRecord(ctx context.Context, user types.User, rec types.Record) error {
	g.l.V(4).Info("update record", "user", user.ID, "kind", rec.Kind, "record", rec.ID)

	if g.persister == nil {
		return types.ErrNoPersister
	}

	cur, e := g.resolver.FindRecord(ctx, rec.Kind, rec.ID)
	if e != nil {
		return e
	}
	parent, e := g.parentOf(ctx, cur)
	if e != nil {
		return e
	}

	if d := g.decideRecord(user, *cur, *parent, types.Edit); !d.Allowed {
		return g.denied(user, types.Edit, cur.String(), d)
	}

	// the subject reference and authorship do not change through edits
	rec.SubjectID = cur.SubjectID
	rec.CreatorID = cur.CreatorID

	return g.persister.UpdateRecord(ctx, rec)
}

// DeleteRecord removes a record if user may delete it
func (g *gate) DeleteRecord(ctx context.Context, user types.User, kind types.RecordKind, id string) error {
	g.l.V(4).Info("delete record", "user", user.ID, "kind", kind, "record", id)

	if g.persister == nil {
		return types.ErrNoPersister
	}

	rec, e := g.resolver.FindRecord(ctx, kind, id)
	if e != nil {
		return e
	}
	parent, e := g.parentOf(ctx, rec)
	if e != nil {
		return e
	}

	if d := g.decideRecord(user, *rec, *parent, types.Delete); !d.Allowed {
		return g.denied(user, types.Delete, rec.String(), d)
	}

	return g.persister.DeleteRecord(ctx, kind, id)
}

// AccessibleRecords returns exactly the records of one kind whose subject the
// user may view
func (g *gate) AccessibleRecords(ctx context.Context, user types.User, kind types.RecordKind) ([]types.Record, error) {
	g.l.V(6).Info("accessible records", "user", user.ID, "kind", kind)

	recs, e := g.resolver.AllRecords(ctx, kind)
	if e != nil {
		return nil, e
	}
	subjects, e := g.resolver.AllSubjects(ctx)
	if e != nil {
		return nil, e
	}

	return engine.AccessibleRecords(user, recs, subjects), nil
}
