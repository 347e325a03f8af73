package types

import "context"

// Gate is the top level interface for end use.
// It gates every create/read/update/delete entry point on the engine's
// verdict, and exposes the raw decisions for callers that enforce elsewhere.
type Gate interface {
	Decider
	SubjectGater
	RecordGater
}

// Decider exposes the decision functions per target and action.
// Decisions never mutate state and never perform I/O beyond the Resolver.
type Decider interface {
	// CanOnSubject decides if user may perform act on the subject with the
	// given id. act may be a union of actions, permitted only when every
	// member is.
	CanOnSubject(ctx context.Context, user User, subjectID string, act Action) (Decision, error)

	// CanCreateSubject decides if user may create subjects at all.
	// It is a role-level gate: there is no target entity yet.
	CanCreateSubject(user User) Decision

	// CanOnRecord decides if user may perform act on the record of the
	// given kind and id
	CanOnRecord(ctx context.Context, user User, kind RecordKind, recordID string, act Action) (Decision, error)

	// CanCreateRecord decides if user may author a record of the given kind
	// about the subject with the given id
	CanCreateRecord(ctx context.Context, user User, kind RecordKind, subjectID string) (Decision, error)
}

// SubjectGater wraps the subject entry points of the persistence collaborator
type SubjectGater interface {
	// GetSubject returns the subject if user may view it
	GetSubject(ctx context.Context, user User, id string) (*Subject, error)

	// CreateSubject stores a new subject if user may create one.
	// When a parent creates, the guardian is forced to the creator:
	// ownership cannot be forged by request payload.
	CreateSubject(ctx context.Context, user User, s Subject) (*Subject, error)

	// UpdateSubject replaces a stored subject if user may edit it.
	// Guardianship and staff assignment are write-once here; staff changes
	// go through AssignStaff and UnassignStaff.
	UpdateSubject(ctx context.Context, user User, s Subject) error

	// DeleteSubject removes a subject if user may delete it
	DeleteSubject(ctx context.Context, user User, id string) error

	// AssignStaff adds a teacher to the subject's staff set, admin only
	AssignStaff(ctx context.Context, user User, subjectID, staffID string) error

	// UnassignStaff removes a teacher from the subject's staff set, admin only
	UnassignStaff(ctx context.Context, user User, subjectID, staffID string) error

	// AccessibleSubjects returns exactly the subjects user may view.
	// It never returns an unfiltered collection.
	AccessibleSubjects(ctx context.Context, user User) ([]Subject, error)
}

// RecordGater wraps the record entry points of the persistence collaborator
type RecordGater interface {
	// GetRecord returns the record if user may view it
	GetRecord(ctx context.Context, user User, kind RecordKind, id string) (*Record, error)

	// CreateRecord stores a new record if user may author one about its
	// subject. The creator is forced to the authenticated user.
	CreateRecord(ctx context.Context, user User, rec Record) (*Record, error)

	// UpdateRecord replaces a stored record if user may edit it
	UpdateRecord(ctx context.Context, user User, rec Record) error

	// DeleteRecord removes a record if user may delete it
	DeleteRecord(ctx context.Context, user User, kind RecordKind, id string) error

	// AccessibleRecords returns exactly the records of one kind whose
	// subject the user may view
	AccessibleRecords(ctx context.Context, user User, kind RecordKind) ([]Record, error)
}
