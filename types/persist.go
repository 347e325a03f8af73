package types

import "context"

// Resolver looks up the authorization-relevant attributes of stored entities.
// It is the only collaborator the engine consults during a decision.
// A missing entity is reported as ErrNotFound, which is a distinct condition
// from denial: conflating the two is an information-leak decision left to the
// caller, and must be deliberate.
type Resolver interface {
	// FindSubject resolves a subject by id
	FindSubject(ctx context.Context, id string) (*Subject, error)

	// FindRecord resolves a record of the given kind by id
	FindRecord(ctx context.Context, kind RecordKind, id string) (*Record, error)

	// AllSubjects returns the full unfiltered subject collection,
	// to be passed through the accessible-set filter
	AllSubjects(ctx context.Context) ([]Subject, error)

	// AllRecords returns the full unfiltered collection of one record kind
	AllRecords(ctx context.Context, kind RecordKind) ([]Record, error)
}

// Persister applies state changes after the gate has permitted them.
// The gate never calls it on a negative verdict.
type Persister interface {
	// InsertSubject stores a new subject and returns it as stored;
	// the persister may mint an id when none is given
	InsertSubject(ctx context.Context, s Subject) (*Subject, error)

	// UpdateSubject replaces the mutable fields of a stored subject
	UpdateSubject(ctx context.Context, s Subject) error

	// DeleteSubject removes a subject by id
	DeleteSubject(ctx context.Context, id string) error

	// SetStaff replaces the assigned staff set of a subject
	SetStaff(ctx context.Context, subjectID string, staff StaffSet) error

	// InsertRecord stores a new record and returns it as stored
	InsertRecord(ctx context.Context, rec Record) (*Record, error)

	// UpdateRecord replaces the mutable fields of a stored record
	UpdateRecord(ctx context.Context, rec Record) error

	// DeleteRecord removes a record of the given kind by id
	DeleteRecord(ctx context.Context, kind RecordKind, id string) error
}

// Store is a persistence collaborator serving both sides of the contract
type Store interface {
	Resolver
	Persister
}
