// Package filter holds a validating middleware over a Store: it enforces the
// id and write-once contracts before delegating, so backend implementations
// do not have to repeat the checks.
package filter

import (
	"context"
	"fmt"

	"github.com/earlycare/authz/types"
)

type storeFilter struct {
	types.Store
}

// NewStore wraps a store and checks incoming arguments against the persister
// contract before calling it
func NewStore(s types.Store) *storeFilter {
	return &storeFilter{Store: s}
}

func (f *storeFilter) FindSubject(ctx context.Context, id string) (*types.Subject, error) {
	if id == "" {
		return nil, types.ErrMissingTarget
	}
	return f.Store.FindSubject(ctx, id)
}

func (f *storeFilter) FindRecord(ctx context.Context, kind types.RecordKind, id string) (*types.Record, error) {
	if !kind.Valid() {
		return nil, types.ErrUnknownRecordKind
	}
	if id == "" {
		return nil, types.ErrMissingTarget
	}
	return f.Store.FindRecord(ctx, kind, id)
}

func (f *storeFilter) AllRecords(ctx context.Context, kind types.RecordKind) ([]types.Record, error) {
	if !kind.Valid() {
		return nil, types.ErrUnknownRecordKind
	}
	return f.Store.AllRecords(ctx, kind)
}

func (f *storeFilter) InsertSubject(ctx context.Context, subj types.Subject) (*types.Subject, error) {
	// cloning keeps the stored set independent of the caller's copy
	subj.Staff = subj.Staff.Clone()
	return f.Store.InsertSubject(ctx, subj)
}

func (f *storeFilter) UpdateSubject(ctx context.Context, subj types.Subject) error {
	if subj.ID == "" {
		return types.ErrMissingTarget
	}

	cur, e := f.Store.FindSubject(ctx, subj.ID)
	if e != nil {
		return e
	}
	if subj.GuardianID != cur.GuardianID {
		return fmt.Errorf("guardian of %s: %w", subj, types.ErrImmutableField)
	}

	subj.Staff = subj.Staff.Clone()
	return f.Store.UpdateSubject(ctx, subj)
}

func (f *storeFilter) DeleteSubject(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrMissingTarget
	}
	return f.Store.DeleteSubject(ctx, id)
}

func (f *storeFilter) SetStaff(ctx context.Context, subjectID string, staff types.StaffSet) error {
	if subjectID == "" {
		return types.ErrMissingTarget
	}
	return f.Store.SetStaff(ctx, subjectID, staff.Clone())
}

func (f *storeFilter) InsertRecord(ctx context.Context, rec types.Record) (*types.Record, error) {
	if !rec.Kind.Valid() {
		return nil, types.ErrUnknownRecordKind
	}
	if rec.SubjectID == "" {
		return nil, types.ErrMissingTarget
	}
	return f.Store.InsertRecord(ctx, rec)
}

func (f *storeFilter) UpdateRecord(ctx context.Context, rec types.Record) error {
	if !rec.Kind.Valid() {
		return types.ErrUnknownRecordKind
	}
	if rec.ID == "" {
		return types.ErrMissingTarget
	}

	cur, e := f.Store.FindRecord(ctx, rec.Kind, rec.ID)
	if e != nil {
		return e
	}
	if rec.SubjectID != cur.SubjectID {
		return fmt.Errorf("subject of %s: %w", rec, types.ErrImmutableField)
	}
	if rec.CreatorID != cur.CreatorID {
		return fmt.Errorf("creator of %s: %w", rec, types.ErrImmutableField)
	}

	return f.Store.UpdateRecord(ctx, rec)
}

func (f *storeFilter) DeleteRecord(ctx context.Context, kind types.RecordKind, id string) error {
	if !kind.Valid() {
		return types.ErrUnknownRecordKind
	}
	if id == "" {
		return types.ErrMissingTarget
	}
	return f.Store.DeleteRecord(ctx, kind, id)
}
