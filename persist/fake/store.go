// Package fake holds an in-memory persistence collaborator for tests and
// demos.
package fake

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/earlycare/authz/types"
)

type store struct {
	subjects map[string]types.Subject
	records  map[types.RecordKind]map[string]types.Record
	sync.RWMutex
}

var _ types.Store = (*store)(nil)

// NewStore returns a fake in-memory store which should not be used in real works
func NewStore() *store {
	return &store{
		subjects: make(map[string]types.Subject),
		records:  make(map[types.RecordKind]map[string]types.Record),
	}
}

func (s *store) FindSubject(ctx context.Context, id string) (*types.Subject, error) {
	s.RLock()
	defer s.RUnlock()

	subj, ok := s.subjects[id]
	if !ok {
		return nil, types.ErrNotFound
	}

	// hand out a snapshot: callers must not observe later staff changes
	subj.Staff = subj.Staff.Clone()
	return &subj, nil
}

func (s *store) FindRecord(ctx context.Context, kind types.RecordKind, id string) (*types.Record, error) {
	s.RLock()
	defer s.RUnlock()

	rec, ok := s.records[kind][id]
	if !ok {
		return nil, types.ErrNotFound
	}
	return &rec, nil
}

func (s *store) AllSubjects(ctx context.Context) ([]types.Subject, error) {
	s.RLock()
	defer s.RUnlock()

	out := make([]types.Subject, 0, len(s.subjects))
	for _, subj := range s.subjects {
		subj.Staff = subj.Staff.Clone()
		out = append(out, subj)
	}
	return out, nil
}

func (s *store) AllRecords(ctx context.Context, kind types.RecordKind) ([]types.Record, error) {
	s.RLock()
	defer s.RUnlock()

	out := make([]types.Record, 0, len(s.records[kind]))
	for _, rec := range s.records[kind] {
		out = append(out, rec)
	}
	return out, nil
}

func (s *store) InsertSubject(ctx context.Context, subj types.Subject) (*types.Subject, error) {
	s.Lock()
	defer s.Unlock()

	if subj.ID == "" {
		subj.ID = uuid.New().String()
	}
	if _, ok := s.subjects[subj.ID]; ok {
		return nil, types.ErrAlreadyExists
	}

	subj.Staff = subj.Staff.Clone()
	s.subjects[subj.ID] = subj

	out := subj
	out.Staff = subj.Staff.Clone()
	return &out, nil
}

func (s *store) UpdateSubject(ctx context.Context, subj types.Subject) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.subjects[subj.ID]; !ok {
		return types.ErrNotFound
	}

	subj.Staff = subj.Staff.Clone()
	s.subjects[subj.ID] = subj
	return nil
}

func (s *store) DeleteSubject(ctx context.Context, id string) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.subjects[id]; !ok {
		return types.ErrNotFound
	}

	delete(s.subjects, id)
	return nil
}

func (s *store) SetStaff(ctx context.Context, subjectID string, staff types.StaffSet) error {
	s.Lock()
	defer s.Unlock()

	subj, ok := s.subjects[subjectID]
	if !ok {
		return types.ErrNotFound
	}

	subj.Staff = staff.Clone()
	s.subjects[subjectID] = subj
	return nil
}

func (s *store) InsertRecord(ctx context.Context, rec types.Record) (*types.Record, error) {
	s.Lock()
	defer s.Unlock()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if _, ok := s.records[rec.Kind][rec.ID]; ok {
		return nil, types.ErrAlreadyExists
	}

	if s.records[rec.Kind] == nil {
		s.records[rec.Kind] = make(map[string]types.Record)
	}
	s.records[rec.Kind][rec.ID] = rec
	return &rec, nil
}

func (s *store) UpdateRecord(ctx context.Context, rec types.Record) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.records[rec.Kind][rec.ID]; !ok {
		return types.ErrNotFound
	}

	s.records[rec.Kind][rec.ID] = rec
	return nil
}

func (s *store) DeleteRecord(ctx context.Context, kind types.RecordKind, id string) error {
	s.Lock()
	defer s.Unlock()

	if _, ok := s.records[kind][id]; !ok {
		return types.ErrNotFound
	}

	delete(s.records[kind], id)
	return nil
}
