// Package mgo holds a Store backed by mongodb.
package mgo

import (
	"context"

	"github.com/globalsign/mgo"
	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/earlycare/authz/types"
)

// Store is a persistence collaborator backed by two mongodb collections,
// one for subjects and one for records of all kinds
type Store struct {
	subjects *collection
	records  *collection
	log      logr.Logger
}

var _ types.Store = (*Store)(nil)

// NewStore uses the given mongodb collections as backend
func NewStore(subjects, records *mgo.Collection, opts ...storeOption) (*Store, error) {
	s := &Store{
		subjects: &collection{Collection: subjects},
		records:  &collection{Collection: records},
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}

	ss := s.records.copySession()
	defer ss.closeSession()

	if e := ss.EnsureIndex(mgo.Index{Key: []string{"kind", "subject"}}); e != nil {
		return nil, e
	}

	return s, nil
}

type storeOption func(*Store)

// WithLogger sets logger for the store
func WithLogger(l logr.Logger) storeOption {
	return func(s *Store) {
		s.log = l
	}
}

type subjectDO struct {
	ID       string   `bson:"_id"`
	Guardian string   `bson:"guardian,omitempty"`
	Staff    []string `bson:"staff,omitempty"`
}

func newSubjectDO(subj types.Subject) *subjectDO {
	do := &subjectDO{
		ID:       subj.ID,
		Guardian: subj.GuardianID,
		Staff:    make([]string, 0, len(subj.Staff)),
	}
	for id := range subj.Staff {
		do.Staff = append(do.Staff, id)
	}
	return do
}

func (do *subjectDO) asSubject() types.Subject {
	return types.Subject{
		ID:         do.ID,
		GuardianID: do.Guardian,
		Staff:      types.NewStaffSet(do.Staff...),
	}
}

type recordDO struct {
	ID      string `bson:"_id"`
	Kind    string `bson:"kind"`
	Subject string `bson:"subject"`
	Creator string `bson:"creator,omitempty"`
}

// recordID keeps ids unique per kind within the shared collection
func recordID(kind types.RecordKind, id string) string {
	return kind.String() + ":" + id
}

func newRecordDO(rec types.Record) *recordDO {
	return &recordDO{
		ID:      recordID(rec.Kind, rec.ID),
		Kind:    rec.Kind.String(),
		Subject: rec.SubjectID,
		Creator: rec.CreatorID,
	}
}

func (do *recordDO) asRecord() (types.Record, error) {
	kind, e := types.ParseRecordKind(do.Kind)
	if e != nil {
		return types.Record{}, e
	}
	return types.Record{
		ID:        do.ID[len(do.Kind)+1:],
		Kind:      kind,
		SubjectID: do.Subject,
		CreatorID: do.Creator,
	}, nil
}

func (s *Store) FindSubject(ctx context.Context, id string) (*types.Subject, error) {
	ss := s.subjects.copySession()
	defer ss.closeSession()

	var do subjectDO
	if e := ss.FindId(id).One(&do); e != nil {
		if e == mgo.ErrNotFound {
			return nil, types.ErrNotFound
		}
		return nil, e
	}

	subj := do.asSubject()
	return &subj, nil
}

func (s *Store) FindRecord(ctx context.Context, kind types.RecordKind, id string) (*types.Record, error) {
	ss := s.records.copySession()
	defer ss.closeSession()

	var do recordDO
	if e := ss.FindId(recordID(kind, id)).One(&do); e != nil {
		if e == mgo.ErrNotFound {
			return nil, types.ErrNotFound
		}
		return nil, e
	}

	rec, e := do.asRecord()
	if e != nil {
		return nil, e
	}
	return &rec, nil
}

func (s *Store) AllSubjects(ctx context.Context) ([]types.Subject, error) {
	ss := s.subjects.copySession()
	defer ss.closeSession()

	var dos []subjectDO
	if e := ss.Find(nil).All(&dos); e != nil {
		return nil, e
	}

	out := make([]types.Subject, 0, len(dos))
	for _, do := range dos {
		out = append(out, do.asSubject())
	}
	return out, nil
}

func (s *Store) AllRecords(ctx context.Context, kind types.RecordKind) ([]types.Record, error) {
	ss := s.records.copySession()
	defer ss.closeSession()

	var dos []recordDO
	if e := ss.Find(map[string]string{"kind": kind.String()}).All(&dos); e != nil {
		return nil, e
	}

	out := make([]types.Record, 0, len(dos))
	for _, do := range dos {
		rec, e := do.asRecord()
		if e != nil {
			return nil, e
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *Store) InsertSubject(ctx context.Context, subj types.Subject) (*types.Subject, error) {
	s.log.V(4).Info("insert subject", "subject", subj.ID)

	ss := s.subjects.copySession()
	defer ss.closeSession()

	if subj.ID == "" {
		subj.ID = uuid.New().String()
	}

	if e := ss.Insert(newSubjectDO(subj)); e != nil {
		if mgo.IsDup(e) {
			return nil, types.ErrAlreadyExists
		}
		return nil, e
	}
	return &subj, nil
}

func (s *Store) UpdateSubject(ctx context.Context, subj types.Subject) error {
	s.log.V(4).Info("update subject", "subject", subj.ID)

	ss := s.subjects.copySession()
	defer ss.closeSession()

	if e := ss.UpdateId(subj.ID, newSubjectDO(subj)); e != nil {
		if e == mgo.ErrNotFound {
			return types.ErrNotFound
		}
		return e
	}
	return nil
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	s.log.V(4).Info("delete subject", "subject", id)

	ss := s.subjects.copySession()
	defer ss.closeSession()

	if e := ss.RemoveId(id); e != nil {
		if e == mgo.ErrNotFound {
			return types.ErrNotFound
		}
		return e
	}
	return nil
}

func (s *Store) SetStaff(ctx context.Context, subjectID string, staff types.StaffSet) error {
	s.log.V(4).Info("set staff", "subject", subjectID)

	ss := s.subjects.copySession()
	defer ss.closeSession()

	ids := make([]string, 0, len(staff))
	for id := range staff {
		ids = append(ids, id)
	}

	e := ss.UpdateId(subjectID, map[string]interface{}{"$set": map[string]interface{}{"staff": ids}})
	if e == mgo.ErrNotFound {
		return types.ErrNotFound
	}
	return e
}

func (s *Store) InsertRecord(ctx context.Context, rec types.Record) (*types.Record, error) {
	s.log.V(4).Info("insert record", "kind", rec.Kind, "record", rec.ID)

	ss := s.records.copySession()
	defer ss.closeSession()

	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	if e := ss.Insert(newRecordDO(rec)); e != nil {
		if mgo.IsDup(e) {
			return nil, types.ErrAlreadyExists
		}
		return nil, e
	}
	return &rec, nil
}

func (s *Store) UpdateRecord(ctx context.Context, rec types.Record) error {
	s.log.V(4).Info("update record", "kind", rec.Kind, "record", rec.ID)

	ss := s.records.copySession()
	defer ss.closeSession()

	if e := ss.UpdateId(recordID(rec.Kind, rec.ID), newRecordDO(rec)); e != nil {
		if e == mgo.ErrNotFound {
			return types.ErrNotFound
		}
		return e
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, kind types.RecordKind, id string) error {
	s.log.V(4).Info("delete record", "kind", kind, "record", id)

	ss := s.records.copySession()
	defer ss.closeSession()

	if e := ss.RemoveId(recordID(kind, id)); e != nil {
		if e == mgo.ErrNotFound {
			return types.ErrNotFound
		}
		return e
	}
	return nil
}
