// Package sqlite holds a Store backed by an embedded sqlite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/earlycare/authz/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS subjects (
	id       TEXT PRIMARY KEY,
	guardian TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS subject_staff (
	subject TEXT NOT NULL,
	staff   TEXT NOT NULL,
	PRIMARY KEY (subject, staff)
);
CREATE TABLE IF NOT EXISTS records (
	kind    TEXT NOT NULL,
	id      TEXT NOT NULL,
	subject TEXT NOT NULL,
	creator TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (kind, id)
);
CREATE INDEX IF NOT EXISTS records_subject ON records (kind, subject);
`

// Store is a persistence collaborator backed by a sql database with the
// sqlite dialect
type Store struct {
	db *sql.DB
}

var _ types.Store = (*Store)(nil)

// NewStore bootstraps the schema on the given database and wraps it
func NewStore(db *sql.DB) (*Store, error) {
	if _, e := db.Exec(schema); e != nil {
		return nil, fmt.Errorf("bootstrap schema: %w", e)
	}
	return &Store{db: db}, nil
}

func (s *Store) FindSubject(ctx context.Context, id string) (*types.Subject, error) {
	tx, e := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if e != nil {
		return nil, e
	}
	defer tx.Rollback()

	subj, e := findSubjectTx(ctx, tx, id)
	if e != nil {
		return nil, e
	}
	return subj, tx.Commit()
}

func findSubjectTx(ctx context.Context, tx *sql.Tx, id string) (*types.Subject, error) {
	subj := types.Subject{ID: id, Staff: types.NewStaffSet()}

	e := tx.QueryRowContext(ctx, `SELECT guardian FROM subjects WHERE id = ?`, id).Scan(&subj.GuardianID)
	if e == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if e != nil {
		return nil, e
	}

	rows, e := tx.QueryContext(ctx, `SELECT staff FROM subject_staff WHERE subject = ?`, id)
	if e != nil {
		return nil, e
	}
	defer rows.Close()

	for rows.Next() {
		var staff string
		if e := rows.Scan(&staff); e != nil {
			return nil, e
		}
		subj.Staff.Add(staff)
	}
	return &subj, rows.Err()
}

func (s *Store) FindRecord(ctx context.Context, kind types.RecordKind, id string) (*types.Record, error) {
	rec := types.Record{ID: id, Kind: kind}

	e := s.db.QueryRowContext(ctx,
		`SELECT subject, creator FROM records WHERE kind = ? AND id = ?`,
		kind.String(), id,
	).Scan(&rec.SubjectID, &rec.CreatorID)
	if e == sql.ErrNoRows {
		return nil, types.ErrNotFound
	}
	if e != nil {
		return nil, e
	}
	return &rec, nil
}

func (s *Store) AllSubjects(ctx context.Context) ([]types.Subject, error) {
	tx, e := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if e != nil {
		return nil, e
	}
	defer tx.Rollback()

	rows, e := tx.QueryContext(ctx, `SELECT id FROM subjects`)
	if e != nil {
		return nil, e
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if e := rows.Scan(&id); e != nil {
			return nil, e
		}
		ids = append(ids, id)
	}
	if e := rows.Err(); e != nil {
		return nil, e
	}

	out := make([]types.Subject, 0, len(ids))
	for _, id := range ids {
		subj, e := findSubjectTx(ctx, tx, id)
		if e != nil {
			return nil, e
		}
		out = append(out, *subj)
	}
	return out, tx.Commit()
}

func (s *Store) AllRecords(ctx context.Context, kind types.RecordKind) ([]types.Record, error) {
	rows, e := s.db.QueryContext(ctx,
		`SELECT id, subject, creator FROM records WHERE kind = ?`, kind.String())
	if e != nil {
		return nil, e
	}
	defer rows.Close()

	out := make([]types.Record, 0)
	for rows.Next() {
		rec := types.Record{Kind: kind}
		if e := rows.Scan(&rec.ID, &rec.SubjectID, &rec.CreatorID); e != nil {
			return nil, e
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) InsertSubject(ctx context.Context, subj types.Subject) (*types.Subject, error) {
	if subj.ID == "" {
		subj.ID = uuid.New().String()
	}

	tx, e := s.db.BeginTx(ctx, nil)
	if e != nil {
		return nil, e
	}
	defer tx.Rollback()

	var one int
	switch e := tx.QueryRowContext(ctx, `SELECT 1 FROM subjects WHERE id = ?`, subj.ID).Scan(&one); e {
	case sql.ErrNoRows:
	case nil:
		return nil, types.ErrAlreadyExists
	default:
		return nil, e
	}

	if _, e := tx.ExecContext(ctx,
		`INSERT INTO subjects (id, guardian) VALUES (?, ?)`, subj.ID, subj.GuardianID); e != nil {
		return nil, e
	}
	if e := setStaffTx(ctx, tx, subj.ID, subj.Staff); e != nil {
		return nil, e
	}

	return &subj, tx.Commit()
}

func (s *Store) UpdateSubject(ctx context.Context, subj types.Subject) error {
	tx, e := s.db.BeginTx(ctx, nil)
	if e != nil {
		return e
	}
	defer tx.Rollback()

	res, e := tx.ExecContext(ctx,
		`UPDATE subjects SET guardian = ? WHERE id = ?`, subj.GuardianID, subj.ID)
	if e != nil {
		return e
	}
	if n, e := res.RowsAffected(); e != nil {
		return e
	} else if n == 0 {
		return types.ErrNotFound
	}

	if e := setStaffTx(ctx, tx, subj.ID, subj.Staff); e != nil {
		return e
	}
	return tx.Commit()
}

func (s *Store) DeleteSubject(ctx context.Context, id string) error {
	tx, e := s.db.BeginTx(ctx, nil)
	if e != nil {
		return e
	}
	defer tx.Rollback()

	res, e := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
	if e != nil {
		return e
	}
	if n, e := res.RowsAffected(); e != nil {
		return e
	} else if n == 0 {
		return types.ErrNotFound
	}

	if _, e := tx.ExecContext(ctx, `DELETE FROM subject_staff WHERE subject = ?`, id); e != nil {
		return e
	}
	return tx.Commit()
}

func (s *Store) SetStaff(ctx context.Context, subjectID string, staff types.StaffSet) error {
	tx, e := s.db.BeginTx(ctx, nil)
	if e != nil {
		return e
	}
	defer tx.Rollback()

	var one int
	switch e := tx.QueryRowContext(ctx, `SELECT 1 FROM subjects WHERE id = ?`, subjectID).Scan(&one); e {
	case nil:
	case sql.ErrNoRows:
		return types.ErrNotFound
	default:
		return e
	}

	if e := setStaffTx(ctx, tx, subjectID, staff); e != nil {
		return e
	}
	return tx.Commit()
}

func setStaffTx(ctx context.Context, tx *sql.Tx, subjectID string, staff types.StaffSet) error {
	if _, e := tx.ExecContext(ctx, `DELETE FROM subject_staff WHERE subject = ?`, subjectID); e != nil {
		return e
	}
	for id := range staff {
		if _, e := tx.ExecContext(ctx,
			`INSERT INTO subject_staff (subject, staff) VALUES (?, ?)`, subjectID, id); e != nil {
			return e
		}
	}
	return nil
}

func (s *Store) InsertRecord(ctx context.Context, rec types.Record) (*types.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	tx, e := s.db.BeginTx(ctx, nil)
	if e != nil {
		return nil, e
	}
	defer tx.Rollback()

	var one int
	switch e := tx.QueryRowContext(ctx,
		`SELECT 1 FROM records WHERE kind = ? AND id = ?`, rec.Kind.String(), rec.ID).Scan(&one); e {
	case sql.ErrNoRows:
	case nil:
		return nil, types.ErrAlreadyExists
	default:
		return nil, e
	}

	if _, e := tx.ExecContext(ctx,
		`INSERT INTO records (kind, id, subject, creator) VALUES (?, ?, ?, ?)`,
		rec.Kind.String(), rec.ID, rec.SubjectID, rec.CreatorID); e != nil {
		return nil, e
	}
	return &rec, tx.Commit()
}

func (s *Store) UpdateRecord(ctx context.Context, rec types.Record) error {
	res, e := s.db.ExecContext(ctx,
		`UPDATE records SET subject = ?, creator = ? WHERE kind = ? AND id = ?`,
		rec.SubjectID, rec.CreatorID, rec.Kind.String(), rec.ID)
	if e != nil {
		return e
	}
	if n, e := res.RowsAffected(); e != nil {
		return e
	} else if n == 0 {
		return types.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteRecord(ctx context.Context, kind types.RecordKind, id string) error {
	res, e := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE kind = ? AND id = ?`, kind.String(), id)
	if e != nil {
		return e
	}
	if n, e := res.RowsAffected(); e != nil {
		return e
	} else if n == 0 {
		return types.ErrNotFound
	}
	return nil
}
