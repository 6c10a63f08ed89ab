package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conorfennell/flashcards/internal/domain"
)

// CreateSubject inserts a new subject. It returns domain.ErrDuplicateName
// if a subject with the same name already exists.
func (db *DB) CreateSubject(ctx context.Context, name string) (domain.Subject, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.Subject{}, err
	}

	res, err := db.conn.ExecContext(ctx, `INSERT INTO subjects (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Subject{}, fmt.Errorf("failed to create subject %q: %w", name, domain.ErrDuplicateName)
		}
		return domain.Subject{}, fmt.Errorf("failed to create subject %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to get last insert ID for subject %q: %w", name, err)
	}
	return domain.Subject{ID: id, Name: name}, nil
}

// GetSubject retrieves a subject by id.
func (db *DB) GetSubject(ctx context.Context, id int64) (domain.Subject, error) {
	var s domain.Subject
	err := db.conn.QueryRowContext(ctx, `SELECT id, name FROM subjects WHERE id = ?`, id).
		Scan(&s.ID, &s.Name)
	if err == sql.ErrNoRows {
		return domain.Subject{}, fmt.Errorf("subject %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to get subject %d: %w", id, err)
	}
	return s, nil
}

// FindSubjectByName retrieves a subject by its exact name.
func (db *DB) FindSubjectByName(ctx context.Context, name string) (domain.Subject, error) {
	var s domain.Subject
	err := db.conn.QueryRowContext(ctx, `SELECT id, name FROM subjects WHERE name = ?`, name).
		Scan(&s.ID, &s.Name)
	if err == sql.ErrNoRows {
		return domain.Subject{}, fmt.Errorf("subject %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to find subject %q: %w", name, err)
	}
	return s, nil
}

// ListSubjects returns all subjects ordered by name.
func (db *DB) ListSubjects(ctx context.Context) ([]domain.Subject, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT id, name FROM subjects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	defer rows.Close()

	var subjects []domain.Subject
	for rows.Next() {
		var s domain.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		subjects = append(subjects, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// DeleteSubject removes a subject together with its topics and their cards.
func (db *DB) DeleteSubject(ctx context.Context, id int64) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM cards
			WHERE topic_id IN (SELECT id FROM topics WHERE subject_id = ?)
		`, id); err != nil {
			return fmt.Errorf("failed to delete cards of subject %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE subject_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete topics of subject %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM subjects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete subject %d: %w", id, err)
		}
		return requireAffected(res, "subject", id)
	})
}

// requireAffected turns a zero row count into domain.ErrNotFound.
func requireAffected(res sql.Result, entity string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for %s %d: %w", entity, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, domain.ErrNotFound)
	}
	return nil
}
