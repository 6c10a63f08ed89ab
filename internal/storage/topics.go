package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conorfennell/flashcards/internal/domain"
)

// CreateTopic inserts a new topic under subjectID. It returns
// domain.ErrNotFound if the subject does not exist and
// domain.ErrDuplicateName if the subject already has a topic with that name.
func (db *DB) CreateTopic(ctx context.Context, subjectID int64, name string) (domain.Topic, error) {
	name, err := domain.NormalizeName(name)
	if err != nil {
		return domain.Topic{}, err
	}

	var topic domain.Topic
	err = db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM subjects WHERE id = ?`, subjectID)
		if err != nil {
			return fmt.Errorf("failed to check subject %d: %w", subjectID, err)
		}
		if !ok {
			return fmt.Errorf("subject %d: %w", subjectID, domain.ErrNotFound)
		}

		res, err := tx.ExecContext(ctx, `INSERT INTO topics (subject_id, name) VALUES (?, ?)`, subjectID, name)
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("failed to create topic %q: %w", name, domain.ErrDuplicateName)
			}
			return fmt.Errorf("failed to create topic %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for topic %q: %w", name, err)
		}
		topic = domain.Topic{ID: id, SubjectID: subjectID, Name: name}
		return nil
	})
	if err != nil {
		return domain.Topic{}, err
	}
	return topic, nil
}

// GetTopic retrieves a topic by id.
func (db *DB) GetTopic(ctx context.Context, id int64) (domain.Topic, error) {
	var t domain.Topic
	err := db.conn.QueryRowContext(ctx, `SELECT id, subject_id, name FROM topics WHERE id = ?`, id).
		Scan(&t.ID, &t.SubjectID, &t.Name)
	if err == sql.ErrNoRows {
		return domain.Topic{}, fmt.Errorf("topic %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Topic{}, fmt.Errorf("failed to get topic %d: %w", id, err)
	}
	return t, nil
}

// FindTopicByName retrieves a topic of a subject by its exact name.
func (db *DB) FindTopicByName(ctx context.Context, subjectID int64, name string) (domain.Topic, error) {
	var t domain.Topic
	err := db.conn.QueryRowContext(ctx, `
		SELECT id, subject_id, name FROM topics WHERE subject_id = ? AND name = ?
	`, subjectID, name).Scan(&t.ID, &t.SubjectID, &t.Name)
	if err == sql.ErrNoRows {
		return domain.Topic{}, fmt.Errorf("topic %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Topic{}, fmt.Errorf("failed to find topic %q: %w", name, err)
	}
	return t, nil
}

// ListTopics returns the topics of a subject ordered by name.
func (db *DB) ListTopics(ctx context.Context, subjectID int64) ([]domain.Topic, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, subject_id, name
		FROM topics WHERE subject_id = ?
		ORDER BY name
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics for subject %d: %w", subjectID, err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.SubjectID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan topic row for subject %d: %w", subjectID, err)
		}
		topics = append(topics, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list topics for subject %d: %w", subjectID, err)
	}
	return topics, nil
}

// DeleteTopic removes a topic and all of its cards.
func (db *DB) DeleteTopic(ctx context.Context, id int64) error {
	return db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE topic_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete cards of topic %d: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM topics WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete topic %d: %w", id, err)
		}
		return requireAffected(res, "topic", id)
	})
}
