package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/conorfennell/flashcards/internal/domain"
)

const cardColumns = `c.id, c.topic_id, COALESCE(c.front, ''), COALESCE(c.back, ''), COALESCE(c.known, 0)`

// CreateCard inserts a new card under topicID. New cards are not known.
func (db *DB) CreateCard(ctx context.Context, topicID int64, front, back string) (domain.Card, error) {
	var card domain.Card
	err := db.withTx(ctx, func(tx *sql.Tx) error {
		ok, err := exists(ctx, tx, `SELECT 1 FROM topics WHERE id = ?`, topicID)
		if err != nil {
			return fmt.Errorf("failed to check topic %d: %w", topicID, err)
		}
		if !ok {
			return fmt.Errorf("topic %d: %w", topicID, domain.ErrNotFound)
		}

		res, err := tx.ExecContext(ctx, `
			INSERT INTO cards (topic_id, front, back, known)
			VALUES (?, ?, ?, 0)
		`, topicID, front, back)
		if err != nil {
			return fmt.Errorf("failed to insert card for topic %d: %w", topicID, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for card: %w", err)
		}
		card = domain.Card{ID: id, TopicID: topicID, Front: front, Back: back}
		return nil
	})
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// GetCard retrieves a card by id.
func (db *DB) GetCard(ctx context.Context, id int64) (domain.Card, error) {
	row := db.conn.QueryRowContext(ctx, `SELECT `+cardColumns+` FROM cards c WHERE c.id = ?`, id)
	card, err := scanCard(row)
	if err == sql.ErrNoRows {
		return domain.Card{}, fmt.Errorf("card %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	return card, nil
}

// UpdateCard overwrites the text of the card with the given id. The known
// flag is left untouched.
func (db *DB) UpdateCard(ctx context.Context, id int64, front, back string) error {
	res, err := db.conn.ExecContext(ctx, `
		UPDATE cards
		SET front = ?, back = ?
		WHERE id = ?
	`, front, back, id)
	if err != nil {
		return fmt.Errorf("failed to update card %d: %w", id, err)
	}
	return requireAffected(res, "card", id)
}

// DeleteCard removes the card with the given id.
func (db *DB) DeleteCard(ctx context.Context, id int64) error {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	return requireAffected(res, "card", id)
}

// SetKnown records whether the card is known. Setting the current value
// again succeeds. The write is committed before SetKnown returns.
func (db *DB) SetKnown(ctx context.Context, id int64, known bool) error {
	res, err := db.conn.ExecContext(ctx, `UPDATE cards SET known = ? WHERE id = ?`, boolToInt(known), id)
	if err != nil {
		return fmt.Errorf("failed to set known for card %d: %w", id, err)
	}
	return requireAffected(res, "card", id)
}

// ListCardsByTopic returns the cards of a topic in creation order.
func (db *DB) ListCardsByTopic(ctx context.Context, topicID int64) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		WHERE c.topic_id = ?
		ORDER BY c.id
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for topic %d: %w", topicID, err)
	}
	return collectCards(rows)
}

// ListCardsPoorlyKnown returns every unknown card whose topic belongs to
// the subject, across all of the subject's topics.
func (db *DB) ListCardsPoorlyKnown(ctx context.Context, subjectID int64) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+cardColumns+`
		FROM cards c
		JOIN topics t ON t.id = c.topic_id
		WHERE t.subject_id = ? AND COALESCE(c.known, 0) = 0
		ORDER BY c.topic_id, c.id
	`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get poorly known cards for subject %d: %w", subjectID, err)
	}
	return collectCards(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(s rowScanner) (domain.Card, error) {
	var (
		c     domain.Card
		known int64
	)
	if err := s.Scan(&c.ID, &c.TopicID, &c.Front, &c.Back, &known); err != nil {
		return domain.Card{}, err
	}
	c.Known = known != 0
	return c, nil
}

func collectCards(rows *sql.Rows) ([]domain.Card, error) {
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read card rows: %w", err)
	}
	return cards, nil
}
