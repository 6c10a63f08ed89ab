// Package deck resolves a study scope into the cards to study.
package deck

import (
	"context"
	"fmt"

	"github.com/conorfennell/flashcards/internal/domain"
)

// Source is the part of the store the selector reads from.
type Source interface {
	ListCardsByTopic(ctx context.Context, topicID int64) ([]domain.Card, error)
	ListCardsPoorlyKnown(ctx context.Context, subjectID int64) ([]domain.Card, error)
}

// Scope is a selection criterion for building a deck.
type Scope interface {
	scope()
}

// TopicScope selects every card of one topic.
type TopicScope struct {
	TopicID int64
}

// PoorlyKnownScope selects the unknown cards of every topic in a subject.
type PoorlyKnownScope struct {
	SubjectID int64
}

func (TopicScope) scope()       {}
func (PoorlyKnownScope) scope() {}

func (s TopicScope) String() string       { return fmt.Sprintf("topic %d", s.TopicID) }
func (s PoorlyKnownScope) String() string { return fmt.Sprintf("poorly known in subject %d", s.SubjectID) }

// Selector builds decks from a Source.
type Selector struct {
	source Source
}

// NewSelector creates a selector reading from source.
func NewSelector(source Source) *Selector {
	return &Selector{source: source}
}

// Select returns the cards matching scope. A scope with no matching cards
// yields an empty deck and a nil error; deciding what to show for that is
// up to the caller.
func (s *Selector) Select(ctx context.Context, scope Scope) (domain.Deck, error) {
	var (
		cards []domain.Card
		err   error
	)
	switch sc := scope.(type) {
	case TopicScope:
		cards, err = s.source.ListCardsByTopic(ctx, sc.TopicID)
	case PoorlyKnownScope:
		cards, err = s.source.ListCardsPoorlyKnown(ctx, sc.SubjectID)
	default:
		return nil, fmt.Errorf("%w: unsupported scope %T", domain.ErrValidation, scope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select deck for %v: %w", scope, err)
	}
	if cards == nil {
		return domain.Deck{}, nil
	}
	return domain.Deck(cards), nil
}
