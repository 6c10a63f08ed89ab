// Package session runs one study pass over a deck: it shuffles the cards,
// tracks the current card and whether its answer is showing, and writes each
// known/unknown mark to the store before moving on.
//
// A Session is driven synchronously by a single caller and is not safe for
// concurrent use. Abandoning a session is done by dropping it; marks already
// made stay committed.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/conorfennell/flashcards/internal/domain"
)

// KnownSetter persists a card's known flag.
type KnownSetter interface {
	SetKnown(ctx context.Context, cardID int64, known bool) error
}

// State is the lifecycle state of a session.
type State int

const (
	// Active means there is a current card to show and mark.
	Active State = iota
	// Complete means every card has been marked. It is terminal.
	Complete
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Summary counts the outcomes of a session so far.
type Summary struct {
	Total     int
	Marked    int
	Known     int
	Unknown   int
	Remaining int
}

// Session is one study pass over a shuffled deck.
type Session struct {
	id       uuid.UUID
	store    KnownSetter
	logger   *slog.Logger
	deck     domain.Deck
	cursor   int
	revealed bool
	known    int
	unknown  int
}

type options struct {
	shuffle func(n int, swap func(i, j int))
	logger  *slog.Logger
}

// Option configures Start.
type Option func(*options)

// WithShuffle replaces the uniform random shuffle. Tests use it to fix the
// presentation order.
func WithShuffle(fn func(n int, swap func(i, j int))) Option {
	return func(o *options) {
		if fn != nil {
			o.shuffle = fn
		}
	}
}

// WithLogger sets the logger for session events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Start copies cards, shuffles the copy and returns a session positioned on
// the first card with its answer hidden. It returns domain.ErrEmptyDeck if
// there is nothing to study.
func Start(store KnownSetter, cards []domain.Card, opts ...Option) (*Session, error) {
	if len(cards) == 0 {
		return nil, domain.ErrEmptyDeck
	}

	o := options{
		shuffle: rand.Shuffle,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	deck := domain.Deck(cards).Clone()
	o.shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	s := &Session{
		id:     uuid.New(),
		store:  store,
		deck:   deck,
		logger: o.logger,
	}
	s.logger = s.logger.With("session_id", s.id.String())
	s.logger.Info("study session started", "cards", len(deck))
	return s, nil
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID { return s.id }

// State reports whether the session is Active or Complete.
func (s *Session) State() State {
	if s.cursor >= len(s.deck) {
		return Complete
	}
	return Active
}

// Revealed reports whether the current card's answer is showing.
func (s *Session) Revealed() bool { return s.revealed }

// Position is the zero-based index of the current card. It equals Len once
// the session is complete.
func (s *Session) Position() int { return s.cursor }

// Len is the number of cards in the session.
func (s *Session) Len() int { return len(s.deck) }

// Deck returns a copy of the session's cards in presentation order,
// with known flags as marked so far.
func (s *Session) Deck() domain.Deck { return s.deck.Clone() }

// Current returns the card being studied.
func (s *Session) Current() (domain.Card, error) {
	if s.State() == Complete {
		return domain.Card{}, fmt.Errorf("current card: %w", domain.ErrInvalidState)
	}
	return s.deck[s.cursor], nil
}

// Reveal shows the answer of the current card. Calling it again is a no-op.
func (s *Session) Reveal() error {
	if s.State() == Complete {
		return fmt.Errorf("reveal: %w", domain.ErrInvalidState)
	}
	s.revealed = true
	return nil
}

// Mark records whether the current card is known and moves to the next
// card. The store write happens first; if it fails the session stays on the
// same card. Marking is allowed whether or not the answer was revealed.
func (s *Session) Mark(ctx context.Context, known bool) error {
	if s.State() == Complete {
		return fmt.Errorf("mark: %w", domain.ErrInvalidState)
	}

	card := &s.deck[s.cursor]
	if err := s.store.SetKnown(ctx, card.ID, known); err != nil {
		return fmt.Errorf("failed to mark card %d: %w", card.ID, err)
	}

	card.Known = known
	if known {
		s.known++
	} else {
		s.unknown++
	}
	s.cursor++
	s.revealed = false

	s.logger.Debug("card marked", "card_id", card.ID, "known", known, "position", s.cursor)
	if s.State() == Complete {
		s.logger.Info("study session complete", "known", s.known, "unknown", s.unknown)
	}
	return nil
}

// Summary returns the outcome counts so far.
func (s *Session) Summary() Summary {
	return Summary{
		Total:     len(s.deck),
		Marked:    s.cursor,
		Known:     s.known,
		Unknown:   s.unknown,
		Remaining: len(s.deck) - s.cursor,
	}
}
