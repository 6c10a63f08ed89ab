package domain

// Subject is the root of the containment hierarchy. Names are unique.
type Subject struct {
	ID   int64
	Name string
}

// Topic groups cards under a subject. Names are unique within a subject.
type Topic struct {
	ID        int64
	SubjectID int64
	Name      string
}

// Card represents a single front/back flashcard.
// Known is the only review state kept; new cards start unknown.
type Card struct {
	ID      int64
	TopicID int64
	Front   string
	Back    string
	Known   bool
}

// Deck is the ordered set of cards assembled for one study session.
// It is never persisted.
type Deck []Card

// Len returns the number of cards in the deck.
func (d Deck) Len() int {
	return len(d)
}

// Clone returns a copy of the deck that shares no backing array with d.
func (d Deck) Clone() Deck {
	if d == nil {
		return nil
	}
	out := make(Deck, len(d))
	copy(out, d)
	return out
}
