package domain

import "errors"

// Errors surfaced to the presentation layer. Callers match them with errors.Is.
var (
	// ErrDuplicateName is returned when a subject or topic name is already
	// taken in its scope.
	ErrDuplicateName = errors.New("name already exists")

	// ErrNotFound is returned when a referenced subject, topic or card does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEmptyDeck is returned when a study session is started with no cards.
	ErrEmptyDeck = errors.New("no cards to study")

	// ErrInvalidState is returned when a session operation is not allowed in
	// the session's current state, such as marking after completion.
	ErrInvalidState = errors.New("invalid session state")

	// ErrValidation is returned when input fails validation.
	ErrValidation = errors.New("validation failed")
)
