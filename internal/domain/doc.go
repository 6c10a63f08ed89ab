// Package domain defines the flashcard entities shared by the store,
// the deck selector and the session engine, along with the errors they return.
package domain
