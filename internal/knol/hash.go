// Package knol fingerprints card content so imports can recognise cards
// they have already created. A fingerprint is never a card's identity;
// cards are always addressed by id.
package knol

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/conorfennell/flashcards/internal/domain"
)

// Normalize joins the card's front and back after cleaning each part.
// It trims whitespace, lowercases, and normalizes line endings.
func Normalize(card domain.Card) string {
	normalizePart := func(part string) string {
		p := strings.ToLower(part)
		p = strings.ReplaceAll(p, "\r\n", "\n")
		return strings.TrimSpace(p)
	}

	// The newline keeps "ab"+"c" distinct from "a"+"bc".
	return normalizePart(card.Front) + "\n" + normalizePart(card.Back)
}

// Fingerprint normalizes a card and returns its SHA-256 as a hex string.
func Fingerprint(card domain.Card) string {
	sum := sha256.Sum256([]byte(Normalize(card)))
	return fmt.Sprintf("%x", sum)
}
