// Package parser reads flashcards written in markdown files.
//
// A card starts with a "Q:" line holding the front and continues with an
// "A:" line holding the back. Both may span several lines. A line of "---"
// or the next "Q:" ends the card.
package parser

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/conorfennell/flashcards/internal/domain"
)

const (
	frontPrefix = "Q:"
	backPrefix  = "A:"
	separator   = "---"
)

type state int

const (
	seeking state = iota
	readingFront
	readingBack
)

// ParseFile reads a file from the given path and extracts all cards.
func ParseFile(path string) ([]domain.Card, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads from an io.Reader and extracts all cards. The returned cards
// have no ID or topic; the caller assigns them.
func Parse(r io.Reader) ([]domain.Card, error) {
	scanner := bufio.NewScanner(r)
	var (
		cards        []domain.Card
		currentCard  domain.Card
		currentBlock []string
		currentState = seeking
	)

	flushBlock := func() {
		if len(currentBlock) == 0 {
			return
		}
		content := strings.TrimRight(strings.Join(currentBlock, "\n"), "\n ")
		switch currentState {
		case readingFront:
			currentCard.Front = content
		case readingBack:
			currentCard.Back = content
		}
		currentBlock = nil
	}

	finishCard := func() {
		flushBlock()
		if currentCard.Front != "" {
			cards = append(cards, currentCard)
		}
		currentCard = domain.Card{}
		currentState = seeking
	}

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == separator:
			finishCard()
		case strings.HasPrefix(line, frontPrefix):
			if currentState != seeking {
				finishCard()
			}
			currentState = readingFront
			currentBlock = append(currentBlock, trimPrefix(line, frontPrefix))
		case strings.HasPrefix(line, backPrefix):
			flushBlock()
			currentState = readingBack
			currentBlock = append(currentBlock, trimPrefix(line, backPrefix))
		case currentState != seeking:
			currentBlock = append(currentBlock, line)
		}
	}

	finishCard()

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return cards, nil
}

// trimPrefix drops the marker and at most one following space.
func trimPrefix(line, prefix string) string {
	return strings.TrimPrefix(line[len(prefix):], " ")
}
