package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/session"
)

type recordingStore struct {
	marks map[int64]bool
	err   error
}

func (r *recordingStore) SetKnown(_ context.Context, cardID int64, known bool) error {
	if r.err != nil {
		return r.err
	}
	if r.marks == nil {
		r.marks = make(map[int64]bool)
	}
	r.marks[cardID] = known
	return nil
}

func noShuffle(int, func(i, j int)) {}

func startSession(t *testing.T, store session.KnownSetter) *session.Session {
	t.Helper()
	cards := []domain.Card{
		{ID: 1, TopicID: 1, Front: "2 + 2", Back: "4"},
		{ID: 2, TopicID: 1, Front: "3 * 3", Back: "9"},
	}
	s, err := session.Start(store, cards, session.WithShuffle(noShuffle))
	require.NoError(t, err)
	return s
}

func TestRunSession(t *testing.T) {
	t.Run("marks every card", func(t *testing.T) {
		store := &recordingStore{}
		s := startSession(t, store)
		var out bytes.Buffer

		finished, err := runSession(context.Background(), s, strings.NewReader("s\nk\n\nD\n"), &out)
		require.NoError(t, err)
		assert.True(t, finished)
		assert.Equal(t, map[int64]bool{1: true, 2: false}, store.marks)
		assert.Contains(t, out.String(), "Q: 2 + 2\n")
		assert.Contains(t, out.String(), "A: 4\n")
		assert.NotContains(t, out.String(), "A: 9\n")
		assert.Equal(t, session.Complete, s.State())
	})

	t.Run("unknown input leaves the card in place", func(t *testing.T) {
		s := startSession(t, &recordingStore{})
		var out bytes.Buffer

		finished, err := runSession(context.Background(), s, strings.NewReader("x\nq\n"), &out)
		require.NoError(t, err)
		assert.False(t, finished)
		assert.Contains(t, out.String(), `Unknown command "x".`)
		assert.Equal(t, 0, s.Position())
		assert.Equal(t, 1, strings.Count(out.String(), "Card 1 of 2"))
	})

	t.Run("end of input stops the session", func(t *testing.T) {
		store := &recordingStore{}
		s := startSession(t, store)

		finished, err := runSession(context.Background(), s, strings.NewReader("k\n"), &bytes.Buffer{})
		require.NoError(t, err)
		assert.False(t, finished)
		assert.Equal(t, 1, s.Position())
		assert.Len(t, store.marks, 1)
	})

	t.Run("store failure is returned", func(t *testing.T) {
		boom := errors.New("disk full")
		s := startSession(t, &recordingStore{err: boom})

		_, err := runSession(context.Background(), s, strings.NewReader("k\n"), &bytes.Buffer{})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, s.Position())
	})
}

func TestWriteCardTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCardTable(&buf, nil))
	assert.Equal(t, "No cards.\n", buf.String())

	buf.Reset()
	require.NoError(t, writeCardTable(&buf, []domain.Card{
		{ID: 1, Front: "Primary\ncolours", Back: "Red Blue Yellow", Known: true},
		{ID: 12, Front: "Sky", Back: "Blue"},
	}))
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "Primary colours")
	assert.True(t, strings.HasSuffix(lines[1], "Yes"))
	assert.True(t, strings.HasSuffix(lines[2], "No"))
}
