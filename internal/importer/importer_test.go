package importer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/storage"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func setup(t *testing.T) (*storage.DB, domain.Topic) {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, filepath.Join(t.TempDir(), "import.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	subject, err := db.CreateSubject(ctx, "Go")
	require.NoError(t, err)
	topic, err := db.CreateTopic(ctx, subject.ID, "Concurrency")
	require.NoError(t, err)
	return db, topic
}

func TestImportDirectory(t *testing.T) {
	ctx := context.Background()
	db, topic := setup(t)

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "channels.md"), "Q: Unbuffered send blocks until?\nA: A receiver is ready.\n")
	writeFile(t, filepath.Join(src, "nested", "sync.md"), "Q: Zero value of sync.Mutex?\nA: Unlocked.\n---\nQ: WaitGroup.Add after Wait?\nA: Race.\n")
	writeFile(t, filepath.Join(src, "notes.txt"), "Q: ignored\nA: not markdown\n")
	writeFile(t, filepath.Join(src, ".git", "HEAD.md"), "Q: ignored\nA: inside .git\n")

	// One card already exists with different casing.
	_, err := db.CreateCard(ctx, topic.ID, "zero value of sync.mutex?", "unlocked.")
	require.NoError(t, err)

	im := New(db, t.TempDir(), nil, nil)
	res, err := im.Import(ctx, topic.ID, src)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Skipped)
	assert.Empty(t, res.Errors)

	cards, err := db.ListCardsByTopic(ctx, topic.ID)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
	for _, c := range cards {
		assert.False(t, c.Known)
	}

	// Importing again creates nothing.
	res, err = im.Import(ctx, topic.ID, src)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Skipped)
}

func TestImportDuplicatesWithinSource(t *testing.T) {
	ctx := context.Background()
	db, topic := setup(t)

	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.md"), "Q: Same\nA: card\n")
	writeFile(t, filepath.Join(src, "b.md"), "Q: same \nA: Card\n")

	res, err := New(db, t.TempDir(), nil, nil).Import(ctx, topic.ID, src)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)
	assert.Equal(t, 1, res.Skipped)
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	db, topic := setup(t)
	im := New(db, t.TempDir(), nil, nil)

	_, err := im.Import(ctx, topic.ID+100, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = im.Import(ctx, topic.ID, filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)

	_, err = im.Import(ctx, topic.ID, "git@nohost")
	assert.Error(t, err)
}
