package cli

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/conorfennell/flashcards/internal/domain"
)

// harness runs commands against one database file.
type harness struct {
	t      *testing.T
	dbPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &harness{t: t, dbPath: filepath.Join(t.TempDir(), "cards.db")}
}

func (h *harness) run(input string, args ...string) (string, error) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	full := append(args, "--db", h.dbPath, "--log-level", "error")
	err := Run(context.Background(), full, strings.NewReader(input), &out, &errOut)
	return out.String(), err
}

func (h *harness) mustRun(input string, args ...string) string {
	h.t.Helper()
	out, err := h.run(input, args...)
	require.NoError(h.t, err, "args: %v", args)
	return out
}

func (h *harness) seed() {
	h.t.Helper()
	h.mustRun("", "subject", "add", "Geography")
	h.mustRun("", "topic", "add", "--subject", "Geography", "Capitals")
	h.mustRun("", "card", "add", "--subject", "Geography", "--topic", "Capitals",
		"--front", "Capital of France?", "--back", "Paris")
	h.mustRun("", "card", "add", "--subject", "Geography", "--topic", "Capitals",
		"--front", "Capital of Spain?", "--back", "Madrid")
}

func TestSubjectAndTopicCommands(t *testing.T) {
	h := newHarness(t)

	out := h.mustRun("", "subject", "list")
	assert.Equal(t, "No subjects.\n", out)

	out = h.mustRun("", "subject", "add", "  History ")
	assert.Equal(t, "Created subject \"History\"\n", out)
	h.mustRun("", "subject", "add", "Biology")

	_, err := h.run("", "subject", "add", "History")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)

	_, err = h.run("", "subject", "add", "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	out = h.mustRun("", "subject", "list")
	assert.Equal(t, "Biology\nHistory\n", out)

	h.mustRun("", "topic", "add", "--subject", "History", "Rome")
	_, err = h.run("", "topic", "add", "--subject", "History", "Rome")
	assert.ErrorIs(t, err, domain.ErrDuplicateName)
	h.mustRun("", "topic", "add", "--subject", "Biology", "Rome")

	_, err = h.run("", "topic", "add", "--subject", "Physics", "Optics")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out = h.mustRun("", "topic", "list", "--subject", "History")
	assert.Equal(t, "Rome\n", out)

	h.mustRun("", "topic", "delete", "--subject", "History", "Rome")
	out = h.mustRun("", "topic", "list", "--subject", "History")
	assert.Equal(t, "No topics.\n", out)

	h.mustRun("", "subject", "delete", "Biology")
	_, err = h.run("", "topic", "list", "--subject", "Biology")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCardCommands(t *testing.T) {
	h := newHarness(t)
	h.seed()

	out := h.mustRun("", "card", "list", "--subject", "Geography", "--topic", "Capitals")
	assert.Contains(t, out, "Capital of France?")
	assert.Contains(t, out, "Madrid")
	assert.Equal(t, 2, strings.Count(out, "No\n"))

	out = h.mustRun("", "card", "edit", "1", "--back", "Paris, on the Seine")
	assert.Equal(t, "Updated card 1\n", out)
	out = h.mustRun("", "card", "list", "--subject", "Geography", "--topic", "Capitals")
	assert.Contains(t, out, "Capital of France?")
	assert.Contains(t, out, "Paris, on the Seine")

	_, err := h.run("", "card", "edit", "1")
	assert.Error(t, err)

	_, err = h.run("", "card", "edit", "99", "--front", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	h.mustRun("", "card", "delete", "2")
	_, err = h.run("", "card", "delete", "2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.run("", "card", "delete", "two")
	assert.Error(t, err)

	out = h.mustRun("", "card", "list", "--subject", "Geography", "--topic", "Capitals")
	assert.NotContains(t, out, "Madrid")
}

func TestStudyCommand(t *testing.T) {
	h := newHarness(t)
	h.seed()

	// Show the first answer, know it, then mark the second unknown
	// without revealing it.
	out := h.mustRun("s\nk\nd\n", "study", "--subject", "Geography", "--topic", "Capitals")
	assert.Contains(t, out, "Card 1 of 2")
	assert.Contains(t, out, "Card 2 of 2")
	assert.Contains(t, out, "Session complete! Known: 1, not known: 1 of 2 cards.")
	assert.Equal(t, 1, strings.Count(out, "Yes\n"))
	assert.Equal(t, 1, strings.Count(out, "No\n"))

	// Only the unknown card is left in the poorly known deck.
	out = h.mustRun("q\n", "study", "--subject", "Geography", "--poorly-known")
	assert.Contains(t, out, "Card 1 of 1")
	assert.Contains(t, out, "Stopped after 0 of 1 cards.")
	assert.Equal(t, 1, strings.Count(out, "No\n"))

	out = h.mustRun("k\n", "study", "--subject", "Geography", "--poorly-known")
	assert.Contains(t, out, "Session complete! Known: 1, not known: 0 of 1 cards.")
	assert.True(t, strings.HasSuffix(out, "No cards.\n"))

	out = h.mustRun("", "study", "--subject", "Geography", "--poorly-known")
	assert.Equal(t, "No cards to study.\n", out)

	out = h.mustRun("", "card", "list", "--subject", "Geography", "--topic", "Capitals")
	assert.Equal(t, 2, strings.Count(out, "Yes\n"))
}

func TestStudyShowsScopeAfterSession(t *testing.T) {
	t.Run("poorly known drops cards marked known", func(t *testing.T) {
		h := newHarness(t)
		h.seed()

		out := h.mustRun("k\nd\n", "study", "--subject", "Geography", "--poorly-known")
		assert.Contains(t, out, "Session complete! Known: 1, not known: 1 of 2 cards.")
		assert.Equal(t, 0, strings.Count(out, "Yes\n"))
		assert.Equal(t, 1, strings.Count(out, "No\n"))
	})

	t.Run("quitting still shows the topic", func(t *testing.T) {
		h := newHarness(t)
		h.seed()

		out := h.mustRun("k\nq\n", "study", "--subject", "Geography", "--topic", "Capitals")
		assert.Contains(t, out, "Stopped after 1 of 2 cards. Known: 1, not known: 0.")
		assert.Contains(t, out, "Paris")
		assert.Contains(t, out, "Madrid")
		assert.Equal(t, 1, strings.Count(out, "Yes\n"))
		assert.Equal(t, 1, strings.Count(out, "No\n"))
	})
}

func TestStudyCommandScopes(t *testing.T) {
	h := newHarness(t)
	h.seed()
	h.mustRun("", "topic", "add", "--subject", "Geography", "Rivers")

	out := h.mustRun("", "study", "--subject", "Geography", "--topic", "Rivers")
	assert.Equal(t, "No cards to study.\n", out)

	_, err := h.run("", "study", "--subject", "Geography")
	assert.Error(t, err)

	_, err = h.run("", "study", "--subject", "Geography", "--topic", "Capitals", "--poorly-known")
	assert.Error(t, err)

	_, err = h.run("", "study", "--subject", "Geography", "--topic", "Mountains")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestImportCommand(t *testing.T) {
	h := newHarness(t)
	h.seed()

	dir := t.TempDir()
	notes := "Q: Capital of France?\nA: Paris\n---\nQ: Capital of Italy?\nA: Rome\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "capitals.md"), []byte(notes), 0o644))

	out := h.mustRun("", "import", "--subject", "Geography", "--topic", "Capitals", dir)
	assert.Equal(t, "Found 2 cards: 1 created, 1 already present, 0 errors.\n", out)

	out = h.mustRun("", "import", "--subject", "Geography", "--topic", "Capitals", dir)
	assert.Equal(t, "Found 2 cards: 0 created, 2 already present, 0 errors.\n", out)

	out = h.mustRun("", "card", "list", "--subject", "Geography", "--topic", "Capitals")
	assert.Contains(t, out, "Capital of Italy?")
}

func TestConfigFileSelectsDatabase(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	dir := t.TempDir()
	dbPath := filepath.Join(dir, "data", "from-config.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("database:\n  path: "+dbPath+"\nlog:\n  level: error\n"), 0o644))

	var out bytes.Buffer
	err := Run(context.Background(), []string{"subject", "add", "Music", "--config", cfgPath},
		strings.NewReader(""), &out, &bytes.Buffer{})
	require.NoError(t, err)

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestUntrimmedLegacyNames(t *testing.T) {
	h := newHarness(t)
	h.mustRun("", "subject", "list")

	raw, err := sql.Open("sqlite", h.dbPath)
	require.NoError(t, err)
	res, err := raw.Exec(`INSERT INTO subjects (name) VALUES (' Legacy ')`)
	require.NoError(t, err)
	subjectID, err := res.LastInsertId()
	require.NoError(t, err)
	_, err = raw.Exec(`INSERT INTO topics (subject_id, name) VALUES (?, 'Old topic  ')`, subjectID)
	require.NoError(t, err)
	require.NoError(t, raw.Close())

	out := h.mustRun("", "topic", "list", "--subject", " Legacy ")
	assert.Equal(t, "Old topic  \n", out)

	h.mustRun("", "card", "add", "--subject", " Legacy ", "--topic", "Old topic  ",
		"--front", "Still reachable?", "--back", "Yes")
	out = h.mustRun("", "card", "list", "--subject", " Legacy ", "--topic", "Old topic  ")
	assert.Contains(t, out, "Still reachable?")

	_, err = h.run("", "topic", "list", "--subject", "Legacy")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
