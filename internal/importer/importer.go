// Package importer creates cards in a topic from markdown files kept in a
// local directory or a git repository.
package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/gitsource"
	"github.com/conorfennell/flashcards/internal/knol"
	"github.com/conorfennell/flashcards/internal/parser"
)

// CardStore is the part of the store the importer needs.
type CardStore interface {
	GetTopic(ctx context.Context, id int64) (domain.Topic, error)
	ListCardsByTopic(ctx context.Context, topicID int64) ([]domain.Card, error)
	CreateCard(ctx context.Context, topicID int64, front, back string) (domain.Card, error)
}

// Result reports what an import did. Errors holds per-file and per-card
// failures that did not stop the walk.
type Result struct {
	Parsed  int
	Created int
	Skipped int
	Errors  []error
}

// Importer imports markdown cards into topics.
type Importer struct {
	store    CardStore
	reposDir string
	progress io.Writer
	logger   *slog.Logger
}

// New creates an Importer. Git sources are checked out under reposDir.
// progress receives git transfer output and may be nil.
func New(store CardStore, reposDir string, progress io.Writer, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{
		store:    store,
		reposDir: reposDir,
		progress: progress,
		logger:   logger,
	}
}

// Import reads every .md file under source and creates the cards it finds
// in the topic. Cards whose text matches a card already in the topic,
// ignoring case and surrounding whitespace, are skipped, so importing the
// same source twice creates nothing the second time.
func (im *Importer) Import(ctx context.Context, topicID int64, source string) (Result, error) {
	var result Result

	topic, err := im.store.GetTopic(ctx, topicID)
	if err != nil {
		return result, err
	}

	dir := source
	if gitsource.IsGitURL(source) {
		localPath, err := gitsource.LocalPath(im.reposDir, source)
		if err != nil {
			return result, err
		}
		if err := gitsource.Sync(ctx, im.logger, source, localPath, im.progress); err != nil {
			return result, err
		}
		dir = localPath
	}

	existing, err := im.store.ListCardsByTopic(ctx, topic.ID)
	if err != nil {
		return result, err
	}
	seen := make(map[string]bool, len(existing))
	for _, c := range existing {
		seen[knol.Fingerprint(c)] = true
	}

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		fileCards, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, parseErr))
			return nil
		}
		for _, card := range fileCards {
			result.Parsed++
			fp := knol.Fingerprint(card)
			if seen[fp] {
				result.Skipped++
				continue
			}
			if _, err := im.store.CreateCard(ctx, topic.ID, card.Front, card.Back); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("creating card from %s: %w", path, err))
				continue
			}
			seen[fp] = true
			result.Created++
		}
		return nil
	})
	if walkErr != nil {
		return result, fmt.Errorf("failed to walk %s: %w", dir, walkErr)
	}

	im.logger.Info("import complete",
		"source", source,
		"topic", topic.Name,
		"parsed_cards", result.Parsed,
		"created", result.Created,
		"skipped", result.Skipped,
		"errors", len(result.Errors),
	)
	return result, nil
}
