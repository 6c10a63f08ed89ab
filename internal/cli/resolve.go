package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/conorfennell/flashcards/internal/domain"
)

// lookupName finds by the trimmed name first. Databases written by earlier
// versions may hold untrimmed names, so a miss retries the name as typed.
func lookupName[T any](ctx context.Context, name string, find func(context.Context, string) (T, error)) (T, error) {
	trimmed := strings.TrimSpace(name)
	v, err := find(ctx, trimmed)
	if errors.Is(err, domain.ErrNotFound) && trimmed != name {
		return find(ctx, name)
	}
	return v, err
}

func (a *app) subjectByName(ctx context.Context, name string) (domain.Subject, error) {
	return lookupName(ctx, name, a.db.FindSubjectByName)
}

func (a *app) topicOf(ctx context.Context, subjectID int64, name string) (domain.Topic, error) {
	return lookupName(ctx, name, func(ctx context.Context, n string) (domain.Topic, error) {
		return a.db.FindTopicByName(ctx, subjectID, n)
	})
}

func (a *app) topicByName(ctx context.Context, subjectName, topicName string) (domain.Subject, domain.Topic, error) {
	subject, err := a.subjectByName(ctx, subjectName)
	if err != nil {
		return domain.Subject{}, domain.Topic{}, err
	}
	topic, err := a.topicOf(ctx, subject.ID, topicName)
	if err != nil {
		return domain.Subject{}, domain.Topic{}, err
	}
	return subject, topic, nil
}
