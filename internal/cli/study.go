package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/flashcards/internal/deck"
	"github.com/conorfennell/flashcards/internal/domain"
	"github.com/conorfennell/flashcards/internal/session"
)

const studyPrompt = "[s] show answer  [k] know  [d] don't know  [q] quit > "

func newStudyCommand(a *app) *cobra.Command {
	var subject, topic string
	var poorlyKnown bool

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study a topic, or the unknown cards of a subject",
		Long: `Study shuffles a deck and shows one card at a time. Reveal the answer
with s, then mark the card with k (know) or d (don't know). Each mark is
saved immediately; quitting with q keeps the marks made so far.`,
		Example: `  flashcards study --subject Go --topic Channels
  flashcards study --subject Go --poorly-known`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.subjectByName(ctx, subject)
			if err != nil {
				return err
			}

			var scope deck.Scope = deck.PoorlyKnownScope{SubjectID: s.ID}
			if !poorlyKnown {
				t, err := a.topicOf(ctx, s.ID, topic)
				if err != nil {
					return err
				}
				scope = deck.TopicScope{TopicID: t.ID}
			}

			cards, err := deck.NewSelector(a.db).Select(ctx, scope)
			if err != nil {
				return err
			}
			sess, err := session.Start(a.db, cards, session.WithLogger(a.logger))
			if errors.Is(err, domain.ErrEmptyDeck) {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards to study.")
				return nil
			}
			if err != nil {
				return err
			}
			return a.study(ctx, sess, scope, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "", "subject name (required)")
	cmd.Flags().StringVar(&topic, "topic", "", "study every card of this topic")
	cmd.Flags().BoolVar(&poorlyKnown, "poorly-known", false, "study the unknown cards of every topic in the subject")
	_ = cmd.MarkFlagRequired("subject")
	cmd.MarkFlagsOneRequired("topic", "poorly-known")
	cmd.MarkFlagsMutuallyExclusive("topic", "poorly-known")
	return cmd
}

// study runs the session loop, prints the summary, and then prints the
// scope's cards as the selector now sees them, however the loop ended.
func (a *app) study(ctx context.Context, sess *session.Session, scope deck.Scope, in io.Reader, out io.Writer) error {
	finished, err := runSession(ctx, sess, in, out)
	if err != nil {
		return err
	}
	sum := sess.Summary()
	if finished {
		fmt.Fprintf(out, "\nSession complete! Known: %d, not known: %d of %d cards.\n\n",
			sum.Known, sum.Unknown, sum.Total)
	} else {
		fmt.Fprintf(out, "\nStopped after %d of %d cards. Known: %d, not known: %d.\n\n",
			sum.Marked, sum.Total, sum.Known, sum.Unknown)
	}

	cards, err := deck.NewSelector(a.db).Select(ctx, scope)
	if err != nil {
		return err
	}
	return writeCardTable(out, cards)
}

// runSession reads one command per line from in until the session is
// complete. It reports false when the user quits or input ends first.
func runSession(ctx context.Context, sess *session.Session, in io.Reader, out io.Writer) (bool, error) {
	sc := bufio.NewScanner(in)
	shown := -1

	for sess.State() == session.Active {
		card, err := sess.Current()
		if err != nil {
			return false, err
		}
		if shown != sess.Position() {
			shown = sess.Position()
			fmt.Fprintf(out, "\nCard %d of %d\nQ: %s\n", shown+1, sess.Len(), card.Front)
		}

		fmt.Fprint(out, studyPrompt)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return false, sc.Err()
		}

		switch strings.ToLower(strings.TrimSpace(sc.Text())) {
		case "s", "show":
			if err := sess.Reveal(); err != nil {
				return false, err
			}
			fmt.Fprintf(out, "A: %s\n", card.Back)
		case "k", "know":
			if err := sess.Mark(ctx, true); err != nil {
				return false, err
			}
		case "d", "dont", "don't":
			if err := sess.Mark(ctx, false); err != nil {
				return false, err
			}
		case "q", "quit":
			return false, nil
		case "":
		default:
			fmt.Fprintf(out, "Unknown command %q.\n", sc.Text())
		}
	}
	return true, nil
}
