package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/conorfennell/flashcards/internal/domain"
)

// writeCardTable prints cards as ID, Front, Back and Known (Yes/No) columns.
func writeCardTable(w io.Writer, cards []domain.Card) error {
	if len(cards) == 0 {
		_, err := fmt.Fprintln(w, "No cards.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tFront\tBack\tKnown")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", c.ID, oneLine(c.Front), oneLine(c.Back), yesNo(c.Known))
	}
	return tw.Flush()
}

// oneLine folds multi-line card text so it fits a table cell.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
