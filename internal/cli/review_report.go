package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/studyloop/studyloop/internal/spacedrep"
)

// WriteReviewQueue writes the prioritized due-review queue.
func WriteReviewQueue(w io.Writer, items []spacedrep.Item, now time.Time) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No cards are due for review.")
		return
	}

	fmt.Fprintf(w, "%d cards due for review\n\n", len(items))
	fmt.Fprintf(w, "%-8s  %-8s  %-10s  %-12s  %s\n", "Card", "Overdue", "Success", "Difficulty", "Priority")
	fmt.Fprintf(w, "%-8s  %-8s  %-10s  %-12s  %s\n", "----", "-------", "-------", "----------", "--------")
	for _, item := range items {
		fmt.Fprintf(w, "%-8d  %5.1f d  %8.0f%%  %-12s  %8.1f\n",
			item.CardID,
			spacedrep.OverdueDays(item.State, now),
			item.SuccessRate*100,
			item.Difficulty,
			spacedrep.PriorityScore(item, now),
		)
	}
}
