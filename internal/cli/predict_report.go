package cli

import (
	"fmt"
	"io"
	"math"

	"github.com/fatih/color"

	"github.com/studyloop/studyloop/internal/predictor"
)

// WritePredictionReport writes a terminal report of a completion prediction.
func WritePredictionReport(w io.Writer, prediction predictor.Prediction) {
	bold := color.New(color.Bold)

	bold.Fprintln(w, "Completion Prediction")
	fmt.Fprintln(w, "=====================")
	fmt.Fprintln(w)

	if math.IsInf(prediction.WeeksRemaining, 1) {
		color.New(color.FgRed).Fprintln(w, "No topics were mastered recently, so no completion date can be estimated.")
		fmt.Fprintf(w, "Topics remaining: %d\n", prediction.TopicsRemaining)
		return
	}

	fmt.Fprintf(w, "Topics remaining: %d\n", prediction.TopicsRemaining)
	fmt.Fprintf(w, "Weeks remaining:  %.1f\n", prediction.WeeksRemaining)
	if prediction.EstimatedCompletion != nil {
		fmt.Fprintf(w, "Estimated date:   %s\n", prediction.EstimatedCompletion.Format("2006-01-02"))
	}
	fmt.Fprintf(w, "Probability:      %.0f%%\n", prediction.Probability*100)
	fmt.Fprintf(w, "Confidence:       %.0f%%\n", prediction.Confidence*100)

	if len(prediction.Milestones) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-10s  %-12s  %-12s  %s\n", "Milestone", "Topics Done", "Date", "Confidence")
	fmt.Fprintf(w, "%-10s  %-12s  %-12s  %s\n", "---------", "-----------", "----", "----------")
	for _, m := range prediction.Milestones {
		fmt.Fprintf(w, "%9d%%  %-12d  %-12s  %.0f%%\n",
			m.PercentComplete, m.TopicsDone, m.EstimatedDate.Format("2006-01-02"), m.Confidence*100)
	}
}
