package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/studyloop/studyloop/internal/analyzer"
	"github.com/studyloop/studyloop/internal/metrics"
)

// WriteAnalysisReport writes a terminal report of one analysis pass.
func WriteAnalysisReport(w io.Writer, result analyzer.AnalysisResult, snapshot metrics.PerformanceSnapshot) {
	bold := color.New(color.Bold)

	bold.Fprintln(w, "Performance Analysis Report")
	fmt.Fprintln(w, "===========================")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Overall score: %.1f (%s)\n", result.OverallScore, result.Category)
	fmt.Fprintf(w, "Trend:         %s\n", result.Trend)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-12s  %6s\n", "Component", "Score")
	fmt.Fprintf(w, "%-12s  %6s\n", "---------", "-----")
	fmt.Fprintf(w, "%-12s  %6.1f\n", "Quiz", result.Components.Quiz)
	fmt.Fprintf(w, "%-12s  %6.1f\n", "Progress", result.Components.Progress)
	fmt.Fprintf(w, "%-12s  %6.1f\n", "Retention", result.Components.Retention)
	fmt.Fprintf(w, "%-12s  %6.1f\n", "Completion", result.Components.Completion)
	fmt.Fprintf(w, "%-12s  %6.1f\n", "Engagement", result.Components.Engagement)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Window: %s to %s (%d quizzes, %d sessions, %d reviews)\n",
		snapshot.PeriodStart.Format("2006-01-02"),
		snapshot.PeriodEnd.Format("2006-01-02"),
		snapshot.QuizCount, snapshot.SessionCount, snapshot.ReviewCount)
	fmt.Fprintf(w, "Topics: %d mastered of %d started, velocity %.1f/week\n",
		snapshot.TopicsMastered, snapshot.TopicsStarted, snapshot.LearningVelocity)
	fmt.Fprintln(w)

	if len(result.Strengths) > 0 {
		green := color.New(color.FgGreen)
		green.Fprintln(w, "Strengths:")
		for _, s := range result.Strengths {
			fmt.Fprintf(w, "  + %s\n", s)
		}
	}
	if len(result.Weaknesses) > 0 {
		red := color.New(color.FgRed)
		red.Fprintln(w, "Weaknesses:")
		for _, weakness := range result.Weaknesses {
			fmt.Fprintf(w, "  - %s\n", weakness)
		}
	}

	if len(result.Recommendations) == 0 {
		return
	}
	fmt.Fprintln(w)
	bold.Fprintln(w, "Recommendations")
	for _, rec := range result.Recommendations {
		fmt.Fprintf(w, "\n[%s] %s\n", rec.Priority, rec.Title)
		fmt.Fprintf(w, "  %s\n", rec.Description)
		for _, item := range rec.ActionItems {
			fmt.Fprintf(w, "  * %s\n", item)
		}
	}
}
