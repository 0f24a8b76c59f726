package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studyloop/studyloop/internal/pdf"
	"github.com/studyloop/studyloop/internal/plan"
)

// RenderPlanMarkdown renders a study plan as a markdown document. When a
// template is given, it is prepended as a preamble.
func RenderPlanMarkdown(p *plan.StudyPlan, courseTitle, template string) string {
	var b strings.Builder

	if template != "" {
		b.WriteString(strings.TrimRight(template, "\n"))
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, "# Study Plan: %s\n\n", courseTitle)
	fmt.Fprintf(&b, "- Type: %s\n", p.Type)
	fmt.Fprintf(&b, "- Status: %s\n", p.Status)
	fmt.Fprintf(&b, "- Daily hours: %.1f\n", p.DailyHours)
	fmt.Fprintf(&b, "- Session length: %d minutes\n", p.SessionMinutes)
	fmt.Fprintf(&b, "- Sessions per day: %d\n", p.SessionsPerDay)
	fmt.Fprintf(&b, "- Duration: %d weeks\n", p.TotalWeeks)

	sessions := p.ActiveSessions()
	if len(sessions) > 0 {
		b.WriteString("\n## Schedule\n\n")
		b.WriteString("| Date | Start | Minutes | Load | Tasks |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		for _, s := range sessions {
			load := fmt.Sprintf("%.0f", s.CognitiveLoad)
			if s.Overloaded {
				load += " (!)"
			}
			fmt.Fprintf(&b, "| %s | %02d:00 | %d | %s | %s |\n",
				s.Date.Format("2006-01-02"), s.StartHour, s.DurationMinutes, load, describeTasks(s.Tasks))
		}
	}

	if len(p.Adaptations) > 0 {
		b.WriteString("\n## Adaptations\n\n")
		for _, a := range p.Adaptations {
			fmt.Fprintf(&b, "- %s: %s\n", a.Trigger, a.Description)
		}
	}

	return b.String()
}

func describeTasks(tasks []plan.Task) string {
	parts := make([]string, 0, len(tasks))
	for _, task := range tasks {
		part := fmt.Sprintf("%s (%s, %.1fh)", task.Topic, task.Type, task.Hours)
		if task.Optional {
			part += " optional"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

// ExportPlan writes the plan markdown into the output directory as
// plan_<id>.md and optionally converts it to PDF. It returns the paths of the
// files it wrote.
func ExportPlan(outputDir string, p *plan.StudyPlan, courseTitle, template string, toPDF bool) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll(%s) > %w", outputDir, err)
	}

	markdownPath := filepath.Join(outputDir, fmt.Sprintf("plan_%d.md", p.ID))
	content := RenderPlanMarkdown(p, courseTitle, template)
	if err := os.WriteFile(markdownPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("os.WriteFile(%s) > %w", markdownPath, err)
	}

	paths := []string{markdownPath}
	if toPDF {
		pdfPath, err := pdf.ConvertMarkdownToPDF(markdownPath)
		if err != nil {
			return nil, fmt.Errorf("pdf.ConvertMarkdownToPDF() > %w", err)
		}
		paths = append(paths, pdfPath)
	}
	return paths, nil
}
