package cli

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/studyloop/studyloop/internal/predictor"
)

func TestWritePredictionReport(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	completion := time.Date(2025, 6, 29, 10, 0, 0, 0, time.UTC)
	prediction := predictor.Prediction{
		TopicsRemaining:     8,
		WeeksRemaining:      4,
		EstimatedCompletion: &completion,
		Probability:         0.85,
		Confidence:          0.7,
		Milestones: []predictor.Milestone{
			{PercentComplete: 25, TopicsDone: 4, EstimatedDate: time.Date(2025, 6, 8, 10, 0, 0, 0, time.UTC), Confidence: 0.63},
			{PercentComplete: 100, TopicsDone: 10, EstimatedDate: completion, Confidence: 0.42},
		},
	}

	var buf bytes.Buffer
	WritePredictionReport(&buf, prediction)

	got := buf.String()
	assert.Contains(t, got, "Topics remaining: 8")
	assert.Contains(t, got, "Weeks remaining:  4.0")
	assert.Contains(t, got, "Estimated date:   2025-06-29")
	assert.Contains(t, got, "Probability:      85%")
	assert.Contains(t, got, "Confidence:       70%")
	assert.Contains(t, got, "25%")
	assert.Contains(t, got, "2025-06-08")
}

func TestWritePredictionReport_StalledLearner(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	var buf bytes.Buffer
	WritePredictionReport(&buf, predictor.Prediction{
		TopicsRemaining: 5,
		WeeksRemaining:  math.Inf(1),
	})

	got := buf.String()
	assert.Contains(t, got, "no completion date can be estimated")
	assert.Contains(t, got, "Topics remaining: 5")
	assert.NotContains(t, got, "Estimated date")
}
