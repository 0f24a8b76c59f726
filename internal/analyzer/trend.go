package analyzer

import "math"

// Trend is the direction of a performance series.
type Trend string

const (
	TrendImproving        Trend = "improving"
	TrendDeclining        Trend = "declining"
	TrendStable           Trend = "stable"
	TrendInsufficientData Trend = "insufficient_data"
)

// trendThreshold is the correlation strength beyond which a series stops
// counting as stable.
const trendThreshold = 0.3

// PearsonAgainstIndex computes the Pearson correlation coefficient between
// the series values and their index sequence 0..n-1. A flat series has no
// variance and correlates at 0.
func PearsonAgainstIndex(series []float64) float64 {
	n := float64(len(series))
	if n < 2 {
		return 0
	}

	var sumX, sumY, sumXY, sumXX, sumYY float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
		sumYY += y * y
	}

	numerator := n*sumXY - sumX*sumY
	denominator := math.Sqrt(n*sumXX-sumX*sumX) * math.Sqrt(n*sumYY-sumY*sumY)
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// ClassifyTrend maps an ordered series to a trend direction. Fewer than
// three points cannot support a direction and classify as insufficient data.
func ClassifyTrend(series []float64) Trend {
	if len(series) < 3 {
		return TrendInsufficientData
	}

	r := PearsonAgainstIndex(series)
	switch {
	case r > trendThreshold:
		return TrendImproving
	case r < -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
