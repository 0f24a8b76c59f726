package metrics

import "math"

// Mean returns the arithmetic mean of the series, or 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// StdDev returns the population standard deviation of the series.
func StdDev(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	mean := Mean(series)
	var sum float64
	for _, v := range series {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(series)))
}

// ConsistencyScore maps a series to a 0-100 score from the inverse
// coefficient of variation: 100 - 100*(stdev/mean), floored at 0. An empty
// or zero-mean series scores 0.
func ConsistencyScore(series []float64) float64 {
	mean := Mean(series)
	if mean == 0 {
		return 0
	}
	score := 100 - 100*(StdDev(series)/mean)
	if score < 0 {
		return 0
	}
	return score
}
