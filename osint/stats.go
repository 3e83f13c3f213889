package osint

import (
	"math"
	"sort"
	"time"

	"dnsrecon/engine"
)

// TimingStats summarizes a set of response-time samples, in seconds.
type TimingStats struct {
	MinTime    float64 `json:"min_time"`
	MaxTime    float64 `json:"max_time"`
	AvgTime    float64 `json:"avg_time"`
	MedianTime float64 `json:"median_time"`
	StdDev     float64 `json:"std_dev,omitempty"`
}

// summarize computes order statistics over raw durations. Returns nil for
// an empty sample set. StdDev is the sample standard deviation and stays
// zero for a single sample.
func summarize(samples []time.Duration) *TimingStats {
	if len(samples) == 0 {
		return nil
	}

	secs := make([]float64, len(samples))
	for i, s := range samples {
		secs[i] = s.Seconds()
	}
	sort.Float64s(secs)

	sum := 0.0
	for _, s := range secs {
		sum += s
	}
	mean := sum / float64(len(secs))

	stats := &TimingStats{
		MinTime:    round4(secs[0]),
		MaxTime:    round4(secs[len(secs)-1]),
		AvgTime:    round4(mean),
		MedianTime: round4(median(secs)),
	}
	if len(secs) > 1 {
		stats.StdDev = round4(stddev(secs, mean))
	}
	return stats
}

// median expects sorted input.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// secondsOf converts durations to rounded seconds for result shapes.
func secondsOf(samples []time.Duration) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = engine.Seconds(s)
	}
	return out
}
