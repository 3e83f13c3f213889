package osint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	stats := summarize([]time.Duration{
		300 * time.Millisecond,
		100 * time.Millisecond,
		200 * time.Millisecond,
	})
	require.NotNil(t, stats)
	require.Equal(t, 0.1, stats.MinTime)
	require.Equal(t, 0.3, stats.MaxTime)
	require.Equal(t, 0.2, stats.AvgTime)
	require.Equal(t, 0.2, stats.MedianTime)
	require.Equal(t, 0.1, stats.StdDev) // sample stddev of {.1,.2,.3}
}

func TestSummarizeEmpty(t *testing.T) {
	require.Nil(t, summarize(nil))
}

func TestSummarizeSingleSample(t *testing.T) {
	stats := summarize([]time.Duration{42 * time.Millisecond})
	require.NotNil(t, stats)
	require.Equal(t, 0.042, stats.MinTime)
	require.Equal(t, 0.042, stats.MaxTime)
	require.Equal(t, 0.042, stats.MedianTime)
	require.Equal(t, 0.0, stats.StdDev)
}

func TestMedianEvenCount(t *testing.T) {
	require.Equal(t, 0.5, median([]float64{0.25, 0.25, 0.75, 0.75}))
}

func TestRound4(t *testing.T) {
	require.Equal(t, 0.1235, round4(0.12345))
	require.Equal(t, 0.0, round4(0.00004))
}
