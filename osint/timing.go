package osint

import (
	"context"
	"strings"
	"time"

	"dnsrecon/config"
	"dnsrecon/engine"
)

// IterationError records a failed attempt during response analysis.
type IterationError struct {
	Iteration        int                `json:"iteration"`
	QueryTimeSeconds float64            `json:"query_time_seconds"`
	Error            *engine.Descriptor `json:"error"`
}

// TimingProfile is the outcome of a response-time analysis.
type TimingProfile struct {
	Domain            string           `json:"domain"`
	RecordType        string           `json:"record_type"`
	Iterations        int              `json:"iterations"`
	Succeeded         int              `json:"successful_queries"`
	Failed            int              `json:"failed_queries"`
	FailureRate       float64          `json:"failure_rate"`
	TotalTimeSeconds  float64          `json:"total_analysis_time_seconds"`
	Samples           []float64        `json:"response_times_seconds,omitempty"`
	Stats             *TimingStats     `json:"response_time_analysis,omitempty"`
	AnomalousTimes    []float64        `json:"anomalous_times,omitempty"`
	AnomalyThreshold  float64          `json:"anomaly_threshold,omitempty"`
	PerformanceRating string           `json:"performance_rating"`
	HighVariance      bool             `json:"high_variance"`
	PotentialIssues   []string         `json:"potential_issues,omitempty"`
	Errors            []IterationError `json:"errors,omitempty"`
}

// ResponseAnalysis times repeated queries for the same name. Iterations
// run sequentially with a short pause between them: the point is to sample
// the resolver's steady-state behavior, not to load-test it. The engine's
// rate limiter still applies underneath.
func (a *Analyzer) ResponseAnalysis(ctx context.Context, domain, recordType string, iterations int, p engine.Profile) (*TimingProfile, error) {
	if _, err := config.Nameservers(p.Type, p.Nameserver); err != nil {
		return nil, engine.NewConfigError("%v", err)
	}

	profile := &TimingProfile{
		Domain:     domain,
		RecordType: strings.ToUpper(recordType),
		Iterations: a.cfg.ClampIterations(iterations),
	}

	var samples []time.Duration
	start := time.Now()
	for i := 0; i < profile.Iterations; i++ {
		r, err := a.eng.Query(ctx, domain, recordType, p)
		if err != nil {
			return nil, err
		}

		elapsed := time.Duration(r.QueryTimeSeconds * float64(time.Second))
		if r.OK() {
			profile.Succeeded++
			samples = append(samples, elapsed)
		} else {
			profile.Failed++
			profile.Errors = append(profile.Errors, IterationError{
				Iteration:        i + 1,
				QueryTimeSeconds: r.QueryTimeSeconds,
				Error:            r.Error,
			})
		}

		if i < profile.Iterations-1 {
			select {
			case <-time.After(a.cfg.IterationDelay):
			case <-ctx.Done():
				profile.Iterations = i + 1
			}
		}
		if ctx.Err() != nil {
			break
		}
	}
	profile.TotalTimeSeconds = engine.Seconds(time.Since(start))

	a.reduceTiming(profile, samples)
	return profile, nil
}

// reduceTiming derives statistics, the performance rating, outliers
// beyond mean + k*stddev, and the variance anomaly flag.
func (a *Analyzer) reduceTiming(profile *TimingProfile, samples []time.Duration) {
	if profile.Iterations > 0 {
		profile.FailureRate = round4(float64(profile.Failed) / float64(profile.Iterations))
	}
	profile.Samples = secondsOf(samples)
	profile.Stats = summarize(samples)

	if profile.Stats == nil {
		profile.PerformanceRating = "UNKNOWN"
		profile.PotentialIssues = append(profile.PotentialIssues,
			"no successful queries; the name may be blocked or the resolver unreachable")
		return
	}

	avg := time.Duration(profile.Stats.AvgTime * float64(time.Second))
	profile.PerformanceRating = a.cfg.PerformanceRating(avg)

	if profile.Stats.StdDev > 0 {
		threshold := profile.Stats.AvgTime + a.cfg.OutlierStdDevs*profile.Stats.StdDev
		profile.AnomalyThreshold = round4(threshold)
		for _, s := range profile.Samples {
			if s > threshold {
				profile.AnomalousTimes = append(profile.AnomalousTimes, s)
			}
		}
		profile.HighVariance = profile.Stats.StdDev > a.cfg.VarianceRatio*profile.Stats.AvgTime
	}

	if profile.HighVariance {
		profile.PotentialIssues = append(profile.PotentialIssues,
			"high response-time variance; unstable path or selective interference")
	}
	if len(profile.AnomalousTimes) > 0 {
		profile.PotentialIssues = append(profile.PotentialIssues,
			"outlier response times detected; possible rate limiting or DDoS protection triggering")
	}
	if profile.Failed > 0 && profile.Succeeded > 0 {
		profile.PotentialIssues = append(profile.PotentialIssues,
			"intermittent failures; possible rate limiting")
	}
	if profile.PerformanceRating == "POOR" {
		profile.PotentialIssues = append(profile.PotentialIssues,
			"consistently slow responses; overloaded or distant infrastructure")
	}
}
