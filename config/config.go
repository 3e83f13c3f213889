package config

import "time"

const (
	defaultRateLimit = 30 // queries per second per nameserver
	defaultTimeout   = 10 * time.Second
	minTimeout       = 1 * time.Second
	maxTimeout       = 60 * time.Second

	defaultMaxWorkers = 10
	maxWorkers        = 50

	// Concurrent queries toward a single resolver during query_all.
	defaultQueryAllConcurrency = 3

	defaultWildcardTests  = 5
	maxWildcardTests      = 10
	wildcardLabelLength   = 32
	defaultIterations     = 10
	defaultIterationDelay = 100 * time.Millisecond
)

// Config holds all tunables for the reconnaissance engine. Construct once
// with Default() and pass it down; nothing in the engine reads globals.
type Config struct {
	// Rate limiting
	RateLimit int // queries per second per nameserver address

	// Timeouts
	DefaultTimeout time.Duration
	MinTimeout     time.Duration
	MaxTimeout     time.Duration

	// Concurrency
	DefaultMaxWorkers   int
	MaxWorkers          int
	QueryAllConcurrency int

	// Wildcard detection
	WildcardTestCount   int
	MaxWildcardTests    int
	WildcardLabelLength int

	// Response-time analysis
	Iterations     int
	IterationDelay time.Duration

	// Classification thresholds. These are tunables, not protocol.
	PerformanceExcellent time.Duration
	PerformanceGood      time.Duration
	PerformanceFair      time.Duration

	// stddev > VarianceRatio*mean is reported as a variance anomaly.
	VarianceRatio float64
	// Samples beyond mean + OutlierStdDevs*stddev are outliers.
	OutlierStdDevs float64

	// Trust levels for propagation checks: number of agreeing resolvers.
	TrustHighResolvers   int
	TrustMediumResolvers int

	// Substrings marking a wildcard target as CDN/hosting infrastructure.
	CDNIndicators []string
}

// Default returns the standard configuration.
func Default() *Config {
	return &Config{
		RateLimit: defaultRateLimit,

		DefaultTimeout: defaultTimeout,
		MinTimeout:     minTimeout,
		MaxTimeout:     maxTimeout,

		DefaultMaxWorkers:   defaultMaxWorkers,
		MaxWorkers:          maxWorkers,
		QueryAllConcurrency: defaultQueryAllConcurrency,

		WildcardTestCount:   defaultWildcardTests,
		MaxWildcardTests:    maxWildcardTests,
		WildcardLabelLength: wildcardLabelLength,

		Iterations:     defaultIterations,
		IterationDelay: defaultIterationDelay,

		PerformanceExcellent: 50 * time.Millisecond,
		PerformanceGood:      150 * time.Millisecond,
		PerformanceFair:      400 * time.Millisecond,

		VarianceRatio:  0.5,
		OutlierStdDevs: 2.0,

		TrustHighResolvers:   3,
		TrustMediumResolvers: 2,

		CDNIndicators: []string{
			"cloudflare", "amazonaws", "cloudfront", "fastly",
			"cdn", "akamai", "edgecast", "maxcdn", "keycdn",
		},
	}
}

// ClampTimeout keeps a caller-supplied timeout inside the allowed range.
// Zero or negative means "use the default".
func (c *Config) ClampTimeout(d time.Duration) time.Duration {
	if d <= 0 {
		return c.DefaultTimeout
	}
	if d < c.MinTimeout {
		return c.MinTimeout
	}
	if d > c.MaxTimeout {
		return c.MaxTimeout
	}
	return d
}

// ClampWorkers keeps a caller-supplied worker count inside the allowed range.
func (c *Config) ClampWorkers(n int) int {
	if n <= 0 {
		return c.DefaultMaxWorkers
	}
	if n > c.MaxWorkers {
		return c.MaxWorkers
	}
	return n
}

// ClampWildcardTests keeps a probe count inside the allowed range.
func (c *Config) ClampWildcardTests(n int) int {
	if n <= 0 {
		return c.WildcardTestCount
	}
	if n > c.MaxWildcardTests {
		return c.MaxWildcardTests
	}
	return n
}

// ClampIterations keeps a response-analysis iteration count sane.
func (c *Config) ClampIterations(n int) int {
	if n <= 0 {
		return c.Iterations
	}
	if n > 100 {
		return 100
	}
	return n
}

// PerformanceRating classifies an average response time.
func (c *Config) PerformanceRating(avg time.Duration) string {
	switch {
	case avg <= 0:
		return "UNKNOWN"
	case avg < c.PerformanceExcellent:
		return "EXCELLENT"
	case avg < c.PerformanceGood:
		return "GOOD"
	case avg < c.PerformanceFair:
		return "FAIR"
	default:
		return "POOR"
	}
}

// TrustLevel classifies a consistent propagation result by how many
// resolvers agreed. Inconsistent results are always "inconsistent".
func (c *Config) TrustLevel(consistent bool, agreeing int) string {
	if !consistent {
		return "inconsistent"
	}
	switch {
	case agreeing >= c.TrustHighResolvers:
		return "high"
	case agreeing >= c.TrustMediumResolvers:
		return "medium"
	default:
		return "low"
	}
}
