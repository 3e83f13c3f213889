// Package osint derives investigation signals from query engine output:
// cross-resolver consistency, wildcard DNS configuration, and
// response-time anomalies. Every analysis is a stateless fan-out over the
// engine followed by a reduce; nothing here persists between calls.
package osint

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"dnsrecon/config"
	"dnsrecon/engine"
)

// Analyzer runs the OSINT algorithms on top of an engine.
type Analyzer struct {
	cfg *config.Config
	eng *engine.Engine
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(cfg *config.Config, eng *engine.Engine) *Analyzer {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Analyzer{cfg: cfg, eng: eng}
}

// Observation is one resolver's answer during a propagation check.
type Observation struct {
	Nameserver       string             `json:"nameserver"`
	Records          []string           `json:"records,omitempty"`
	RecordCount      int                `json:"record_count,omitempty"`
	QueryTimeSeconds float64            `json:"query_time_seconds"`
	Error            *engine.Descriptor `json:"error,omitempty"`
}

// ResponseGroup collects the resolvers that returned an identical record
// set. A consistent domain produces exactly one group.
type ResponseGroup struct {
	Resolvers     []string `json:"resolvers"`
	Records       []string `json:"records"`
	ResolverCount int      `json:"resolver_count"`
}

// ConsistencyReport is the outcome of a propagation check.
type ConsistencyReport struct {
	Domain           string                 `json:"domain"`
	RecordType       string                 `json:"record_type"`
	ResolversQueried int                    `json:"total_resolvers_queried"`
	Succeeded        int                    `json:"successful_queries"`
	Failed           int                    `json:"failed_queries"`
	IsConsistent     bool                   `json:"is_consistent"`
	UniqueResponses  int                    `json:"unique_response_count"`
	TrustLevel       string                 `json:"trust_level"`
	TotalTimeSeconds float64                `json:"total_query_time_seconds"`
	TimeStats        *TimingStats           `json:"response_time_stats,omitempty"`
	Results          map[string]Observation `json:"resolver_results"`
	Groups           []ResponseGroup        `json:"response_groups"`
	PotentialIssues  []string               `json:"potential_issues,omitempty"`
}

// PropagationCheck queries the same name against every resolver in the set
// concurrently and compares the answers as sets: DNS answer order is not
// significant, so two resolvers returning the same records in different
// order still agree. A nil resolver map uses the built-in set of
// independent operators.
func (a *Analyzer) PropagationCheck(ctx context.Context, domain, recordType string, resolvers map[string]string, timeout time.Duration) (*ConsistencyReport, error) {
	if len(resolvers) == 0 {
		resolvers = config.PropagationResolvers()
	}
	for name, addr := range resolvers {
		if _, err := config.Nameservers(config.ResolverCustom, addr); err != nil {
			return nil, engine.NewConfigError("resolver %q: %v", name, err)
		}
	}

	report := &ConsistencyReport{
		Domain:           domain,
		RecordType:       strings.ToUpper(recordType),
		ResolversQueried: len(resolvers),
		Results:          make(map[string]Observation, len(resolvers)),
	}

	var (
		mutex sync.Mutex
		wg    sync.WaitGroup
	)
	start := time.Now()
	for name, addr := range resolvers {
		wg.Add(1)
		go func(name, addr string) {
			defer wg.Done()
			r, _ := a.eng.Query(ctx, domain, recordType, engine.Profile{
				Type:       config.ResolverCustom,
				Nameserver: addr,
				Timeout:    timeout,
			})
			mutex.Lock()
			report.Results[name] = Observation{
				Nameserver:       addr,
				Records:          r.Records,
				RecordCount:      r.RecordCount,
				QueryTimeSeconds: r.QueryTimeSeconds,
				Error:            r.Error,
			}
			mutex.Unlock()
		}(name, addr)
	}
	wg.Wait()
	report.TotalTimeSeconds = engine.Seconds(time.Since(start))

	a.reduceConsistency(report)
	return report, nil
}

// reduceConsistency groups the observations, derives the consistency
// verdict, trust level, and timing stats.
func (a *Analyzer) reduceConsistency(report *ConsistencyReport) {
	groups := make(map[string][]string) // record-set key -> resolver names
	keyRecords := make(map[string][]string)
	var samples []time.Duration

	names := make([]string, 0, len(report.Results))
	for name := range report.Results {
		names = append(names, name)
	}
	sort.Strings(names) // deterministic group membership order

	for _, name := range names {
		obs := report.Results[name]
		if obs.Error != nil {
			report.Failed++
			continue
		}
		report.Succeeded++
		samples = append(samples, time.Duration(obs.QueryTimeSeconds*float64(time.Second)))

		key := recordSetKey(obs.Records)
		groups[key] = append(groups[key], name)
		keyRecords[key] = obs.Records
	}

	report.UniqueResponses = len(groups)
	report.IsConsistent = len(groups) <= 1
	report.TimeStats = summarize(samples)
	report.TrustLevel = a.cfg.TrustLevel(report.IsConsistent && report.Succeeded > 0, report.Succeeded)

	keys := make([]string, 0, len(groups))
	for key := range groups {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		report.Groups = append(report.Groups, ResponseGroup{
			Resolvers:     groups[key],
			Records:       keyRecords[key],
			ResolverCount: len(groups[key]),
		})
	}

	if !report.IsConsistent {
		report.PotentialIssues = append(report.PotentialIssues,
			"resolvers disagree: possible stale caches, split-horizon DNS, poisoning, or in-progress propagation")
	}
	if report.Failed > report.Succeeded {
		report.PotentialIssues = append(report.PotentialIssues,
			"most resolvers failed: the domain may be blocked or filtered")
	}
	if stats := report.TimeStats; stats != nil && stats.MaxTime > 2.0 {
		report.PotentialIssues = append(report.PotentialIssues,
			"slow responses from at least one resolver")
	}
}

// recordSetKey builds an order-insensitive identity for a record set.
func recordSetKey(records []string) string {
	sorted := make([]string, len(records))
	copy(sorted, records)
	sort.Strings(sorted)
	return strings.Join(sorted, "\x00")
}
