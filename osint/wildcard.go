package osint

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"dnsrecon/config"
	"dnsrecon/engine"
)

const labelCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

var (
	labelRandMu sync.Mutex
	labelRand   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// Risk tiers for wildcard findings.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Probe is one random-subdomain test result.
type Probe struct {
	TestDomain       string             `json:"test_domain"`
	RecordType       string             `json:"record_type"`
	Resolved         bool               `json:"resolved"`
	Records          []string           `json:"records,omitempty"`
	QueryTimeSeconds float64            `json:"query_time_seconds"`
	Error            *engine.Descriptor `json:"error,omitempty"`
}

// WildcardReport is the outcome of a wildcard check.
type WildcardReport struct {
	Domain           string   `json:"domain"`
	BaseDomain       string   `json:"base_domain"`
	TestCount        int      `json:"test_count"`
	HasWildcard      bool     `json:"has_wildcard"`
	WildcardRecords  []string `json:"wildcard_records,omitempty"`
	RiskLevel        string   `json:"risk_level"`
	TotalTimeSeconds float64  `json:"total_query_time_seconds"`
	Probes           []Probe  `json:"test_results"`
	Notes            []string `json:"notes,omitempty"`
}

// WildcardCheck probes testCount random subdomains that cannot plausibly
// exist. Any probe answering with records means the zone resolves
// arbitrary names, i.e. carries a wildcard. Both A and CNAME are probed:
// catch-alls are configured either way in the wild.
func (a *Analyzer) WildcardCheck(ctx context.Context, domain string, testCount int, p engine.Profile) (*WildcardReport, error) {
	if _, err := config.Nameservers(p.Type, p.Nameserver); err != nil {
		return nil, engine.NewConfigError("%v", err)
	}

	report := &WildcardReport{
		Domain:     domain,
		BaseDomain: baseDomain(domain),
		TestCount:  a.cfg.ClampWildcardTests(testCount),
	}
	if !engine.ValidDomain(domain) {
		return nil, engine.NewInputError("malformed domain name %q", domain)
	}

	// Generate the labels up front; the shared source is not safe for
	// concurrent draws.
	testDomains := make([]string, report.TestCount)
	for i := range testDomains {
		testDomains[i] = fmt.Sprintf("%s.%s", a.randomLabel(), report.BaseDomain)
	}

	recordTypes := []string{"A", "CNAME"}
	probes := make([]Probe, len(testDomains)*len(recordTypes))
	var wg sync.WaitGroup

	start := time.Now()
	for i, td := range testDomains {
		for j, rt := range recordTypes {
			wg.Add(1)
			go func(ix int, td, rt string) {
				defer wg.Done()
				r, _ := a.eng.Query(ctx, td, rt, p)
				probes[ix] = Probe{
					TestDomain:       td,
					RecordType:       rt,
					Resolved:         r.OK(),
					Records:          r.Records,
					QueryTimeSeconds: r.QueryTimeSeconds,
					Error:            r.Error,
				}
			}(i*len(recordTypes)+j, td, rt)
		}
	}
	wg.Wait()
	report.TotalTimeSeconds = engine.Seconds(time.Since(start))
	report.Probes = probes

	a.reduceWildcard(report)
	return report, nil
}

// reduceWildcard derives the verdict and a deterministic risk tier from
// probe agreement: no wildcard is low risk, a single shared target is the
// common catch-all shape (medium, low when it points at CDN/hosting
// infrastructure), and varied targets for random names are the odd
// configuration worth a closer look (high).
func (a *Analyzer) reduceWildcard(report *WildcardReport) {
	targets := make(map[string]struct{})
	resolved := 0
	for _, probe := range report.Probes {
		if !probe.Resolved {
			continue
		}
		resolved++
		for _, rec := range probe.Records {
			targets[rec] = struct{}{}
		}
	}

	report.HasWildcard = resolved > 0
	if !report.HasWildcard {
		report.RiskLevel = RiskLow
		report.Notes = append(report.Notes,
			"no wildcard DNS detected; subdomains are configured individually")
		return
	}

	for t := range targets {
		report.WildcardRecords = append(report.WildcardRecords, t)
	}
	sort.Strings(report.WildcardRecords)

	switch {
	case len(targets) > 1:
		report.RiskLevel = RiskHigh
		report.Notes = append(report.Notes,
			"random subdomains resolve to multiple distinct targets; unusual for a plain catch-all")
	case a.cdnTarget(report.WildcardRecords):
		report.RiskLevel = RiskLow
		report.Notes = append(report.Notes,
			"wildcard points at CDN/hosting infrastructure; likely a legitimate catch-all")
	default:
		report.RiskLevel = RiskMedium
		report.Notes = append(report.Notes,
			"all random subdomains resolve to one target; wildcard DNS is common in phishing kits, verify the target")
	}
}

// cdnTarget reports whether any wildcard record matches a known
// CDN/hosting indicator substring.
func (a *Analyzer) cdnTarget(records []string) bool {
	for _, rec := range records {
		lower := strings.ToLower(rec)
		for _, indicator := range a.cfg.CDNIndicators {
			if strings.Contains(lower, indicator) {
				return true
			}
		}
	}
	return false
}

func (a *Analyzer) randomLabel() string {
	labelRandMu.Lock()
	defer labelRandMu.Unlock()

	b := make([]byte, a.cfg.WildcardLabelLength)
	for i := range b {
		b[i] = labelCharset[labelRand.Intn(len(labelCharset))]
	}
	return string(b)
}

// baseDomain reduces a name to its registrable domain (eTLD+1) so probes
// test the zone that would carry the wildcard, not an arbitrary subtree.
// Falls back to the input when the public suffix list has no answer.
func baseDomain(domain string) string {
	trimmed := strings.TrimSuffix(domain, ".")
	base, err := publicsuffix.EffectiveTLDPlusOne(trimmed)
	if err != nil {
		return trimmed
	}
	return base
}
