// Package bulk fans queries out across many items or record types with
// bounded concurrency. A single item's failure is captured in its entry
// and never aborts the batch.
package bulk

import (
	"context"
	"sync"
	"time"

	"dnsrecon/config"
	"dnsrecon/engine"
)

// Orchestrator dispatches engine queries concurrently.
type Orchestrator struct {
	cfg *config.Config
	eng *engine.Engine
}

// New creates an orchestrator over an engine.
func New(cfg *config.Config, eng *engine.Engine) *Orchestrator {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Orchestrator{cfg: cfg, eng: eng}
}

// Result aggregates a bulk operation. Results preserve input order, so
// Results[i] always corresponds to the i-th input item.
type Result struct {
	RecordType         string               `json:"record_type"`
	Nameserver         string               `json:"nameserver"`
	ItemCount          int                  `json:"item_count"`
	Succeeded          int                  `json:"successful_queries"`
	Failed             int                  `json:"failed_queries"`
	TotalTimeSeconds   float64              `json:"total_query_time_seconds"`
	AverageTimeSeconds float64              `json:"average_query_time_seconds"`
	Results            []engine.QueryResult `json:"results"`
}

// Query resolves one record type for many domains with at most maxWorkers
// queries in flight. Per-item errors land in that item's entry; only a
// configuration mistake fails the whole call.
func (o *Orchestrator) Query(ctx context.Context, domains []string, recordType string, p engine.Profile, maxWorkers int) (*Result, error) {
	// Surface configuration mistakes before spawning anything.
	if _, err := config.Nameservers(p.Type, p.Nameserver); err != nil {
		return nil, engine.NewConfigError("%v", err)
	}

	return o.fanOut(ctx, domains, recordType, p, maxWorkers,
		func(ctx context.Context, item string) engine.QueryResult {
			r, _ := o.eng.Query(ctx, item, recordType, p)
			return r
		})
}

// ReverseLookup mirrors Query for PTR lookups over IP addresses.
func (o *Orchestrator) ReverseLookup(ctx context.Context, ips []string, p engine.Profile, maxWorkers int) (*Result, error) {
	if _, err := config.Nameservers(p.Type, p.Nameserver); err != nil {
		return nil, engine.NewConfigError("%v", err)
	}

	return o.fanOut(ctx, ips, "PTR", p, maxWorkers,
		func(ctx context.Context, item string) engine.QueryResult {
			r, _ := o.eng.ReverseLookup(ctx, item, p)
			return r
		})
}

// fanOut runs one query per item through a semaphore-bounded goroutine
// pool and joins all of them before returning. Nothing short-circuits:
// every item completes or records its own failure.
func (o *Orchestrator) fanOut(ctx context.Context, items []string, recordType string, p engine.Profile, maxWorkers int,
	query func(context.Context, string) engine.QueryResult) (*Result, error) {

	workers := o.cfg.ClampWorkers(maxWorkers)
	if workers > len(items) && len(items) > 0 {
		workers = len(items)
	}

	results := make([]engine.QueryResult, len(items))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	start := time.Now()
	for i, item := range items {
		wg.Add(1)
		go func(i int, item string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i] = query(ctx, item)
		}(i, item)
	}
	wg.Wait()
	total := time.Since(start)

	out := &Result{
		RecordType:       recordType,
		Nameserver:       nameserverLabel(p),
		ItemCount:        len(items),
		TotalTimeSeconds: engine.Seconds(total),
		Results:          results,
	}
	for _, r := range results {
		if r.OK() {
			out.Succeeded++
		} else {
			out.Failed++
		}
	}
	if len(items) > 0 {
		out.AverageTimeSeconds = engine.Seconds(total / time.Duration(len(items)))
	}
	return out, nil
}

// AllResult is the merged outcome of querying every supported record type
// for one domain. For each type exactly one of Records/Errors carries an
// entry: a successful query always has records, and an empty answer is
// classified as a no_records error.
type AllResult struct {
	Domain           string                        `json:"domain"`
	Nameserver       string                        `json:"nameserver"`
	TotalTimeSeconds float64                       `json:"total_query_time_seconds"`
	Records          map[string][]string           `json:"records"`
	Errors           map[string]*engine.Descriptor `json:"errors,omitempty"`
	RecordTypesFound int                           `json:"record_types_found"`
	TotalRecords     int                           `json:"total_records"`
}

// QueryAll profiles a domain across the full record-type set concurrently.
// Concurrency toward the single resolver is deliberately small: this is
// many queries to one target, not many targets.
func (o *Orchestrator) QueryAll(ctx context.Context, domain string, p engine.Profile) (*AllResult, error) {
	if _, err := config.Nameservers(p.Type, p.Nameserver); err != nil {
		return nil, engine.NewConfigError("%v", err)
	}

	types := config.QueryAllRecordTypes
	results := make([]engine.QueryResult, len(types))
	sem := make(chan struct{}, o.cfg.QueryAllConcurrency)
	var wg sync.WaitGroup

	start := time.Now()
	for i, rt := range types {
		wg.Add(1)
		go func(i int, rt string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[i], _ = o.eng.Query(ctx, domain, rt, p)
		}(i, rt)
	}
	wg.Wait()

	out := &AllResult{
		Domain:           domain,
		Nameserver:       nameserverLabel(p),
		TotalTimeSeconds: engine.Seconds(time.Since(start)),
		Records:          make(map[string][]string),
		Errors:           make(map[string]*engine.Descriptor),
	}
	for i, rt := range types {
		if r := results[i]; r.OK() {
			out.Records[rt] = r.Records
			out.RecordTypesFound++
			out.TotalRecords += r.RecordCount
		} else {
			out.Errors[rt] = r.Error
		}
	}
	return out, nil
}

func nameserverLabel(p engine.Profile) string {
	if p.Nameserver != "" {
		return p.Nameserver
	}
	if p.Type == "" {
		return config.ResolverSystem
	}
	return p.Type
}
