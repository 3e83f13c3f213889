// Package engine issues single rate-limited DNS lookups and normalizes
// every outcome, success or failure, into one result shape with timing.
package engine

import (
	"context"
	"io"
	"log"
	"strings"
	"time"

	"github.com/miekg/dns"

	"dnsrecon/config"
	"dnsrecon/ratelimit"
)

// Profile selects the nameservers and per-attempt timeout for a query.
// Nameserver, when set, overrides Type with a single custom address.
type Profile struct {
	Type       string
	Nameserver string
	Timeout    time.Duration
}

// Engine resolves queries against a profile's nameservers through the
// shared limiter pool. All dependencies are injected; Engine itself holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	cfg    *config.Config
	pool   *ratelimit.Pool
	exch   Exchanger
	logger *log.Logger
}

// New creates an engine. A nil exchanger gets the production UDP client;
// a nil logger discards.
func New(cfg *config.Config, pool *ratelimit.Pool, exch Exchanger, logger *log.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if pool == nil {
		pool = ratelimit.NewPool(cfg.RateLimit)
	}
	if exch == nil {
		exch = &ClientExchanger{}
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Engine{cfg: cfg, pool: pool, exch: exch, logger: logger}
}

// Config returns the engine's configuration.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Query performs a single lookup. Input validation happens before any
// rate-limit token is consumed; a malformed name or unsupported record
// type never touches the network. The returned error is non-nil only for
// configuration mistakes (unknown resolver type, missing custom address),
// which invalidate the whole request rather than this one item.
//
// Multi-nameserver profiles are tried in order and the first successful
// response wins; if every nameserver fails, the last nameserver's error is
// surfaced. This is the latency-optimized choice: answers are not merged
// across nameservers.
func (e *Engine) Query(ctx context.Context, domain, recordType string, p Profile) (QueryResult, error) {
	rt := strings.ToUpper(recordType)
	result := QueryResult{
		Domain:     domain,
		RecordType: rt,
		Nameserver: profileLabel(p),
	}

	qtype, ok := recordTypeCode(rt)
	if !ok || !config.IsSupportedRecordType(rt) {
		result.Error = newDescriptor(KindInvalidInput, "unsupported record type %q", recordType)
		return result, nil
	}
	if !ValidDomain(domain) {
		result.Error = newDescriptor(KindInvalidInput, "malformed domain name %q", domain)
		return result, nil
	}

	servers, err := config.Nameservers(p.Type, p.Nameserver)
	if err != nil {
		return result, newDescriptor(KindInvalidConfiguration, "%v", err)
	}
	if len(servers) == 0 {
		servers = systemNameservers()
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(normalizeDomain(domain)), qtype)
	msg.RecursionDesired = true

	timeout := e.cfg.ClampTimeout(p.Timeout)

	for i, server := range servers {
		attempt := e.exchange(ctx, msg, server, domain, rt, timeout)
		attempt.Domain = result.Domain
		attempt.RecordType = rt
		if attempt.OK() || i == len(servers)-1 {
			return attempt, nil
		}
		e.logger.Printf("query %s %s via %s failed (%s), trying next nameserver",
			domain, rt, server, attempt.Error.Kind)
	}

	// Unreachable: the loop always returns on the last server.
	return result, nil
}

// exchange runs one rate-limited attempt against one nameserver. Elapsed
// time covers the wire exchange only, never the limiter wait.
func (e *Engine) exchange(ctx context.Context, msg *dns.Msg, server, domain, rt string, timeout time.Duration) QueryResult {
	result := QueryResult{Nameserver: server}

	if err := e.pool.Acquire(ctx, server); err != nil {
		result.Error = classifyExchangeError(err, server)
		return result
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	resp, _, err := e.exch.Exchange(attemptCtx, msg, server)
	result.QueryTimeSeconds = Seconds(time.Since(start))

	if err != nil {
		result.Error = classifyExchangeError(err, server)
		return result
	}
	if desc := classifyRcode(resp.Rcode, domain); desc != nil {
		result.Error = desc
		return result
	}

	records := recordValues(msg.Question[0].Qtype, resp.Answer)
	if len(records) == 0 {
		result.Error = newDescriptor(KindNoRecords, "domain %s has no %s records", domain, rt)
		return result
	}

	result.Records = records
	result.RecordCount = len(records)
	return result
}

// ReverseLookup resolves the PTR name for an IP address. The IP is
// validated before dispatch; the reverse arpa name is derived with the
// resolver library, never by hand.
func (e *Engine) ReverseLookup(ctx context.Context, ip string, p Profile) (QueryResult, error) {
	result := QueryResult{
		Domain:     ip,
		RecordType: "PTR",
		Nameserver: profileLabel(p),
	}

	if !ValidIP(ip) {
		result.Error = newDescriptor(KindInvalidInput, "malformed IP address %q", ip)
		return result, nil
	}
	reverse, err := dns.ReverseAddr(ip)
	if err != nil {
		result.Error = newDescriptor(KindInvalidInput, "cannot derive reverse name for %q: %v", ip, err)
		return result, nil
	}

	ptr, cfgErr := e.Query(ctx, reverse, "PTR", p)
	if cfgErr != nil {
		return result, cfgErr
	}
	ptr.Domain = ip
	ptr.ReverseDomain = reverse
	return ptr, nil
}

// profileLabel names the resolver for result shapes before a concrete
// nameserver has been chosen.
func profileLabel(p Profile) string {
	if p.Nameserver != "" {
		return p.Nameserver
	}
	if p.Type == "" {
		return config.ResolverSystem
	}
	return p.Type
}
