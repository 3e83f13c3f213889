// Package ops exposes every reconnaissance operation behind a flat
// name-to-handler registry. A transport shell (CLI, RPC, whatever hosts
// the tool) looks an operation up by name, hands it raw JSON parameters,
// and gets back a result value ready for serialization.
package ops

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"dnsrecon/bulk"
	"dnsrecon/config"
	"dnsrecon/engine"
	"dnsrecon/osint"
)

// Handler executes one operation. The returned error is an
// *engine.Descriptor for anything the caller did wrong; per-item query
// failures are inside the result value, never here.
type Handler func(ctx context.Context, params json.RawMessage) (interface{}, error)

// Registry maps operation names to handlers.
type Registry struct {
	cfg      *config.Config
	handlers map[string]Handler
}

// Params is the common parameter envelope. Operations ignore fields they
// do not use; zero values fall back to configured defaults.
type Params struct {
	Domain       string            `json:"domain"`
	Domains      []string          `json:"domains"`
	IP           string            `json:"ip"`
	IPs          []string          `json:"ips"`
	RecordType   string            `json:"record_type"`
	ResolverType string            `json:"resolver_type"`
	Nameserver   string            `json:"nameserver"`
	Resolvers    map[string]string `json:"resolvers"`
	Timeout      int               `json:"timeout"`
	MaxWorkers   int               `json:"max_workers"`
	TestCount    int               `json:"test_count"`
	Iterations   int               `json:"iterations"`
}

// NewRegistry wires the full operation surface over one engine.
func NewRegistry(cfg *config.Config, eng *engine.Engine) *Registry {
	if cfg == nil {
		cfg = config.Default()
	}
	orch := bulk.New(cfg, eng)
	analyzer := osint.NewAnalyzer(cfg, eng)

	r := &Registry{cfg: cfg, handlers: make(map[string]Handler)}

	r.handlers["query"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		result, err := eng.Query(ctx, p.Domain, p.recordType(), p.profile())
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	r.handlers["reverse_lookup"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		result, err := eng.ReverseLookup(ctx, p.IP, p.profile())
		if err != nil {
			return nil, err
		}
		return result, nil
	}

	r.handlers["bulk_query"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		return orch.Query(ctx, p.Domains, p.recordType(), p.profile(), p.MaxWorkers)
	}

	r.handlers["bulk_reverse_lookup"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		return orch.ReverseLookup(ctx, p.IPs, p.profile(), p.MaxWorkers)
	}

	r.handlers["query_all"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		return orch.QueryAll(ctx, p.Domain, p.profile())
	}

	r.handlers["propagation_check"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		return analyzer.PropagationCheck(ctx, p.Domain, p.recordType(), p.Resolvers, p.timeout())
	}

	r.handlers["wildcard_check"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		return analyzer.WildcardCheck(ctx, p.Domain, p.TestCount, p.profile())
	}

	r.handlers["response_analysis"] = func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		p, err := r.decode(raw)
		if err != nil {
			return nil, err
		}
		return analyzer.ResponseAnalysis(ctx, p.Domain, p.recordType(), p.Iterations, p.profile())
	}

	return r
}

// Invoke runs a named operation. Unknown names are configuration
// mistakes, same as an unknown resolver type.
func (r *Registry) Invoke(ctx context.Context, name string, params json.RawMessage) (interface{}, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return nil, engine.NewConfigError("unknown operation %q", name)
	}
	return handler(ctx, params)
}

// Names lists the registered operations, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) decode(raw json.RawMessage) (*Params, error) {
	p := &Params{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, p); err != nil {
			return nil, engine.NewConfigError("malformed parameters: %v", err)
		}
	}
	if p.ResolverType == "" {
		p.ResolverType = config.ResolverSystem
	}
	return p, nil
}

func (p *Params) recordType() string {
	if p.RecordType == "" {
		return "A"
	}
	return p.RecordType
}

func (p *Params) timeout() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

func (p *Params) profile() engine.Profile {
	return engine.Profile{
		Type:       p.ResolverType,
		Nameserver: p.Nameserver,
		Timeout:    p.timeout(),
	}
}
