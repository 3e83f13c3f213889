package config

import (
	"fmt"
	"net"
	"sort"
	"strings"
)

// Resolver profile identifiers accepted by the engine.
const (
	ResolverSystem     = "system"
	ResolverPublic     = "public"
	ResolverGoogle     = "google"
	ResolverCloudflare = "cloudflare"
	ResolverQuad9      = "quad9"
	ResolverOpenDNS    = "opendns"
	ResolverCustom     = "custom"
)

// resolverProfiles maps each built-in profile to its ordered nameserver
// list. Order matters: the engine tries addresses front to back.
var resolverProfiles = map[string][]string{
	ResolverPublic:     {"8.8.8.8", "1.1.1.1", "9.9.9.9"},
	ResolverGoogle:     {"8.8.8.8", "8.8.4.4"},
	ResolverCloudflare: {"1.1.1.1", "1.0.0.1"},
	ResolverQuad9:      {"9.9.9.9", "149.112.112.112"},
	ResolverOpenDNS:    {"208.67.222.222", "208.67.220.220"},
}

// PropagationResolvers returns the default resolver set used for
// cross-resolver consistency checks: one representative address per
// independent operator.
func PropagationResolvers() map[string]string {
	return map[string]string{
		"google":     "8.8.8.8",
		"cloudflare": "1.1.1.1",
		"quad9":      "9.9.9.9",
		"opendns":    "208.67.222.222",
		"level3":     "4.2.2.1",
		"verisign":   "64.6.64.6",
	}
}

// SupportedRecordTypes lists every record type the engine queries.
// query_all fans out over exactly this set minus PTR, which only makes
// sense for reverse lookups.
var SupportedRecordTypes = []string{
	"A", "AAAA", "MX", "TXT", "NS", "SOA", "CNAME", "CAA", "SRV", "PTR",
}

// QueryAllRecordTypes is the fan-out set for query_all.
var QueryAllRecordTypes = []string{
	"A", "AAAA", "MX", "TXT", "NS", "SOA", "CNAME", "CAA", "SRV",
}

// IsSupportedRecordType reports whether the engine knows how to query and
// format the given record type. Comparison is case-insensitive.
func IsSupportedRecordType(recordType string) bool {
	rt := strings.ToUpper(recordType)
	for _, t := range SupportedRecordTypes {
		if t == rt {
			return true
		}
	}
	return false
}

// ResolverTypes returns the accepted profile identifiers, sorted, for
// error messages and CLI help.
func ResolverTypes() []string {
	types := []string{ResolverSystem, ResolverCustom}
	for name := range resolverProfiles {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}

// Nameservers resolves a profile identifier to its ordered nameserver
// address list. For "custom" the caller-supplied address is required and
// becomes the single entry. For "system" the list is empty: the engine
// falls back to the host's configured resolvers. Unknown identifiers and
// a missing custom address are configuration mistakes, reported as errors
// rather than per-query descriptors because they invalidate the whole
// request.
func Nameservers(resolverType, customNameserver string) ([]string, error) {
	// An explicit nameserver address overrides the profile, matching the
	// behavior of passing nameserver= alongside resolver_type.
	if customNameserver != "" {
		if net.ParseIP(customNameserver) == nil {
			return nil, fmt.Errorf("invalid custom nameserver address %q", customNameserver)
		}
		return []string{customNameserver}, nil
	}
	switch resolverType {
	case "", ResolverSystem:
		// A zero-value profile behaves as "system", matching the label
		// the engine reports for it.
		return nil, nil
	case ResolverCustom:
		return nil, fmt.Errorf("resolver type %q requires a nameserver address", ResolverCustom)
	}
	if servers, ok := resolverProfiles[resolverType]; ok {
		out := make([]string, len(servers))
		copy(out, servers)
		return out, nil
	}
	return nil, fmt.Errorf("unknown resolver type %q, supported: %s",
		resolverType, strings.Join(ResolverTypes(), ", "))
}
