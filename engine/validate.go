package engine

import (
	"net"
	"regexp"
	"strings"
)

var domainRegex = regexp.MustCompile(`^[a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9_])?(\.[a-zA-Z0-9_]([a-zA-Z0-9\-_]{0,61}[a-zA-Z0-9_])?)*$`)

// ValidDomain reports whether input looks like a resolvable domain name.
// Scheme prefixes, paths and ports are stripped first so pasted URLs work.
// Underscores are accepted since service records (_sip._tcp.example.com)
// and verification names use them.
func ValidDomain(input string) bool {
	input = strings.TrimPrefix(input, "http://")
	input = strings.TrimPrefix(input, "https://")
	if idx := strings.Index(input, "/"); idx != -1 {
		input = input[:idx]
	}
	if host, _, err := net.SplitHostPort(input); err == nil {
		input = host
	}
	input = strings.TrimSuffix(input, ".")

	if len(input) == 0 || len(input) > 253 {
		return false
	}
	if !domainRegex.MatchString(input) {
		return false
	}
	for _, label := range strings.Split(input, ".") {
		if len(label) > 63 {
			return false
		}
	}
	return true
}

// ValidIP reports whether input is a literal IPv4 or IPv6 address.
func ValidIP(input string) bool {
	return net.ParseIP(input) != nil
}

// normalizeDomain strips the decorations ValidDomain tolerates, returning
// the bare name to put on the wire.
func normalizeDomain(input string) string {
	input = strings.TrimPrefix(input, "http://")
	input = strings.TrimPrefix(input, "https://")
	if idx := strings.Index(input, "/"); idx != -1 {
		input = input[:idx]
	}
	if host, _, err := net.SplitHostPort(input); err == nil {
		input = host
	}
	return strings.TrimSuffix(input, ".")
}
