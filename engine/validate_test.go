package engine

import (
	"strings"
	"testing"
)

func TestValidDomain(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
	}{
		{"example.com", true},
		{"example.com.", true},
		{"sub.example.co.uk", true},
		{"xn--nxasmq6b.example", true},
		{"_dmarc.example.com", true},
		{"_sip._tcp.example.com", true},
		{"https://example.com/path", true},
		{"example.com:8080", true},
		{"10.2.0.192.in-addr.arpa", true},
		{"localhost", true},
		{"", false},
		{".", false},
		{"bad..name", false},
		{"-leading.example", false},
		{"trailing-.example", false},
		{"spa ce.example", false},
		{"exa!mple.com", false},
		{strings.Repeat("a", 64) + ".example", false},
		{strings.Repeat("abcdefgh.", 32) + "example.com", false},
	}

	for ix, tc := range testCases {
		if got := ValidDomain(tc.input); got != tc.valid {
			t.Error(ix, "ValidDomain mismatch. Input:", tc.input, "got", got)
		}
	}
}

func TestValidIP(t *testing.T) {
	testCases := []struct {
		input string
		valid bool
	}{
		{"192.0.2.1", true},
		{"8.8.8.8", true},
		{"2001:db8::1", true},
		{"::1", true},
		{"", false},
		{"999.1.1.1", false},
		{"192.0.2", false},
		{"example.com", false},
		{"192.0.2.1:53", false},
	}

	for ix, tc := range testCases {
		if got := ValidIP(tc.input); got != tc.valid {
			t.Error(ix, "ValidIP mismatch. Input:", tc.input, "got", got)
		}
	}
}

func TestNormalizeDomain(t *testing.T) {
	testCases := []struct{ input, expect string }{
		{"example.com", "example.com"},
		{"example.com.", "example.com"},
		{"https://example.com/login", "example.com"},
		{"example.com:8080", "example.com"},
		{"http://example.com:8080/x", "example.com"},
	}

	for ix, tc := range testCases {
		if got := normalizeDomain(tc.input); got != tc.expect {
			t.Error(ix, "Mismatch. Input:", tc.input, "got", got)
		}
	}
}
