package osint_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"

	"dnsrecon/config"
	"dnsrecon/engine"
	"dnsrecon/mock"
)

func wildcardProfile() engine.Profile {
	return engine.Profile{Type: config.ResolverCustom, Nameserver: "192.0.2.53"}
}

func TestWildcardAbsent(t *testing.T) {
	exch := mock.New() // every probe gets NXDOMAIN
	an, _ := newAnalyzer(exch)

	report, err := an.WildcardCheck(context.Background(), "example.com", 3, wildcardProfile())
	require.NoError(t, err)

	require.False(t, report.HasWildcard)
	require.Equal(t, "low", report.RiskLevel)
	require.Equal(t, 3, report.TestCount)
	require.Len(t, report.Probes, 6) // A and CNAME per random label
	require.Empty(t, report.WildcardRecords)
}

func TestWildcardSingleTarget(t *testing.T) {
	exch := mock.New()
	exch.DefaultFunc = func(name string, qtype uint16) mock.Response {
		if qtype == dns.TypeA {
			return mock.Response{Answers: []string{name + " 300 IN A 203.0.113.7"}}
		}
		return mock.Response{Rcode: dns.RcodeNameError}
	}
	an, _ := newAnalyzer(exch)

	report, err := an.WildcardCheck(context.Background(), "example.com", 3, wildcardProfile())
	require.NoError(t, err)

	require.True(t, report.HasWildcard)
	require.Equal(t, "medium", report.RiskLevel)
	require.Equal(t, []string{"203.0.113.7"}, report.WildcardRecords)
	require.NotEmpty(t, report.Notes)
}

func TestWildcardCDNTarget(t *testing.T) {
	exch := mock.New()
	exch.DefaultFunc = func(name string, qtype uint16) mock.Response {
		if qtype == dns.TypeCNAME {
			return mock.Response{Answers: []string{name + " 300 IN CNAME d111.cloudfront.net."}}
		}
		return mock.Response{Rcode: dns.RcodeNameError}
	}
	an, _ := newAnalyzer(exch)

	report, err := an.WildcardCheck(context.Background(), "example.com", 3, wildcardProfile())
	require.NoError(t, err)

	require.True(t, report.HasWildcard)
	require.Equal(t, "low", report.RiskLevel)
	require.Equal(t, []string{"d111.cloudfront.net."}, report.WildcardRecords)
}

func TestWildcardMultipleTargets(t *testing.T) {
	var n int32
	exch := mock.New()
	exch.DefaultFunc = func(name string, qtype uint16) mock.Response {
		if qtype != dns.TypeA {
			return mock.Response{Rcode: dns.RcodeNameError}
		}
		host := atomic.AddInt32(&n, 1)
		return mock.Response{Answers: []string{
			fmt.Sprintf("%s 300 IN A 203.0.113.%d", name, host),
		}}
	}
	an, _ := newAnalyzer(exch)

	report, err := an.WildcardCheck(context.Background(), "example.com", 3, wildcardProfile())
	require.NoError(t, err)

	require.True(t, report.HasWildcard)
	require.Equal(t, "high", report.RiskLevel)
	require.Greater(t, len(report.WildcardRecords), 1)
}

func TestWildcardProbesBaseDomain(t *testing.T) {
	exch := mock.New()
	an, cfg := newAnalyzer(exch)

	report, err := an.WildcardCheck(context.Background(), "deep.sub.example.co.uk", 2, wildcardProfile())
	require.NoError(t, err)

	require.Equal(t, "example.co.uk", report.BaseDomain)
	for _, probe := range report.Probes {
		require.True(t, strings.HasSuffix(probe.TestDomain, ".example.co.uk"), probe.TestDomain)
		label, _, _ := strings.Cut(probe.TestDomain, ".")
		require.Len(t, label, cfg.WildcardLabelLength)
	}
}

func TestWildcardTestCountClamped(t *testing.T) {
	exch := mock.New()
	an, cfg := newAnalyzer(exch)

	report, err := an.WildcardCheck(context.Background(), "example.com", 99, wildcardProfile())
	require.NoError(t, err)
	require.Equal(t, cfg.MaxWildcardTests, report.TestCount)

	report, err = an.WildcardCheck(context.Background(), "example.com", 0, wildcardProfile())
	require.NoError(t, err)
	require.Equal(t, cfg.WildcardTestCount, report.TestCount)
}

func TestWildcardRejectsBadInput(t *testing.T) {
	an, _ := newAnalyzer(mock.New())

	// A malformed domain is bad input, not a configuration mistake; the
	// configuration kind stays reserved for resolver selection problems.
	_, err := an.WildcardCheck(context.Background(), "bad..name", 3, wildcardProfile())
	require.Error(t, err)
	var desc *engine.Descriptor
	require.ErrorAs(t, err, &desc)
	require.Equal(t, engine.KindInvalidInput, desc.Kind)

	_, err = an.WildcardCheck(context.Background(), "example.com", 3,
		engine.Profile{Type: config.ResolverCustom}) // custom without an address
	require.Error(t, err)
	require.ErrorAs(t, err, &desc)
	require.Equal(t, engine.KindInvalidConfiguration, desc.Kind)
}
