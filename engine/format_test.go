package engine

import (
	"testing"

	"github.com/miekg/dns"
	"github.com/stretchr/testify/require"
)

func mustRR(t *testing.T, line string) dns.RR {
	t.Helper()
	rr, err := dns.NewRR(line)
	require.NoError(t, err)
	return rr
}

func TestRecordValue(t *testing.T) {
	testCases := []struct {
		rr     string
		expect string
	}{
		{"example.com. 300 IN A 192.0.2.10", "192.0.2.10"},
		{"example.com. 300 IN AAAA 2001:db8::1", "2001:db8::1"},
		{"www.example.com. 300 IN CNAME example.com.", "example.com."},
		{"example.com. 300 IN MX 10 mail.example.com.", "10 mail.example.com."},
		{"example.com. 300 IN NS ns1.example.com.", "ns1.example.com."},
		{"example.com. 300 IN TXT \"v=spf1\" \" -all\"", "v=spf1 -all"},
		{"example.com. 300 IN SOA ns1.example.com. admin.example.com. 2024010101 7200 3600 1209600 300",
			"ns1.example.com. admin.example.com. 2024010101 7200 3600 1209600 300"},
		{"10.2.0.192.in-addr.arpa. 300 IN PTR host.example.com.", "host.example.com."},
		{"_sip._tcp.example.com. 300 IN SRV 10 60 5060 sip.example.com.", "10 60 5060 sip.example.com."},
		{"example.com. 300 IN CAA 0 issue \"letsencrypt.org\"", `0 issue "letsencrypt.org"`},
	}

	for _, tc := range testCases {
		require.Equal(t, tc.expect, recordValue(mustRR(t, tc.rr)), tc.rr)
	}
}

func TestRecordValuesFiltersByType(t *testing.T) {
	// An A query whose answer section carries the CNAME chain must only
	// yield the A values, in received order.
	answers := []dns.RR{
		mustRR(t, "www.example.com. 300 IN CNAME example.com."),
		mustRR(t, "example.com. 300 IN A 192.0.2.10"),
		mustRR(t, "example.com. 300 IN A 192.0.2.11"),
	}

	require.Equal(t, []string{"192.0.2.10", "192.0.2.11"}, recordValues(dns.TypeA, answers))
	require.Equal(t, []string{"example.com."}, recordValues(dns.TypeCNAME, answers))
	require.Nil(t, recordValues(dns.TypeMX, answers))
}

func TestRecordValuesPreservesDuplicates(t *testing.T) {
	answers := []dns.RR{
		mustRR(t, "example.com. 300 IN A 192.0.2.10"),
		mustRR(t, "example.com. 300 IN A 192.0.2.10"),
	}
	require.Equal(t, []string{"192.0.2.10", "192.0.2.10"}, recordValues(dns.TypeA, answers))
}

func TestRecordTypeCode(t *testing.T) {
	code, ok := recordTypeCode("mx")
	require.True(t, ok)
	require.Equal(t, dns.TypeMX, code)

	_, ok = recordTypeCode("NOPE")
	require.False(t, ok)
}
