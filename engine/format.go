package engine

import (
	"fmt"
	"strings"

	"github.com/miekg/dns"
)

// recordValues extracts the answer values matching the requested type, in
// the order the resolver returned them, duplicates preserved. An A query
// whose answer chain carries only CNAMEs therefore yields nothing, which
// the caller classifies as no_records.
func recordValues(qtype uint16, answers []dns.RR) []string {
	var values []string
	for _, rr := range answers {
		if rr.Header().Rrtype != qtype {
			continue
		}
		values = append(values, recordValue(rr))
	}
	return values
}

// recordValue renders a single resource record's data the way dig would
// print the RDATA, without the header.
func recordValue(rr dns.RR) string {
	switch r := rr.(type) {
	case *dns.A:
		return r.A.String()
	case *dns.AAAA:
		return r.AAAA.String()
	case *dns.CNAME:
		return r.Target
	case *dns.MX:
		return fmt.Sprintf("%d %s", r.Preference, r.Mx)
	case *dns.NS:
		return r.Ns
	case *dns.TXT:
		return strings.Join(r.Txt, "")
	case *dns.SOA:
		return fmt.Sprintf("%s %s %d %d %d %d %d",
			r.Ns, r.Mbox, r.Serial, r.Refresh, r.Retry, r.Expire, r.Minttl)
	case *dns.PTR:
		return r.Ptr
	case *dns.SRV:
		return fmt.Sprintf("%d %d %d %s", r.Priority, r.Weight, r.Port, r.Target)
	case *dns.CAA:
		return fmt.Sprintf("%d %s %q", r.Flag, r.Tag, r.Value)
	default:
		return rr.String()
	}
}

// recordTypeCode maps a textual record type to its wire code.
func recordTypeCode(recordType string) (uint16, bool) {
	code, ok := dns.StringToType[strings.ToUpper(recordType)]
	return code, ok
}
