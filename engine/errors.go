package engine

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/miekg/dns"
)

// Error kinds form a closed set. Anything the engine reports is one of
// these; callers can switch on Kind without string matching messages.
const (
	KindInvalidInput         = "invalid_input"
	KindDomainNotFound       = "domain_not_found"
	KindNoRecords            = "no_records"
	KindTimeout              = "timeout"
	KindResolverError        = "resolver_error"
	KindInvalidConfiguration = "invalid_configuration"
)

// Descriptor is the uniform failure shape attached to query results.
// Hint carries investigative context for OSINT consumers: a DNS failure is
// often itself a signal, not just an error.
type Descriptor struct {
	Kind    string `json:"error"`
	Message string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func (d *Descriptor) Error() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

// hints maps each error kind to its investigative note.
var hints = map[string]string{
	KindInvalidInput:   "input rejected before any query was sent; check for typos or unsupported record types",
	KindDomainNotFound: "NXDOMAIN can mean an expired, suspended, or never-registered domain; check historical DNS and similar name variations",
	KindNoRecords:      "the domain exists but has no records of this type; absence is common (e.g. CAA, SRV) and not necessarily suspicious",
	KindTimeout:        "timeouts can indicate a slow or overloaded nameserver, network filtering, or DDoS protection; retry with a longer timeout or another resolver",
	KindResolverError:  "SERVFAIL/REFUSED or a network failure; try a different resolver and check DNSSEC status",
}

// newDescriptor builds a Descriptor for a kind with a formatted message
// and the standard hint for that kind.
func newDescriptor(kind, format string, args ...interface{}) *Descriptor {
	return &Descriptor{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Hint:    hints[kind],
	}
}

// NewConfigError reports a request-invalidating configuration mistake.
// Unlike the per-item kinds it is returned as an error: the whole
// operation fails, not one entry.
func NewConfigError(format string, args ...interface{}) *Descriptor {
	return newDescriptor(KindInvalidConfiguration, format, args...)
}

// NewInputError reports rejected caller input for operations that have no
// per-item result to embed it in.
func NewInputError(format string, args ...interface{}) *Descriptor {
	return newDescriptor(KindInvalidInput, format, args...)
}

// classifyExchangeError turns a transport-level exchange failure into a
// Descriptor. Deadline and i/o timeout failures become KindTimeout, all
// else KindResolverError. Caller cancellation also maps to KindTimeout:
// the kind set is closed and has no cancellation entry, so the query
// simply "did not complete in the time allowed"; the message says
// "cancelled" for consumers who need to tell the two apart.
func classifyExchangeError(err error, address string) *Descriptor {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return newDescriptor(KindTimeout, "query to %s timed out: %v", address, err)
	case errors.Is(err, context.Canceled):
		return newDescriptor(KindTimeout, "query to %s cancelled: %v", address, err)
	default:
		return newDescriptor(KindResolverError, "query to %s failed: %v", address, err)
	}
}

// classifyRcode turns a non-success response code into a Descriptor, or
// nil for NOERROR.
func classifyRcode(rcode int, domain string) *Descriptor {
	switch rcode {
	case dns.RcodeSuccess:
		return nil
	case dns.RcodeNameError:
		return newDescriptor(KindDomainNotFound, "no such domain: %s", domain)
	default:
		return newDescriptor(KindResolverError, "resolver returned %s for %s",
			dns.RcodeToString[rcode], domain)
	}
}
