// Package mock provides an in-memory Exchanger for tests: responses are
// scripted per question (optionally per nameserver address) instead of
// going out on the wire.
package mock

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// Response is one scripted answer. Answers are zone-file RR lines parsed
// on demand; a parse failure is a test-setup bug and panics.
type Response struct {
	Rcode   int
	Answers []string
	Err     error
	Delay   time.Duration
}

// Call records one Exchange invocation for assertions.
type Call struct {
	Address string
	Name    string
	Qtype   uint16
}

// Exchanger replies from a script keyed by question, with optional
// per-address overrides. Unmatched questions get the Default response,
// initially NXDOMAIN.
type Exchanger struct {
	mu          sync.Mutex
	responses   map[string]Response
	calls       []Call
	inFlight    int
	maxInFlight int

	// Default answers any unscripted question. DefaultFunc, when set,
	// takes precedence and can vary the answer per question.
	Default     Response
	DefaultFunc func(name string, qtype uint16) Response
}

// New creates an exchanger whose default answer is NXDOMAIN.
func New() *Exchanger {
	return &Exchanger{
		responses: make(map[string]Response),
		Default:   Response{Rcode: dns.RcodeNameError},
	}
}

func key(address, name string, qtype uint16) string {
	return address + "|" + dns.Fqdn(strings.ToLower(name)) + "|" + dns.TypeToString[qtype]
}

// Set scripts an answer for a question regardless of nameserver address.
func (e *Exchanger) Set(name string, qtype uint16, resp Response) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[key("", name, qtype)] = resp
}

// SetAddr scripts an answer for a question at one specific nameserver.
// Address-specific entries win over address-independent ones.
func (e *Exchanger) SetAddr(address, name string, qtype uint16, resp Response) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.responses[key(address, name, qtype)] = resp
}

// Exchange implements engine.Exchanger.
func (e *Exchanger) Exchange(ctx context.Context, msg *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
	q := msg.Question[0]

	e.mu.Lock()
	e.calls = append(e.calls, Call{Address: address, Name: q.Name, Qtype: q.Qtype})
	e.inFlight++
	if e.inFlight > e.maxInFlight {
		e.maxInFlight = e.inFlight
	}
	resp, ok := e.responses[key(address, q.Name, q.Qtype)]
	if !ok {
		resp, ok = e.responses[key("", q.Name, q.Qtype)]
	}
	defaultFunc := e.DefaultFunc
	if !ok {
		if defaultFunc != nil {
			resp = defaultFunc(q.Name, q.Qtype)
		} else {
			resp = e.Default
		}
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight--
		e.mu.Unlock()
	}()

	if resp.Delay > 0 {
		select {
		case <-time.After(resp.Delay):
		case <-ctx.Done():
			return nil, resp.Delay, ctx.Err()
		}
	}
	if resp.Err != nil {
		return nil, 0, resp.Err
	}

	reply := new(dns.Msg)
	reply.SetReply(msg)
	reply.Rcode = resp.Rcode
	for _, line := range resp.Answers {
		rr, err := dns.NewRR(line)
		if err != nil {
			panic("mock: bad RR line " + line + ": " + err.Error())
		}
		reply.Answer = append(reply.Answer, rr)
	}
	return reply, resp.Delay, nil
}

// Calls returns a copy of all recorded invocations.
func (e *Exchanger) Calls() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.calls))
	copy(out, e.calls)
	return out
}

// CallCount returns how many exchanges happened.
func (e *Exchanger) CallCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// MaxInFlight returns the highest number of concurrent exchanges seen.
func (e *Exchanger) MaxInFlight() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.maxInFlight
}
