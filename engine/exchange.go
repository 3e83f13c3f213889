package engine

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/miekg/dns"
)

// Exchanger is the single seam between the engine and the wire. The
// production implementation wraps miekg's client; tests substitute
// in-memory fakes. Implementations must be safe for concurrent use.
type Exchanger interface {
	Exchange(ctx context.Context, msg *dns.Msg, address string) (*dns.Msg, time.Duration, error)
}

// ClientExchanger issues real queries over UDP (or the configured net).
type ClientExchanger struct {
	Net string // "udp", "tcp"; empty means udp
}

// Exchange sends one query to one nameserver. The context carries the
// per-attempt deadline; no retries happen at this layer. Addresses without
// an explicit port get :53.
func (e *ClientExchanger) Exchange(ctx context.Context, msg *dns.Msg, address string) (*dns.Msg, time.Duration, error) {
	client := &dns.Client{Net: e.Net}
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, "53")
	}
	return client.ExchangeContext(ctx, msg, address)
}

var (
	systemOnce    sync.Once
	systemServers []string
)

// systemNameservers returns the host's configured resolver addresses,
// read once from /etc/resolv.conf. Falls back to Google public DNS when
// the file is unreadable (containers frequently lack one).
func systemNameservers() []string {
	systemOnce.Do(func() {
		conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
		if err == nil && len(conf.Servers) > 0 {
			systemServers = conf.Servers
			return
		}
		systemServers = []string{"8.8.8.8"}
	})
	return systemServers
}
