package probe

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"
	"go.uber.org/zap"

	"github.com/hamed0406/urlchecker/internal/domain"
)

type ResolveStatus int

const (
	Resolved ResolveStatus = iota
	Invalid
	Unknown
)

// Resolution is the outcome of one lookup.
type Resolution struct {
	Status ResolveStatus
	IP     string // set only when Status == Resolved
}

// String returns the address or the matching ProbeResult sentinel.
func (r Resolution) String() string {
	switch r.Status {
	case Resolved:
		return r.IP
	case Invalid:
		return domain.IPInvalid
	default:
		return domain.IPUnknown
	}
}

func resolvedIP(ip string) Resolution { return Resolution{Status: Resolved, IP: ip} }

var (
	invalidName = Resolution{Status: Invalid}
	unresolved  = Resolution{Status: Unknown}
)

// precheck handles empty names and IP literals without touching the network.
func precheck(host string) (Resolution, bool) {
	host = strings.TrimSpace(host)
	if host == "" || strings.Contains(host, "://") || strings.ContainsAny(host, " /") {
		return invalidName, true
	}
	if ip := net.ParseIP(host); ip != nil {
		return resolvedIP(ip.String()), true
	}
	return Resolution{}, false
}

// pickIP prefers IPv4 so results match what a plain A lookup would report.
func pickIP(ips []net.IP) string {
	for _, ip := range ips {
		if v4 := ip.To4(); v4 != nil {
			return v4.String()
		}
	}
	return ips[0].String()
}

// SystemResolver uses the OS resolver configuration.
type SystemResolver struct {
	Resolver *net.Resolver
}

func NewSystemResolver() *SystemResolver {
	return &SystemResolver{Resolver: net.DefaultResolver}
}

func (s *SystemResolver) Resolve(ctx context.Context, host string) Resolution {
	if r, done := precheck(host); done {
		return r
	}
	ips, err := s.Resolver.LookupIP(ctx, "ip", strings.TrimSpace(host))
	if err != nil || len(ips) == 0 {
		return unresolved
	}
	return resolvedIP(pickIP(ips))
}

const DefaultDNSTimeout = 2 * time.Second

// ServerResolver asks one DNS server directly: A first, AAAA when no A exists.
type ServerResolver struct {
	Server  string
	Timeout time.Duration
	Logger  *zap.Logger
	client  *dns.Client
}

func NewServerResolver(server string, timeout time.Duration, logger *zap.Logger) *ServerResolver {
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServerResolver{
		Server:  normalizeServer(server),
		Timeout: timeout,
		Logger:  logger,
		client:  &dns.Client{Timeout: timeout},
	}
}

func (s *ServerResolver) Resolve(ctx context.Context, host string) Resolution {
	if r, done := precheck(host); done {
		return r
	}
	host = strings.TrimSpace(host)
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		ip, err := s.query(ctx, host, qtype)
		if err != nil {
			s.Logger.Debug("dns_lookup_failed",
				zap.String("host", host),
				zap.String("server", s.Server),
				zap.String("type", dns.TypeToString[qtype]),
				zap.Error(err),
			)
			return unresolved
		}
		if ip != "" {
			return resolvedIP(ip)
		}
	}
	return unresolved
}

func (s *ServerResolver) query(ctx context.Context, host string, qtype uint16) (string, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resp, _, err := s.client.ExchangeContext(ctx, msg, s.Server)
	if err != nil {
		return "", err
	}
	if resp.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("dns error: %s", dns.RcodeToString[resp.Rcode])
	}
	for _, rr := range resp.Answer {
		switch v := rr.(type) {
		case *dns.A:
			return v.A.String(), nil
		case *dns.AAAA:
			return v.AAAA.String(), nil
		}
	}
	return "", nil
}

// normalizeServer appends :53 when no port is given; bare IPv6 gets brackets.
func normalizeServer(server string) string {
	server = strings.TrimSpace(server)
	if server == "" {
		return server
	}
	if _, _, err := net.SplitHostPort(server); err == nil {
		return server
	}
	if strings.HasPrefix(server, "[") {
		return server + ":53"
	}
	if strings.Contains(server, ":") {
		return "[" + server + "]:53"
	}
	return server + ":53"
}
