package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"

	"github.com/hamed0406/urlchecker/internal/domain"
)

func TestResolution_String(t *testing.T) {
	cases := []struct {
		in   Resolution
		want string
	}{
		{resolvedIP("192.0.2.1"), "192.0.2.1"},
		{invalidName, domain.IPInvalid},
		{unresolved, domain.IPUnknown},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Fatalf("String()=%q want %q", got, c.want)
		}
	}
}

func TestSystemResolver_Sentinels(t *testing.T) {
	r := NewSystemResolver()
	ctx := context.Background()

	if got := r.Resolve(ctx, ""); got.Status != Invalid {
		t.Fatalf("empty host: want Invalid, got %+v", got)
	}
	if got := r.Resolve(ctx, "https://example.com"); got.Status != Invalid {
		t.Fatalf("url as host: want Invalid, got %+v", got)
	}
	if got := r.Resolve(ctx, "127.0.0.1"); got.Status != Resolved || got.IP != "127.0.0.1" {
		t.Fatalf("ip literal: want 127.0.0.1, got %+v", got)
	}
	if got := r.Resolve(ctx, "::1"); got.Status != Resolved || got.IP != "::1" {
		t.Fatalf("ipv6 literal: want ::1, got %+v", got)
	}
	// .invalid is reserved and never resolves
	if got := r.Resolve(ctx, "nonexistent.invalid"); got.Status != Unknown {
		t.Fatalf("reserved tld: want Unknown, got %+v", got)
	}
}

func TestPickIP_PrefersIPv4(t *testing.T) {
	ips := []net.IP{net.ParseIP("2001:db8::1"), net.ParseIP("192.0.2.7")}
	if got := pickIP(ips); got != "192.0.2.7" {
		t.Fatalf("want 192.0.2.7, got %s", got)
	}
	if got := pickIP([]net.IP{net.ParseIP("2001:db8::1")}); got != "2001:db8::1" {
		t.Fatalf("want ipv6 fallback, got %s", got)
	}
}

func TestNormalizeServer(t *testing.T) {
	cases := []struct{ in, want string }{
		{"8.8.8.8", "8.8.8.8:53"},
		{"8.8.8.8:5353", "8.8.8.8:5353"},
		{"2001:db8::53", "[2001:db8::53]:53"},
		{"[2001:db8::53]", "[2001:db8::53]:53"},
		{"[::1]:5300", "[::1]:5300"},
		{"", ""},
	}
	for _, c := range cases {
		if got := normalizeServer(c.in); got != c.want {
			t.Fatalf("normalizeServer(%q)=%q want %q", c.in, got, c.want)
		}
	}
}

// startDNS serves zone data on a local UDP port.
func startDNS(t *testing.T, handler dns.HandlerFunc) string {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("udp listen: %v", err)
	}
	started := make(chan struct{})
	srv := &dns.Server{PacketConn: pc, Handler: handler, NotifyStartedFunc: func() { close(started) }}
	go func() { _ = srv.ActivateAndServe() }()
	<-started
	t.Cleanup(func() { _ = srv.Shutdown() })
	return pc.LocalAddr().String()
}

func testZone(w dns.ResponseWriter, r *dns.Msg) {
	m := new(dns.Msg)
	m.SetReply(r)
	q := r.Question[0]
	hdr := dns.RR_Header{Name: q.Name, Class: dns.ClassINET, Ttl: 60, Rrtype: q.Qtype}
	switch {
	case q.Name == "v4.test." && q.Qtype == dns.TypeA:
		m.Answer = append(m.Answer, &dns.A{Hdr: hdr, A: net.ParseIP("192.0.2.10")})
	case q.Name == "v6.test." && q.Qtype == dns.TypeAAAA:
		m.Answer = append(m.Answer, &dns.AAAA{Hdr: hdr, AAAA: net.ParseIP("2001:db8::10")})
	case q.Name == "v4.test." || q.Name == "v6.test.":
		// exists, no records of this type
	default:
		m.Rcode = dns.RcodeNameError
	}
	_ = w.WriteMsg(m)
}

func TestServerResolver(t *testing.T) {
	addr := startDNS(t, testZone)
	r := NewServerResolver(addr, 500*time.Millisecond, nil)
	ctx := context.Background()

	if got := r.Resolve(ctx, "v4.test"); got.Status != Resolved || got.IP != "192.0.2.10" {
		t.Fatalf("A lookup: want 192.0.2.10, got %+v", got)
	}
	if got := r.Resolve(ctx, "v6.test"); got.Status != Resolved || got.IP != "2001:db8::10" {
		t.Fatalf("AAAA fallback: want 2001:db8::10, got %+v", got)
	}
	if got := r.Resolve(ctx, "missing.test"); got.Status != Unknown {
		t.Fatalf("NXDOMAIN: want Unknown, got %+v", got)
	}
	if got := r.Resolve(ctx, ""); got.Status != Invalid {
		t.Fatalf("empty: want Invalid, got %+v", got)
	}
}

func TestServerResolver_NoServer(t *testing.T) {
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("udp listen: %v", err)
	}
	addr := pc.LocalAddr().String()
	pc.Close()

	r := NewServerResolver(addr, 100*time.Millisecond, nil)
	if got := r.Resolve(context.Background(), "v4.test"); got.Status != Unknown {
		t.Fatalf("unreachable server: want Unknown, got %+v", got)
	}
}
