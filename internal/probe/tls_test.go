package probe

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func tlsTarget(t *testing.T, s *httptest.Server) (*TLSChecker, string) {
	t.Helper()
	u, err := url.Parse(s.URL)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	chk := NewTLSChecker(time.Second)
	chk.Port = u.Port()
	return chk, "https://" + u.Hostname() + "/"
}

func TestTLSChecker_ValidCertificate(t *testing.T) {
	s := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer s.Close()

	chk, target := tlsTarget(t, s)
	pool := x509.NewCertPool()
	pool.AddCert(s.Certificate())
	chk.RootCAs = pool

	if !chk.Check(context.Background(), target) {
		t.Fatalf("want ssl valid for trusted test certificate")
	}
}

func TestTLSChecker_UntrustedCertificate(t *testing.T) {
	s := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer s.Close()

	chk, target := tlsTarget(t, s)
	if chk.Check(context.Background(), target) {
		t.Fatalf("want false: httptest certificate is not in the system pool")
	}
}

func TestTLSChecker_PlainHTTPOnPort(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer s.Close()

	chk, target := tlsTarget(t, s)
	if chk.Check(context.Background(), target) {
		t.Fatalf("want false when no TLS is served")
	}
}

func TestTLSChecker_Refused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_, port, _ := net.SplitHostPort(ln.Addr().String())
	ln.Close()

	chk := NewTLSChecker(time.Second)
	chk.Port = port
	if chk.Check(context.Background(), "https://127.0.0.1") {
		t.Fatalf("want false on refused connection")
	}
}

func TestTLSChecker_HandshakeTimeout(t *testing.T) {
	// accepts TCP but never speaks TLS
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()
	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			defer c.Close()
		}
	}()
	_, port, _ := net.SplitHostPort(ln.Addr().String())

	chk := NewTLSChecker(100 * time.Millisecond)
	chk.Port = port
	start := time.Now()
	if chk.Check(context.Background(), "https://127.0.0.1") {
		t.Fatalf("want false on stalled handshake")
	}
	if time.Since(start) > 2*time.Second {
		t.Fatalf("handshake was not bounded by the timeout: %v", time.Since(start))
	}
}

func TestTLSChecker_NoHost(t *testing.T) {
	if NewTLSChecker(time.Second).Check(context.Background(), "not a url") {
		t.Fatalf("want false without a host")
	}
}
