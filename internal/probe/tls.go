package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"time"
)

const (
	DefaultTLSPort    = "443"
	DefaultTLSTimeout = 5 * time.Second
)

// TLSChecker opens its own TLS connection to the URL host and looks for a peer
// certificate. Verification uses the system trust store unless RootCAs is set.
type TLSChecker struct {
	Port    string
	Timeout time.Duration
	RootCAs *x509.CertPool
}

func NewTLSChecker(timeout time.Duration) *TLSChecker {
	if timeout <= 0 {
		timeout = DefaultTLSTimeout
	}
	return &TLSChecker{Port: DefaultTLSPort, Timeout: timeout}
}

func (c *TLSChecker) Check(ctx context.Context, rawURL string) bool {
	host := hostOf(rawURL)
	if host == "" {
		return false
	}
	port := c.Port
	if port == "" {
		port = DefaultTLSPort
	}

	// the timeout covers connect and handshake
	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	d := &tls.Dialer{
		NetDialer: &net.Dialer{Timeout: c.Timeout},
		Config: &tls.Config{
			ServerName: host,
			RootCAs:    c.RootCAs,
		},
	}
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, port))
	if err != nil {
		return false
	}
	defer conn.Close()

	tc, ok := conn.(*tls.Conn)
	if !ok {
		return false
	}
	return len(tc.ConnectionState().PeerCertificates) > 0
}
