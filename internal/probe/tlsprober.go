package probe

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"net"
	"strconv"
	"time"
)

// TLSProber dials host:port, handshakes with SNI set to the host, and reads
// the leaf certificate's NotAfter. Verification uses the system trust store
// unless RootCAs is set (tests point it at a throwaway CA).
type TLSProber struct {
	// Timeout bounds the combined dial + handshake time of one probe.
	Timeout time.Duration
	RootCAs *x509.CertPool
}

func NewTLSProber(timeout time.Duration) *TLSProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &TLSProber{Timeout: timeout}
}

func (p *TLSProber) Probe(ctx context.Context, host string, port int) (time.Time, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))

	cctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	var d net.Dialer
	raw, err := d.DialContext(cctx, "tcp", addr)
	if err != nil {
		return time.Time{}, &ConnectError{Addr: addr, Err: err}
	}
	defer raw.Close()

	conn := tls.Client(raw, &tls.Config{
		ServerName: host,
		RootCAs:    p.RootCAs,
	})
	if err := conn.HandshakeContext(cctx); err != nil {
		return time.Time{}, &HandshakeError{Addr: addr, Err: err}
	}
	defer conn.Close()

	certs := conn.ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return time.Time{}, &CertError{Addr: addr, Reason: "no peer certificate"}
	}
	expiry := certs[0].NotAfter
	if expiry.IsZero() {
		return time.Time{}, &CertError{Addr: addr, Reason: "certificate has no expiry"}
	}
	return expiry, nil
}
