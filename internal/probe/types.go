package probe

import (
	"context"
	"fmt"
	"time"
)

// Prober retrieves the expiry timestamp of the certificate presented by
// host:port. Implementations open one connection per call and close it
// before returning; there are no retries.
type Prober interface {
	Probe(ctx context.Context, host string, port int) (time.Time, error)
}

// ConnectError means the TCP connection could not be established in time.
type ConnectError struct {
	Addr string
	Err  error
}

func (e *ConnectError) Error() string { return fmt.Sprintf("connect %s: %v", e.Addr, e.Err) }
func (e *ConnectError) Unwrap() error { return e.Err }

// HandshakeError means TLS negotiation or certificate verification failed.
type HandshakeError struct {
	Addr string
	Err  error
}

func (e *HandshakeError) Error() string { return fmt.Sprintf("tls handshake %s: %v", e.Addr, e.Err) }
func (e *HandshakeError) Unwrap() error { return e.Err }

// CertError means the handshake succeeded but the peer presented no usable
// certificate expiry.
type CertError struct {
	Addr   string
	Reason string
}

func (e *CertError) Error() string { return fmt.Sprintf("certificate %s: %s", e.Addr, e.Reason) }
