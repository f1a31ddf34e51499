package network

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	utls "github.com/refraction-networking/utls"
	"golang.org/x/net/http2"
)

const dialTimeout = 30 * time.Second

// impersonator presents a Chrome TLS ClientHello. It prefers HTTP/2 and falls
// back to an HTTP/1.1-only handshake when the h2 attempt fails.
type impersonator struct {
	h2 *http2.Transport
	h1 *http.Transport
}

func newImpersonator() *impersonator {
	return &impersonator{
		h2: &http2.Transport{
			DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
				return dialTLS(ctx, network, addr, nil)
			},
		},
		h1: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				return dialTLS(ctx, network, addr, []string{"http/1.1"})
			},
		},
	}
}

func (t *impersonator) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme == "https" {
		resp, err := t.h2.RoundTrip(req)
		if err == nil {
			return resp, nil
		}
		if req.Body != nil && req.GetBody == nil {
			return nil, err
		}
	}
	return t.h1.RoundTrip(req.Clone(req.Context()))
}

// dialTLS creates a TLS connection mimicking Chrome 120's fingerprint.
// A nil protos keeps the fingerprint's own ALPN list (h2 and http/1.1).
func dialTLS(ctx context.Context, network, addr string, protos []string) (net.Conn, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	dialer := &net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, network, addr)
	if err != nil {
		return nil, err
	}

	tlsConn := utls.UClient(conn, &utls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		NextProtos: protos,
	}, utls.HelloChrome_120)

	if err := tlsConn.Handshake(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("tls handshake: %w", err)
	}

	return tlsConn, nil
}
