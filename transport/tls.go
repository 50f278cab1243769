package transport

import (
	"context"
	"crypto/tls"
	"net"
)

// TLSTransport is a TCPTransport dialed or accepted over a TLS session,
// for deployments that put telnet-over-TLS ("telnets") behind a
// certificate rather than a plaintext socket.
type TLSTransport struct {
	*TCPTransport
}

// DialTLS connects and completes a TLS handshake before returning.
func DialTLS(ctx context.Context, addr string, cfg *tls.Config) (*TLSTransport, error) {
	var d tls.Dialer
	d.Config = cfg
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TLSTransport{TCPTransport: NewTCPTransport(conn)}, nil
}

// TLSListener wraps net.Listener with tls.NewListener, handing callers a
// *TLSTransport per accepted connection.
type TLSListener struct {
	ln net.Listener
}

func ListenTLS(addr string, cfg *tls.Config) (*TLSListener, error) {
	inner, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TLSListener{ln: tls.NewListener(inner, cfg)}, nil
}

func (l *TLSListener) Accept() (*TLSTransport, error) {
	conn, err := l.ln.Accept()
	if err != nil {
		return nil, err
	}
	return &TLSTransport{TCPTransport: NewTCPTransport(conn)}, nil
}

func (l *TLSListener) Close() error {
	return l.ln.Close()
}

func (l *TLSListener) Addr() net.Addr {
	return l.ln.Addr()
}
