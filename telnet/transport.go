package telnet

import "context"

// Transport is the external collaborator the engine consumes bytes from
// and produces bytes to; it does not open sockets. Concrete
// implementations (TCP, TLS, in-memory pipe) live in the transport
// package; this interface is all Session depends on.
type Transport interface {
	Read(ctx context.Context, p []byte) (n int, err error)
	Write(ctx context.Context, p []byte) (n int, err error)
	Close() error
	IsClosing() bool
}

// Shell is the host callback: a function the session invokes once
// negotiation has had a chance to settle, given a Reader/Writer pair
// bound to this connection.
type Shell func(ctx context.Context, r *Reader, w *SessionWriter)
