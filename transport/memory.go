package transport

import (
	"context"
	"net"
	"sync/atomic"
	"time"
)

// Memory is an in-process Transport backed by net.Pipe: a transport a
// demo or test can drive without a real socket. NewMemoryPair returns
// both ends already connected to each other.
type Memory struct {
	conn     net.Conn
	closing  atomic.Bool
	closedCh chan struct{}
}

// NewMemoryPair returns two Memory transports piped together; bytes
// written to one are read from the other.
func NewMemoryPair() (*Memory, *Memory) {
	a, b := net.Pipe()
	return &Memory{conn: a, closedCh: make(chan struct{})}, &Memory{conn: b, closedCh: make(chan struct{})}
}

func (m *Memory) Read(ctx context.Context, p []byte) (int, error) {
	if deadline, ok := ctx.Deadline(); ok {
		m.conn.SetReadDeadline(deadline)
	} else {
		m.conn.SetReadDeadline(time.Time{})
	}
	return m.conn.Read(p)
}

func (m *Memory) Write(ctx context.Context, p []byte) (int, error) {
	if deadline, ok := ctx.Deadline(); ok {
		m.conn.SetWriteDeadline(deadline)
	} else {
		m.conn.SetWriteDeadline(time.Time{})
	}
	return m.conn.Write(p)
}

func (m *Memory) Close() error {
	if m.closing.CompareAndSwap(false, true) {
		close(m.closedCh)
	}
	return m.conn.Close()
}

func (m *Memory) IsClosing() bool {
	return m.closing.Load()
}
