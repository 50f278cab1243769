package transport

import (
	"context"
	"testing"
	"time"
)

func TestMemoryPairRoundtrip(t *testing.T) {
	a, b := NewMemoryPair()
	defer a.Close()
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		buf := make([]byte, 5)
		n, err := b.Read(ctx, buf)
		if err != nil {
			t.Errorf("Read: %v", err)
			return
		}
		if string(buf[:n]) != "hello" {
			t.Errorf("got %q, want %q", buf[:n], "hello")
		}
	}()

	if _, err := a.Write(ctx, []byte("hello")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	<-done
}

func TestMemoryIsClosingAfterClose(t *testing.T) {
	a, b := NewMemoryPair()
	defer b.Close()

	if a.IsClosing() {
		t.Fatalf("fresh transport reports closing")
	}
	a.Close()
	if !a.IsClosing() {
		t.Fatalf("expected IsClosing after Close")
	}
}

func TestMemoryCloseIsIdempotent(t *testing.T) {
	a, b := NewMemoryPair()
	defer b.Close()

	if err := a.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
