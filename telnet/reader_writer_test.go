package telnet

import (
	"context"
	"testing"
	"time"
)

func TestSessionWriterWillEchoAndOptions(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	writer := &SessionWriter{session: sess}

	if writer.WillEcho() {
		t.Fatalf("expected WillEcho false before negotiation")
	}
	entry := sess.parser.Options.Get(OptEcho)
	entry.LocalState = Enabled
	sess.parser.Options.Set(OptEcho, entry)
	if !writer.WillEcho() {
		t.Fatalf("expected WillEcho true once local ECHO is Enabled")
	}
	if got := writer.LocalOption(OptEcho); got != Enabled {
		t.Fatalf("got %v", got)
	}
	if got := writer.RemoteOption(OptEcho); got != Disabled {
		t.Fatalf("got %v", got)
	}
}

func TestSessionWriterModeProxiesSession(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	writer := &SessionWriter{session: sess}
	if writer.Mode() != sess.Mode() {
		t.Fatalf("writer.Mode() should proxy Session.Mode()")
	}
}

func TestSessionWriterWriteQueuesBytes(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	go sess.writeLoop(context.Background())
	writer := &SessionWriter{session: sess}

	if err := writer.Write("hi\n"); err != nil {
		t.Fatalf("Write returned %v", err)
	}
	if err := writer.Drain(context.Background()); err != nil {
		t.Fatalf("Drain returned %v", err)
	}
	if got := string(transport.written()); got != "hi\r\n" {
		t.Fatalf("got %q, want %q", got, "hi\r\n")
	}
	sess.Close()
}

func TestSessionWriterDrainReturnsClosedAfterClose(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	writer := &SessionWriter{session: sess}
	sess.Close()
	if err := writer.Drain(context.Background()); err != ErrConnectionClosed {
		t.Fatalf("got %v, want ErrConnectionClosed", err)
	}
}

func TestReaderReadLineReturnsErrOnClose(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	reader := &Reader{session: sess}
	sess.Close()
	if _, err := reader.ReadLine(context.Background()); err != ErrConnectionClosed {
		t.Fatalf("got %v, want ErrConnectionClosed", err)
	}
}

func TestSessionWriterNAWSRoundtrip(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	go sess.writeLoop(context.Background())
	writer := &SessionWriter{session: sess}

	if got := writer.NAWS(); got != (NAWS{}) {
		t.Fatalf("expected zero NAWS before any update, got %+v", got)
	}

	writer.SendNAWS(NAWS{Cols: 132, Rows: 43})
	if got := writer.NAWS(); got != (NAWS{Cols: 132, Rows: 43}) {
		t.Fatalf("got %+v", got)
	}

	if err := writer.Drain(context.Background()); err != nil {
		t.Fatalf("Drain returned %v", err)
	}
	want := EncodeNAWS(NAWS{Cols: 132, Rows: 43})
	if got := transport.written(); string(got) != string(want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	sess.Close()
}

func TestSessionWriterWaitClosed(t *testing.T) {
	transport := newPipeTransport()
	sess := NewSession(testConfig(), transport, nil)
	writer := &SessionWriter{session: sess}
	select {
	case <-writer.WaitClosed():
		t.Fatalf("expected WaitClosed to block before Close")
	case <-time.After(10 * time.Millisecond):
	}
	writer.Close()
	select {
	case <-writer.WaitClosed():
	case <-time.After(time.Second):
		t.Fatalf("expected WaitClosed to fire after Close")
	}
}
