// Command telnetd is a demo telnet server built on the telnetkit engine:
// it accepts connections, negotiates the options its config enables, and
// runs a tiny line-echo shell so the negotiation/editor pipeline can be
// exercised end to end over a real socket.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/telnetkit/telnetkit/config"
	"github.com/telnetkit/telnetkit/logging"
	"github.com/telnetkit/telnetkit/telnet"
	"github.com/telnetkit/telnetkit/transport"
)

var cfgFile string

func main() {
	configPath := os.Getenv("TELNETD_CONFIG")

	rootCmd := &cobra.Command{
		Use:     "telnetd",
		Short:   "telnetkit demo telnet server",
		Version: "0.1.0",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfgFile)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", configPath, "config file")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := loadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	sinks := make([]logging.SinkConfig, len(cfg.Loggers))
	for i, l := range cfg.Loggers {
		sinks[i] = logging.SinkConfig{
			Stdout:     l.Stdout,
			File:       l.File,
			Level:      l.Level,
			Source:     l.Source,
			HideTime:   l.HideTime,
			TimeFormat: l.TimeFormat,
		}
	}
	log := logging.Setup(sinks, false)

	engineCfg := telnetConfigFrom(cfg.Engine)
	engineCfg.Role = telnet.RoleServer

	ln, err := transport.Listen(cfg.Listener.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", cfg.Listener.Addr, err)
	}
	log.Info("telnetd listening", "addr", cfg.Listener.Addr)

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	acceptErrCh := make(chan error, 1)
	go func() {
		acceptErrCh <- acceptLoop(ctx, ln, engineCfg, log, &wg)
	}()

	select {
	case <-stopCh:
		log.Info("shutting down")
	case err := <-acceptErrCh:
		if err != nil {
			log.Error("accept loop stopped", "err", err)
		}
	}

	cancel()
	ln.Close()
	wg.Wait()
	return nil
}

func loadConfig(cfgFile string) (*config.Config, error) {
	if cfgFile == "" {
		cfgFile = config.DefaultFile()
	}
	if _, err := os.Stat(cfgFile); err != nil {
		return config.Default(), nil
	}
	return config.Load(cfgFile)
}

func telnetConfigFrom(e config.EngineConfig) telnet.Config {
	cfg := telnet.DefaultConfig()
	if e.Encoding != "" {
		cfg.Encoding = e.Encoding
	}
	cfg.ForceBinary = e.ForceBinary
	if e.ConnectMinWait > 0 {
		cfg.ConnectMinWait = e.ConnectMinWait
	}
	if e.ConnectMaxWait > 0 {
		cfg.ConnectMaxWait = e.ConnectMaxWait
	}
	if e.ConnectTimeout > 0 {
		cfg.ConnectTimeout = e.ConnectTimeout
	}
	if e.Term != "" {
		cfg.Term = e.Term
	}
	if e.Speed != "" {
		cfg.Speed = e.Speed
	}
	if len(e.SendEnviron) > 0 {
		cfg.SendEnviron = e.SendEnviron
	}
	cfg.NeverSendGA = e.NeverSendGA
	return cfg
}

func acceptLoop(ctx context.Context, ln *transport.Listener, cfg telnet.Config, log *slog.Logger, wg *sync.WaitGroup) error {
	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			handleConnection(ctx, conn, cfg, log)
		}()
	}
}

// handleConnection runs the echo shell for one connection with a
// per-connection logger. The session answers the peer's negotiation and
// sends no option offers of its own.
func handleConnection(ctx context.Context, conn *transport.TCPTransport, cfg telnet.Config, log *slog.Logger) {
	defer conn.Close()

	connLog := log.With("addr", conn.RemoteAddr())
	connLog.Info("connection accepted")
	defer connLog.Info("connection closed")

	sess := telnet.NewSession(cfg, conn, connLog)
	sess.OnStatusMismatch(func(mismatched []string) {
		connLog.Warn("STATUS mismatch", "options", mismatched)
	})

	if err := sess.Run(ctx, echoShell); err != nil {
		connLog.Debug("session ended", "err", err)
	}
}

// echoShell is the demo shell: it echoes every complete line back to
// the peer, reports the last negotiated NAWS dimensions when the peer
// types "naws", and closes on "quit".
func echoShell(ctx context.Context, r *telnet.Reader, w *telnet.SessionWriter) {
	_ = w.Write("telnetkit demo server. Type 'quit' to disconnect.\r\n")

	for {
		line, err := r.ReadLine(ctx)
		if err != nil {
			return
		}
		if line == "quit" {
			_ = w.Write("bye\r\n")
			_ = w.Drain(ctx)
			w.Close()
			return
		}
		if line == "naws" {
			naws := w.NAWS()
			_ = w.Write(fmt.Sprintf("window: %dx%d\r\n", naws.Cols, naws.Rows))
			continue
		}
		_ = w.Write("you said: " + line + "\r\n")
	}
}
