// Command telnetc is a demo telnet client built on the telnetkit engine:
// it dials a server, negotiates options, and drives a small bubbletea
// scrollback UI over the resulting Session.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/telnetkit/telnetkit/logging"
	"github.com/telnetkit/telnetkit/telnet"
	"github.com/telnetkit/telnetkit/transport"
)

func main() {
	var logFile, scriptPath string

	rootCmd := &cobra.Command{
		Use:   "telnetc <host:port>",
		Short: "telnetkit demo telnet client",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], logFile, scriptPath)
		},
	}
	rootCmd.Flags().StringVar(&logFile, "log", "", "write session logs to this file instead of discarding them")
	rootCmd.Flags().StringVar(&scriptPath, "script", "", "Lua script defining an on_line(text) hook")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(addr, logFile, scriptPath string) error {
	var log = logging.Setup(nil, logFile == "")
	if logFile != "" {
		log = logging.Setup([]logging.SinkConfig{{File: logFile, Level: "debug"}}, false)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := transport.DialTCP(ctx, addr)
	if err != nil {
		return fmt.Errorf("dialing %s: %w", addr, err)
	}

	cfg := telnet.DefaultConfig()
	cfg.Role = telnet.RoleClient

	sess := telnet.NewSession(cfg, conn, log)

	lineCh := make(chan string)
	errCh := make(chan error, 1)
	var uiWriter *telnet.SessionWriter

	var script *scriptEngine

	shellReady := make(chan struct{})
	go func() {
		err := sess.Run(ctx, func(ctx context.Context, r *telnet.Reader, w *telnet.SessionWriter) {
			uiWriter = w
			var scriptErr error
			script, scriptErr = newScriptEngine(scriptPath, w)
			if scriptErr != nil {
				log.Error("loading script", "path", scriptPath, "err", scriptErr)
				script = nil
			}
			close(shellReady)
			for {
				line, err := r.ReadLine(ctx)
				if err != nil {
					return
				}
				display, keep := line, true
				if script != nil {
					display, keep = script.OnLine(line)
				}
				if !keep {
					continue
				}
				select {
				case lineCh <- display:
				case <-ctx.Done():
					return
				}
			}
		})
		errCh <- err
	}()

	<-shellReady
	if script != nil {
		defer script.Close()
	}

	p := tea.NewProgram(newModel(addr, uiWriter, lineCh, errCh))
	_, err = p.Run()

	cancel()
	sess.Close()
	conn.Close()
	return err
}
