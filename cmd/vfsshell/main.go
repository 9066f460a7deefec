package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"vfsshell/internal/config"
	"vfsshell/internal/fs"
	"vfsshell/internal/logging"
	"vfsshell/internal/metrics"
	"vfsshell/internal/shell"
	"vfsshell/internal/state"

	"golang.org/x/term"
)

var (
	logger = logging.GetLogger()
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load(os.Args[1:], os.Stderr)
	if err != nil {
		logger.Error("Invalid arguments: %v", err)
		return 2
	}
	defer logger.Sync()

	if level, ok := logging.ParseLevel(cfg.LogLevel); ok {
		logger.SetLevel(level)
	}

	logger.Debug("VFS path: %s", valueOr(cfg.SnapshotPath, "(not set)"))
	logger.Debug("Startup script: %s", valueOr(cfg.StartupScript, "(not set)"))
	logger.Debug("Mount point: %s", valueOr(cfg.MountPoint, "(not set)"))
	logger.Debug("Metrics address: %s", valueOr(cfg.MetricsAddr, "(not set)"))

	session := shell.NewSession(shell.Options{
		SnapshotPath: cfg.SnapshotPath,
		User:         cfg.User,
		Hostname:     cfg.Hostname,
	})

	if cfg.ExportPath != "" {
		sm, err := state.NewManager(nil, cfg.ExportPath)
		if err != nil {
			logger.Error("Failed to initialize state manager: %v", err)
			return 1
		}
		if err := sm.Save(session.Store.Root()); err != nil {
			logger.Error("Failed to export snapshot: %v", err)
			return 1
		}
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		wg       sync.WaitGroup
		shutdown []func()
	)

	if cfg.MetricsAddr != "" {
		srv := &http.Server{
			Addr:              cfg.MetricsAddr,
			Handler:           metrics.Router(session.VFSName),
			ReadHeaderTimeout: 5 * time.Second,
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("Serving metrics on %s", cfg.MetricsAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server error: %v", err)
			}
		}()
		shutdown = append(shutdown, func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Metrics server shutdown: %v", err)
			}
		})
	}

	if cfg.MountPoint != "" {
		// Unmounts itself once ctx is cancelled
		treeFS := fs.NewTreeFS(session.Store.Root())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := treeFS.Mount(ctx, cfg.MountPoint); err != nil {
				logger.Error("FUSE mount error: %v", err)
			}
		}()
	}

	code := interact(ctx, cfg, session)

	stop()
	for _, fn := range shutdown {
		fn()
	}
	wg.Wait()
	logger.Info("Clean shutdown complete")
	return code
}

// interact plays the startup script, if any, then hands stdin to the REPL.
func interact(ctx context.Context, cfg *config.Config, session *shell.Session) int {
	dispatcher := shell.NewDispatcher(session)

	var (
		in  shell.LineReader
		out io.Writer = os.Stdout
	)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			logger.Error("Failed to enter raw mode: %v", err)
			return 1
		}
		defer func() {
			if err := term.Restore(fd, oldState); err != nil {
				logger.Warn("Failed to restore terminal: %v", err)
			}
		}()
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{os.Stdin, os.Stdout}, "")
		in, out = t, t

		// Raw mode needs \r\n line endings, which the terminal writer adds
		prev := logger.SetOutput(t)
		defer logger.SetOutput(prev)
	} else {
		in = shell.NewLineReader(os.Stdin)
	}

	io.WriteString(out, session.Title()+"\n\n")

	if cfg.StartupScript != "" {
		err := shell.NewPlayer(session, dispatcher, out).RunFile(nil, cfg.StartupScript)
		switch {
		case errors.Is(err, shell.ErrExit):
			return 0
		case err != nil:
			logger.Warn("Startup script stopped: %v", err)
		}
	}

	if err := shell.NewREPL(session, dispatcher, out).Run(ctx, in); err != nil {
		logger.Error("Input error: %v", err)
		return 1
	}
	return 0
}

func valueOr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
