// Package config loads session configuration from flags and environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Config holds everything needed to start a shell session.
type Config struct {
	// Snapshot to load; empty means the built-in tree
	SnapshotPath string
	// Script to play back after startup
	StartupScript string

	// Read-only FUSE mount point for the loaded tree
	MountPoint string
	// Control server address for /metrics and /healthz
	MetricsAddr string
	// Write the session tree to this path as a snapshot and exit
	ExportPath string

	// Logging
	LogLevel string
	Verbose  bool

	// Prompt identity
	User     string
	Hostname string
}

// Load parses args (without the program name) with environment fallbacks.
func Load(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("vfsshell", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.SnapshotPath, "vfs_path", envOr("VFS_PATH", ""), "Path to the JSON snapshot of the VFS")
	fs.StringVar(&cfg.StartupScript, "startup_script", envOr("STARTUP_SCRIPT", ""), "Path to a startup script")
	fs.StringVar(&cfg.MountPoint, "mount", envOr("VFS_MOUNT", ""), "Mount the VFS read-only at this directory")
	fs.StringVar(&cfg.MetricsAddr, "metrics", envOr("METRICS_ADDR", ""), "Serve /metrics and /healthz on this address")
	fs.StringVar(&cfg.ExportPath, "export", "", "Write the session tree as a snapshot to this path and exit")
	fs.BoolVar(&cfg.Verbose, "verbose", envBool("VFS_VERBOSE", false), "Enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	cfg.LogLevel = envOr("LOG_LEVEL", "INFO")
	if cfg.Verbose {
		cfg.LogLevel = "DEBUG"
	}

	cfg.User = envOr("USER", "user")
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	cfg.Hostname = host

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
