package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/crease/internal/smoketest"
	"github.com/okian/crease/pkg/logger"
)

// Default configuration constants.
const (
	defaultSignups    = 16
	defaultTimeout    = 30 * time.Second
	defaultRunTimeout = 5 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9080", "Base URL of the service")
		adminToken = flag.String("token", "", "Admin token for goalie setup")
		signups    = flag.Int("signups", defaultSignups, "Number of signups to submit")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		_ = logger.Sync()
	}()
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	cfg := &smoketest.Config{
		BaseURL:    *baseURL,
		AdminToken: *adminToken,
		Signups:    *signups,
		Timeout:    *timeout,
		Verbose:    *verbose,
	}

	if err := smoketest.Run(ctx, cfg); err != nil {
		os.Stderr.WriteString("smoke test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
