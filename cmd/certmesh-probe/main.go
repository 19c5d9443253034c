// Package main provides the entry point for certmesh-probe.
//
// certmesh-probe is a small HTTPS daemon that serves the bootstrapped
// server certificate, proving end to end that the generated material
// works: it ensures the certificates exist, terminates TLS with them,
// hot-reloads them on change and reports what it serves on /certz.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/yndnr/certmesh-go/internal/bootstrap"
	"github.com/yndnr/certmesh-go/internal/config"
	"github.com/yndnr/certmesh-go/internal/infra/buildinfo"
	"github.com/yndnr/certmesh-go/internal/infra/shutdown"
	"github.com/yndnr/certmesh-go/internal/infra/tlsroots"
	"github.com/yndnr/certmesh-go/internal/probe"
	"github.com/yndnr/certmesh-go/internal/telemetry/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile  = flag.String("config", "", "Path to configuration file")
		showVersion = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("certmesh-probe %s\n", buildinfo.String())
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	log.Info("starting certmesh-probe",
		"version", buildinfo.Get().Version,
		"addr", cfg.Probe.Addr,
	)
	log.Debug("configuration loaded", "config", config.Sanitize(cfg))

	// Make sure certificates exist before serving them.
	ctx := context.Background()
	result, err := bootstrap.New(cfg, log).Ensure(ctx)
	if err != nil {
		return fmt.Errorf("ensure certificates: %w", err)
	}

	watcher, err := tlsroots.NewWatcher(result.ServerCert, result.ServerKey, tlsroots.WithLogger(log))
	if err != nil {
		return fmt.Errorf("init cert watcher: %w", err)
	}
	watcher.StartAsync()

	server := probe.NewServer(cfg.Probe.Addr, watcher, log)

	shutdownHandler := shutdown.NewHandler(30 * time.Second)
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		watcher.Stop()
		return nil
	})
	shutdownHandler.OnShutdown(func(ctx context.Context) error {
		return server.Shutdown(ctx)
	})

	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Error("probe server error", "error", err)
		}
	}()

	log.Info("probe started, press Ctrl+C to stop")
	if err := shutdownHandler.Wait(); err != nil {
		log.Error("shutdown error", "error", err)
		return err
	}

	log.Info("probe stopped gracefully")
	return nil
}
