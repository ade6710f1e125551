// Command ftlsim runs the FTL namespace as a standalone simulator: it
// replays a scripted host I/O workload against ftl.Namespace, drains
// the worker pool in the background, and exposes the namespace's
// internal state as Prometheus metrics. Structurally grounded on the
// teacher's mkfs driver (biscuit/src/mkfs/mkfs.go: a single flat
// main() wiring library packages together, usage errors reported and
// a non-zero exit) combined with the systemd_exporter's
// promhttp-server wiring for the metrics half.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/pony1357/nvmevirt/config"
	"github.com/pony1357/nvmevirt/ftl"
	"github.com/pony1357/nvmevirt/internal/logging"
	"github.com/pony1357/nvmevirt/internal/metrics"
)

func main() {
	kingpin.Version("ftlsim (nvmevirt) 0.1.0")
	kingpin.HelpFlag.Short('h')
	cfg := config.Parse()

	log := logging.New(os.Stderr, cfg.LogLevel)
	runID := uuid.New()
	log = log.With().Str("run_id", runID.String()).Logger()

	ns, err := ftl.New(cfg.FTL, log)
	if err != nil {
		log.Error().Err(err).Msg("failed to build namespace")
		os.Exit(1)
	}

	collector, err := metrics.NewCollector(log, ns)
	if err != nil {
		log.Error().Err(err).Msg("failed to build metrics collector")
		os.Exit(1)
	}
	registry := prometheus.NewRegistry()
	if err := registry.Register(collector); err != nil {
		log.Error().Err(err).Msg("failed to register metrics collector")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutdown signal received")
		cancel()
	}()

	poolDone := make(chan error, 1)
	go func() { poolDone <- ns.Pool().Run(ctx, cfg.Workers) }()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	server := &http.Server{Addr: cfg.ListenAddr, Handler: mux}
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("metrics server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("metrics server failed")
		}
	}()

	if err := runWorkload(ctx, log, ns); err != nil {
		log.Error().Err(err).Msg("workload run failed")
	}

	cancel()
	_ = server.Close()
	if err := <-poolDone; err != nil && errors.Cause(err) != context.Canceled {
		log.Warn().Err(err).Msg("worker pool exited with error")
	}
}
