package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/voxgen"
	"github.com/aretw0/voxgen/internal/cli"
	"github.com/aretw0/voxgen/internal/presentation/tui"
	httpAdapter "github.com/aretw0/voxgen/pkg/adapters/http"
	"github.com/aretw0/voxgen/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Serves scripts, named volumes and the palette over HTTP.
Generation on a volume is serialized per volume id; with a redis address configured
volumes and locks are shared between replicas.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger := loadConfig(cmd)
		if cmd.Flags().Changed("addr") {
			cfg.HTTP.Addr, _ = cmd.Flags().GetString("addr")
		}

		metrics := observability.NewMetrics()
		registry := prometheus.NewRegistry()
		registry.MustRegister(metrics, collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		gen, closeFn, err := cli.NewGenerator(cfg, logger, metrics.Hooks(), observability.AuditHooks(logger))
		if err != nil {
			fail("%v", err)
		}
		defer closeFn()

		ctx, stop := context.WithCancel(context.Background())
		defer stop()
		if err := gen.WatchPalettes(ctx); err != nil && !errors.Is(err, voxgen.ErrNotWatchable) {
			logger.Warn("palette watcher disabled", "err", err)
		}

		opts := []httpAdapter.Option{httpAdapter.WithLogger(logger)}
		if cfg.HTTP.Metrics {
			opts = append(opts, httpAdapter.WithMetrics(registry))
		}
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           httpAdapter.NewHandler(gen, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout, rootVersion())
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("http server listening", "addr", srv.Addr, "root", cfg.Root, "palette", gen.Palette().Name())
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			closeFn()
			fail("server error: %v", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", shutdownTimeout, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			logger.Info("http server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "Address to listen on")
}
