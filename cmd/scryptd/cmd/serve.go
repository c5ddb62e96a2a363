/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ssargent/scryptd/pkg/api"
	"github.com/ssargent/scryptd/pkg/config"
	"github.com/ssargent/scryptd/pkg/logging"
)

const drainTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the hashing service",
	Long: `Start the scryptd HTTP service.

POST /hash and POST /compare run on a pool of at most maxWorkers workers.
SIGHUP reopens the log file and reloads the TLS certificate; SIGINT and
SIGTERM stop accepting requests and drain the pool.

Examples:
  scryptd serve
  scryptd serve -c /etc/scryptd/config.json
  scryptd serve --ip 0.0.0.0 --port 9443 --max-workers 4 --metrics`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := configFrom(cmd)
		applyServeFlags(cmd, cfg)

		signals := make(chan os.Signal, 1)
		signal.Notify(signals, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(signals)

		return runServe(cmd.Context(), cfg, signals)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("ip", "", "Address to listen on")
	serveCmd.Flags().IntP("port", "p", 0, "Port to listen on")
	serveCmd.Flags().Int("min-workers", 0, "Workers kept alive while idle")
	serveCmd.Flags().Int("max-workers", 0, "Maximum concurrent derivations (-1 for a quarter of the CPUs)")
	serveCmd.Flags().String("log-path", "", "Log file (stderr when empty)")
	serveCmd.Flags().String("log-level", "", "Log level: debug, info, warn or error")
	serveCmd.Flags().Bool("metrics", false, "Expose Prometheus metrics on /metrics")
}

// applyServeFlags overrides config values with flags given on the command line
func applyServeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("ip") {
		cfg.IP, _ = flags.GetString("ip")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("min-workers") {
		cfg.MinWorkers, _ = flags.GetInt("min-workers")
	}
	if flags.Changed("max-workers") {
		cfg.MaxWorkers, _ = flags.GetInt("max-workers")
	}
	if flags.Changed("log-path") {
		cfg.LogPath, _ = flags.GetString("log-path")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("metrics") {
		cfg.Metrics, _ = flags.GetBool("metrics")
	}
}

// runServe serves until ctx ends or SIGINT/SIGTERM arrives on signals, then
// closes the listener and drains the worker pool.
func runServe(ctx context.Context, cfg *config.Config, signals <-chan os.Signal) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	sink, err := logging.NewSink(cfg.LogPath)
	if err != nil {
		return err
	}
	defer sink.Close()

	level, _ := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(sink, level)

	var certs *api.CertificateStore
	if cfg.TLSEnabled() {
		certs, err = api.LoadCertificates(cfg.CertificatePath, cfg.CertificateKeyPath)
		if err != nil {
			return err
		}
	}

	c := getContainer()
	pool := c.GetDispatcherFactory()(cfg.DispatchConfig(), logger)
	server := c.GetServerFactory().CreateServerStarter(pool, api.ServerConfig{
		IP:              cfg.IP,
		Port:            cfg.Port,
		AllowedOrigins:  cfg.AllowedOrigins,
		EnableMetrics:   cfg.Metrics,
		ShutdownTimeout: drainTimeout,
		Certificates:    certs,
	}, logger)

	logger.Info("worker pool ready",
		"min_workers", cfg.MinWorkers,
		"max_workers", pool.MaxWorkers())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case sig := <-signals:
				if sig == syscall.SIGHUP {
					reload(logger, sink, certs)
					continue
				}
				logger.Info("received signal, shutting down", "signal", sig.String())
				cancel()
				return nil
			}
		}
	})

	serveErr := g.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), drainTimeout)
	defer drainCancel()
	if err := pool.Shutdown(drainCtx); err != nil {
		logger.Warn("worker pool did not drain", "error", err)
	}
	logger.Info("scryptd stopped")

	return serveErr
}

func reload(logger *slog.Logger, sink *logging.Sink, certs *api.CertificateStore) {
	if err := sink.Reopen(); err != nil {
		logger.Error("failed to reopen log file", "error", err)
	}
	if certs != nil {
		if err := certs.Reload(); err != nil {
			logger.Error("failed to reload certificate, keeping the current one", "error", err)
		}
	}
	logger.Info("reloaded log file and certificates")
}
