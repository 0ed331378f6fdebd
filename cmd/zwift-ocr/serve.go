package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ironsheep/zwift-ocr/internal/extractor"
	"github.com/ironsheep/zwift-ocr/internal/server"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `serve speaks the MCP protocol over stdin/stdout. Configure it in an MCP
client. Logs go to stderr. With --metrics-addr, Prometheus metrics are served
on /metrics at that address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.close()

			ex, err := a.extractor(extractor.ModeParallel)
			if err != nil {
				return err
			}

			if a.cfg.MetricsAddr != "" {
				stop := serveMetrics(a, a.cfg.MetricsAddr)
				defer stop()
			}

			a.log.Info("starting MCP server",
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("commit", GitCommit))
			return server.New(ex, a.opts, Version).Serve(cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().String("metrics-addr", "", "address for the Prometheus /metrics endpoint, e.g. :9090")
	return cmd
}

// serveMetrics starts the metrics endpoint and returns a function that stops
// it.
func serveMetrics(a *app, addr string) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.log.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
