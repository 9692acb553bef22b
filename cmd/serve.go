package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/skillcheck/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the quiz API over HTTP",
	Long: "Serves the quiz API under /api/quizzes, Prometheus metrics under /metrics " +
		"and a health check under /healthz. Callers identify themselves with the " +
		api.HeaderPrincipalID + " and " + api.HeaderPrincipalRole + " headers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openDeps(cmd, os.Stderr)
		if err != nil {
			return err
		}
		defer d.Close()

		addr := d.cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		srv := &http.Server{
			Addr: addr,
			Handler: api.New(api.RouterConfig{
				Service: d.service,
				Metrics: d.metrics,
				Logger:  d.logger.Named("http"),
			}),
			ReadTimeout:  d.cfg.Server.ReadTimeout,
			WriteTimeout: d.cfg.Server.WriteTimeout,
		}

		ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		errc := make(chan error, 1)
		go func() {
			d.logger.Info("listening", zap.String("addr", addr), zap.String("db", d.dbPath))
			errc <- srv.ListenAndServe()
		}()

		select {
		case err := <-errc:
			if !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serve: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		d.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
}
