package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/atlas-finance/atlas/internal/api"
	"github.com/atlas-finance/atlas/internal/logging"
)

// shutdownTimeout bounds the wait for in-flight requests.
const shutdownTimeout = 30 * time.Second

func newServeCommand(a *app) *cobra.Command {
	var repoDir string
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the schedule API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, a, repoDir, addr)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "repository directory")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from atlas.yaml)")

	return cmd
}

// runServe serves until ctx is done, then shuts down gracefully.
func runServe(ctx context.Context, a *app, repoDir, addr string) error {
	r, err := openRepo(repoDir)
	if err != nil {
		return err
	}
	if addr == "" {
		addr = r.cfg.Server.Addr
	}

	// The server always logs; --verbose only switches to the console encoder.
	logger := a.logger
	if !a.verbose {
		if logger, err = logging.New(r.cfg.Log.Mode); err != nil {
			return err
		}
		defer logger.Sync()
	}

	h := api.NewHandler(r.classes, api.Defaults{
		Method:     r.cfg.DefaultMethod(),
		StubPolicy: r.cfg.StubPolicy(),
	}, logger)
	srv := api.NewServer(logger, addr, h)

	errc := make(chan error, 1)
	go func() { errc <- srv.Run() }()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := <-errc; err != nil {
		return err
	}
	logger.Info("server stopped", zap.String("addr", addr))
	return nil
}
