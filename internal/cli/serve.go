package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ytget/yt-webui/internal/config"
	xlog "github.com/ytget/yt-webui/internal/log"
	"github.com/ytget/yt-webui/internal/session"
	"github.com/ytget/yt-webui/internal/web"
)

// Server timeouts. Write has no timeout because download streams stay open.
const (
	ReadHeaderTimeout = 10 * time.Second
	IdleTimeout       = 2 * time.Minute
	ShutdownTimeout   = 15 * time.Second
	SessionPruneEvery = time.Hour
)

func (a *app) newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web interface",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "listen address (overrides listen_addr)")
	return cmd
}

func (a *app) runServe(ctx context.Context, addr string) error {
	logger := xlog.WithComponent("serve")
	if addr == "" {
		addr = a.settings.GetListenAddr()
	}

	svc, _, err := a.newService(ctx)
	if err != nil {
		return err
	}
	holder := config.NewHolder(a.configPath, a.settings)
	a.followSettings(holder, svc)
	sessions := session.NewCounter()

	srv, err := web.NewServer(svc, sessions, holder)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		IdleTimeout:       IdleTimeout,
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info().
			Str("addr", ln.Addr().String()).
			Str("engine", svc.EngineName()).
			Str("version", a.version).
			Msg("listening")
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := holder.Watch(ctx); err != nil {
			logger.Warn().Err(err).Msg("config watcher disabled")
		}
		return nil
	})

	g.Go(func() error {
		ticker := time.NewTicker(SessionPruneEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Prune(session.DefaultMaxAge); n > 0 {
					logger.Debug().Int("sessions", n).Msg("pruned idle sessions")
				}
			}
		}
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
