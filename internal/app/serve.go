package app

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quiver/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// runServer publishes MCP tools, starts the config watcher and serves HTTP
// until ctx is cancelled or SIGINT/SIGTERM arrives.
func runServer(ctx context.Context, s *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s.SyncTools(ctx)

	if s.Watcher != nil {
		if err := s.Watcher.Start(ctx); err != nil {
			logging.Warn("Server", "Config watcher disabled: %v", err)
		} else {
			defer s.Watcher.Stop()
		}
	}

	if interval := s.Config.Registry.RefreshInterval; interval > 0 && s.MCP != nil {
		go refreshTools(ctx, s, interval)
	}

	addr := net.JoinHostPort(s.Config.Server.Host, strconv.Itoa(s.Config.Server.Port))
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.HTTP.Start(addr)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server on %s failed: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("Server", "Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.HTTP.Shutdown(shutdownCtx)
}

// refreshTools re-publishes MCP tools so chains added by other writers
// (a shared database) show up without a restart.
func refreshTools(ctx context.Context, s *Services, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SyncTools(ctx)
		}
	}
}
