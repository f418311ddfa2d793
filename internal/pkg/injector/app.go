package injector

import (
	"context"
	"time"

	"github.com/lk2023060901/chat-backend/internal/conf"
	"github.com/lk2023060901/chat-backend/internal/pkg/logger"
	"github.com/lk2023060901/chat-backend/internal/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// App encapsulates all application dependencies
type App struct {
	Config     *conf.Config
	Logger     *logger.Logger
	HTTPServer *server.HTTPServer
	GRPCServer *server.GRPCServer
}

// Run serves HTTP and gRPC until ctx is cancelled or a server fails, then shuts
// both down within server.shutdown_timeout.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.HTTPServer.Start)
	g.Go(a.GRPCServer.Start)

	g.Go(func() error {
		<-gctx.Done()
		a.Logger.Info("shutting down servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
		defer cancel()

		a.GRPCServer.Stop()

		if err := a.HTTPServer.Stop(shutdownCtx); err != nil {
			a.Logger.Error("HTTP server forced to shutdown", zap.Error(err))
			return err
		}
		return nil
	})

	err := g.Wait()
	a.Logger.Info("servers exited")
	return err
}

func (a *App) shutdownTimeout() time.Duration {
	if a.Config == nil || a.Config.Server.ShutdownTimeout <= 0 {
		return 5 * time.Second
	}
	return a.Config.Server.ShutdownTimeout
}
