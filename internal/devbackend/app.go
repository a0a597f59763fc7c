package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/castkeeper/internal/devbackend/config"
	"github.com/dmitrijs2005/castkeeper/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// App runs a Server on a TCP listener until the context ends or the process
// is signalled.
type App struct {
	config *config.Config
	logger logging.Logger
	server *Server
}

func NewApp(c *config.Config) *App {
	logger := logging.New(c.LogFormat, os.Stdout, true)
	return &App{config: c, logger: logger, server: NewServer(c, logger)}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run listens on the configured address and blocks until shutdown.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	app.initSignalHandler(cancelFunc)

	ln, err := net.Listen("tcp", app.config.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", app.config.Addr, err)
	}
	return app.Serve(ctx, ln)
}

// Serve handles requests on ln until ctx ends, then shuts down gracefully.
func (app *App) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: app.server, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	app.logger.Info(ctx, "devbackend listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	app.logger.Info(context.Background(), "devbackend stopped")
	return nil
}
