package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	xhttp "StockPredict/pkg/http"
	applogger "StockPredict/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	httpServer *xhttp.Server
	closers    []io.Closer
	l          *applogger.Logger
}

// New creates a new App. A nil cache is allowed.
func New(httpServer *xhttp.Server, reportCache io.Closer, l *applogger.Logger) *App {
	if l == nil {
		l = applogger.Nop()
	}
	a := &App{httpServer: httpServer, l: l}
	if reportCache != nil {
		a.closers = append(a.closers, reportCache)
	}
	return a
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		a.l.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.l.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops the server and releases the cache.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.httpServer.ShutdownTimeout())
	defer cancel()

	var firstErr error
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}

	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.l.Warn("cache close error", applogger.Error(err))
		}
	}

	a.l.Info("shutdown complete")
	return firstErr
}
