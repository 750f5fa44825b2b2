// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	app "github.com/Phermidex/zenithCrypto/internal"
	"github.com/Phermidex/zenithCrypto/internal/api/handler"
)

const (
	// serverGrace is how long the server waits past a handler's own deadline
	// before cutting the connection, so timed out handlers can still answer.
	serverGrace     = 5 * time.Second
	shutdownTimeout = 30 * time.Second
)

// newServer derives every deadline from handler.DefaultTimeout.
func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: serverGrace,
		ReadTimeout:       handler.DefaultTimeout,
		WriteTimeout:      handler.DefaultTimeout + serverGrace,
		IdleTimeout:       120 * time.Second,
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.NewApplication()
	if err := application.Initialize(ctx); err != nil {
		application.Logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	server := newServer(":"+application.Config.ServerPort, application.HTTPHandler)

	serveErr := make(chan error, 1)
	go func() {
		application.Logger.Info("Starting HTTP server", "port", application.Config.ServerPort,
			"write_timeout", server.WriteTimeout)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		application.Logger.Info("Shutdown signal received")
	case err := <-serveErr:
		application.Logger.Error("HTTP server failed", "error", err)
		exitCode = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error("HTTP server shutdown failed", "error", err)
		exitCode = 1
	}
	// Kafka, Redis and the database close after in-flight requests drain.
	if err := application.Shutdown(shutdownCtx); err != nil {
		application.Logger.Error("Application shutdown failed", "error", err)
		exitCode = 1
	}

	if exitCode != 0 {
		cancel()
		os.Exit(exitCode)
	}
	application.Logger.Info("Application stopped")
}
