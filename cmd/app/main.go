package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderengine/cmd"
	httpin "orderengine/internal/adapters/in/http"
	"orderengine/internal/adapters/in/http/openapi"
	"orderengine/internal/pkg/logger"

	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		return err
	}

	log, err := logger.New(configs.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cmd.NewCompositionRoot(ctx, configs, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("close resources", zap.Error(err))
		}
	}()

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	return startWebServer(ctx, app, configs, log)
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, configs cmd.Config, log *zap.Logger) error {
	doc, err := openapi.Load(ctx)
	if err != nil {
		return err
	}

	e := httpin.NewEcho(app.CreateHTTPServer(), doc)
	e.Logger.SetLevel(logger.EchoLevel(configs.LogLevel))

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)
		log.Info("http server listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
