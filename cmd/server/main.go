package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"school-service/internal/app"

	"github.com/joho/godotenv"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New()

	serverErr := make(chan error, 1)
	go func() { serverErr <- application.Run() }()

	exitCode := 0
	select {
	case err := <-serverErr:
		if err != nil {
			slog.Error("server stopped unexpectedly", "error", err)
			exitCode = 1
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		exitCode = 1
	}

	slog.Info("server exited", "code", exitCode)
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
