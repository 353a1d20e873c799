package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yigit/hogwarts/internal/pkg/logger"
	"github.com/yigit/hogwarts/internal/server"
)

// @title Hogwarts School API
// @version 1.0
// @description Students, faculties and avatar images of the school

// @host localhost:8080
// @BasePath /
// @schemes http

func main() {
	srv, err := server.NewServer()
	if err != nil {
		// setup errors are already logged in detail by bootstrap
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		stop()
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
