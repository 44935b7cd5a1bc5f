package main

import (
	"workspace/config"
	"workspace/di"
	"workspace/infras/queue"
	"workspace/shared/logger"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	handler := di.InitializeWorker()
	server := queue.NewServer(cfg)

	log.Info().Int("concurrency", cfg.Asynq.Concurrency).Msg("Starting up booking worker.")

	// Run blocks until SIGTERM or SIGINT, then waits for in-flight tasks.
	if err := server.Run(handler.Mux()); err != nil {
		log.Fatal().Err(err).Msg("Failed to run booking worker")
	}
}
