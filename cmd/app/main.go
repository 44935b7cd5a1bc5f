package main

import (
	"workspace/config"
	"workspace/di"
	"workspace/helper"
	"workspace/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Booking Engine API
// @version 1.0
// @description Room booking admission, payment settlement and refund workflow.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Get()

	logger.InitLogger(cfg)

	logger.SetLogLevel(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to run database migrations")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
