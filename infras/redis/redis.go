package redis

import (
	"context"
	"net"

	"workspace/config"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

func Addr(cfg *config.Config) string {
	return net.JoinHostPort(cfg.Cache.Redis.Primary.Host, cfg.Cache.Redis.Primary.Port)
}

func New(cfg *config.Config) *goRedis.Client {
	client := goRedis.NewClient(&goRedis.Options{
		Addr:     Addr(cfg),
		Password: cfg.Cache.Redis.Primary.Password,
		DB:       cfg.Cache.Redis.Primary.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	log.Info().
		Int("db", cfg.Cache.Redis.Primary.DB).
		Str("addr", Addr(cfg)).
		Msg("Connected to Redis")

	return client
}
