package queue

import (
	"workspace/config"
	"workspace/infras/redis"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// RedisOpt points asynq at the same Redis instance the cache uses.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     redis.Addr(cfg),
		Password: cfg.Cache.Redis.Primary.Password,
		DB:       cfg.Cache.Redis.Primary.DB,
	}
}

func NewClient(cfg *config.Config) *asynq.Client {
	log.Info().Str("queue", cfg.Asynq.Queue).Msg("Asynq client initialized")

	return asynq.NewClient(RedisOpt(cfg))
}

func NewServer(cfg *config.Config) *asynq.Server {
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.Asynq.Concurrency,
		Queues: map[string]int{
			cfg.Asynq.Queue: 1,
		},
	})
}
