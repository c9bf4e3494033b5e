package infra

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// NewRedis creates and validates a go-redis client connection. An empty URL
// means the cache is disabled; callers get nil and must degrade to the DB.
func NewRedis(redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		log.Info().Msg("redis deshabilitado, el menu se sirve directo de la base")
		return nil, nil
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opts)

	// Validate connectivity at startup
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}

	return rdb, nil
}
