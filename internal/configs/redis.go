package config

import (
	"log"

	"github.com/redis/rueidis"
)

// NewRedisClient builds the optional cache client. An empty addr means
// redis is not configured and callers get nil.
func NewRedisClient(addr string) rueidis.Client {
	if addr == "" {
		return nil
	}

	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	return redisClient
}
