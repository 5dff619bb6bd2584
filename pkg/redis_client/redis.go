package redis_client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/rtmonitor/pkg/util"
)

// Client stays nil when no Redis address is configured
var Client *redis.Client

const defaultConnectionPassword = ""
const defaultDatabase = 0

// connectBackOff controls how long Connect keeps pinging a new connection
var connectBackOff = func() backoff.BackOff {
	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.MaxElapsedTime = 30 * time.Second

	return retryBackoff
}

// Connect sets up Client from the RTMONITOR_REDIS_* environment. Redis is
// optional: without an address the setup is skipped and Client stays nil.
func Connect() error {
	env := util.GetEnvironmentVariables()

	address := env["RTMONITOR_REDIS_ADDRESS"]
	if address == "" {
		log.Info().Msg("Skipping Redis setup")
		return nil
	}

	password := defaultConnectionPassword
	database := defaultDatabase

	if env["RTMONITOR_REDIS_PASSWORD"] != "" {
		password = env["RTMONITOR_REDIS_PASSWORD"]
	}

	if env["RTMONITOR_REDIS_DATABASE"] != "" {
		n, err := strconv.Atoi(env["RTMONITOR_REDIS_DATABASE"])
		if err != nil {
			return fmt.Errorf("invalid RTMONITOR_REDIS_DATABASE: %w", err)
		}
		database = n
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: password,
		DB:       database,
	})

	ping := func() error {
		return client.Ping(context.Background()).Err()
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("address", address).Str("retry", wait.String()).Msg("Redis not reachable yet")
	}

	if err := backoff.RetryNotify(ping, connectBackOff(), notify); err != nil {
		client.Close()
		return err
	}

	Client = client

	log.Info().Str("address", address).Int("database", database).Msg("Connected to Redis")

	return nil
}
