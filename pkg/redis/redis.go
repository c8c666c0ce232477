package redis

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"os"
	"strconv"
	"time"
)

type IRedis interface {
	SetCooldown(ctx context.Context, key string, expiration time.Duration) error
	InCooldown(ctx context.Context, key string) (bool, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

// SetCooldown marks the key as recently seen for the given window.
func (r *redisClient) SetCooldown(ctx context.Context, key string, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Setting cooldown for key %s with expiration %v", key, expiration))
	err := r.client.Set(ctx, key, "1", expiration).Err()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error setting cooldown for key %s: %v", key, err))
		return err
	}
	return nil
}

// InCooldown reports whether the key was marked within its window.
func (r *redisClient) InCooldown(ctx context.Context, key string) (bool, error) {
	_, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error checking cooldown for key %s: %v", key, err))
		return false, err
	}
	return true, nil
}
