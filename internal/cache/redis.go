package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// TaskStatsKey is a hash of serialized stats responses keyed by
	// "<user>:<date>". Any meal or chart write deletes the whole hash.
	TaskStatsKey = "tasks:stats"
	taskStatsTTL = 30 * time.Second
	authTTL      = 15 * time.Minute
)

var client *redis.Client

// Options configures the Redis connection.
type Options struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// Init initializes the Redis connection. On failure the client stays nil and
// every helper below degrades to a no-op.
func Init(opts Options) error {
	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// Ping reports Redis reachability; nil client means disabled.
func Ping(ctx context.Context) error {
	if client == nil {
		return nil
	}
	return client.Ping(ctx).Err()
}

func Close() {
	if client != nil {
		client.Close()
	}
}

// hashCredentials creates a hash of email+password for cache key
func hashCredentials(email, password string) string {
	h := sha256.New()
	h.Write([]byte(email + ":" + password))
	return "auth:" + hex.EncodeToString(h.Sum(nil))[:32]
}

// GetCachedAuth checks if credentials are cached and returns the user id
func GetCachedAuth(ctx context.Context, email, password string) (string, bool) {
	if client == nil {
		return "", false
	}
	userID, err := client.Get(ctx, hashCredentials(email, password)).Result()
	if err != nil {
		return "", false
	}
	return userID, true
}

// CacheAuth caches valid credentials so repeat logins skip bcrypt
func CacheAuth(ctx context.Context, email, password, userID string) {
	if client == nil {
		return
	}
	client.Set(ctx, hashCredentials(email, password), userID, authTTL)
}

func statsField(userID, date string) string {
	return userID + ":" + date
}

// GetCachedTaskStats returns a cached stats payload
func GetCachedTaskStats(ctx context.Context, userID, date string) ([]byte, bool) {
	if client == nil {
		return nil, false
	}
	data, err := client.HGet(ctx, TaskStatsKey, statsField(userID, date)).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// CacheTaskStats stores a stats payload until the next write or the TTL
func CacheTaskStats(ctx context.Context, userID, date string, data []byte) {
	if client == nil {
		return
	}
	pipe := client.TxPipeline()
	pipe.HSet(ctx, TaskStatsKey, statsField(userID, date), data)
	pipe.Expire(ctx, TaskStatsKey, taskStatsTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Printf("[Redis] Failed to cache task stats: %v", err)
	}
}

// InvalidateTaskStats drops every cached stats payload
func InvalidateTaskStats(ctx context.Context) {
	if client == nil {
		return
	}
	if err := client.Del(ctx, TaskStatsKey).Err(); err != nil {
		log.Printf("[Redis] Failed to invalidate task stats: %v", err)
	}
}
