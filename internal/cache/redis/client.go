package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/culture-explorer/backend/pkg/logger"
)

// Client caches validation verdicts so resubmitted or duplicated content
// does not burn another remote model call. The cache is an optimization
// only; every method degrades to a miss on failure.
type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis verdict cache initialized", zap.String("host", host), zap.Int("port", port))

	return &Client{client: rdb}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) SetVerdict(ctx context.Context, contentHash string, verdict interface{}, ttl time.Duration) error {
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("failed to marshal verdict: %w", err)
	}

	key := fmt.Sprintf("verdict:%s", contentHash)
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache verdict: %w", err)
	}

	return nil
}

func (c *Client) GetVerdict(ctx context.Context, contentHash string, verdict interface{}) (bool, error) {
	key := fmt.Sprintf("verdict:%s", contentHash)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get cached verdict: %w", err)
	}

	if err := json.Unmarshal(data, verdict); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached verdict: %w", err)
	}

	return true, nil
}
