package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"git-repository-analyzer/internal/config"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrKeyNotFound = errors.New("key not found")

// Client wraps the Redis client with application-specific methods
type Client struct {
	*redis.Client
	prefix string
}

// NewClient creates a new Redis client based on the configuration
func NewClient(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Client, error) {
	opts := &redis.Options{
		Addr:       cfg.Address,
		Password:   cfg.Password,
		DB:         cfg.DB,
		Username:   cfg.Username,
		MaxRetries: 3,
	}

	// Enable TLS if configured (required for Redis Cloud)
	if cfg.UseTLS {
		// Extract hostname from address (remove port) for SNI
		host := strings.Split(cfg.Address, ":")[0]
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
			ServerName: host,
		}
		logger.Info("Redis TLS enabled", zap.String("address", cfg.Address), zap.String("server_name", host))
	}

	client := redis.NewClient(opts)

	// Test the connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Client{Client: client, prefix: cfg.KeyPrefix}, nil
}

// Close closes the Redis connection
func (c *Client) Close() error {
	return c.Client.Close()
}

// HealthCheck performs a health check on the Redis connection
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

func (c *Client) sessionKey(id string) string {
	return c.prefix + id
}

// SetSession stores the encoded session value under id for ttl
func (c *Client) SetSession(ctx context.Context, id string, value []byte, ttl time.Duration) error {
	if err := c.Set(ctx, c.sessionKey(id), value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// GetSession returns the encoded session value and refreshes its ttl.
// A missing or expired session yields ErrKeyNotFound.
func (c *Client) GetSession(ctx context.Context, id string, ttl time.Duration) ([]byte, error) {
	value, err := c.GetEx(ctx, c.sessionKey(id), ttl).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return value, nil
}

// SessionExists reports whether the session key is still present. Unlike
// GetSession it leaves the ttl alone.
func (c *Client) SessionExists(ctx context.Context, id string) (bool, error) {
	n, err := c.Exists(ctx, c.sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session: %w", err)
	}
	return n > 0, nil
}

// DeleteSession removes the session value
func (c *Client) DeleteSession(ctx context.Context, id string) error {
	if err := c.Del(ctx, c.sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
