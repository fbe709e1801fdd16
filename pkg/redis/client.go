package redis

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config selects the redis instance. A rediss:// scheme enables TLS; the
// password may come from either the URL userinfo or the explicit field.
type Config struct {
	URL      string
	Password string
}

var (
	mu     sync.Mutex
	client *redis.Client
)

// Initialize connects the process-wide client and verifies the connection
// with a ping. Calling it again after a successful connect is a no-op.
func Initialize(cfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	if client != nil {
		return nil
	}
	if cfg.URL == "" {
		return errors.New("redis: REDIS_URL not configured")
	}

	opts, err := optionsFromURL(cfg)
	if err != nil {
		return err
	}
	c := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return fmt.Errorf("redis: connection failed: %w", err)
	}

	client = c
	return nil
}

func optionsFromURL(cfg Config) (*redis.Options, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	addr := u.Host
	if u.Port() == "" {
		addr += ":6379"
	}
	password := cfg.Password
	if password == "" && u.User != nil {
		password, _ = u.User.Password()
	}

	opts := &redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	}
	if u.Scheme == "rediss" {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts, nil
}

// Client returns the connected client, or nil when redis is not configured.
// Callers are expected to degrade gracefully on nil.
func Client() *redis.Client {
	mu.Lock()
	defer mu.Unlock()
	return client
}

// HealthCheck pings the connection for the health endpoint.
func HealthCheck(ctx context.Context) error {
	c := Client()
	if c == nil {
		return errors.New("redis: client not initialized")
	}
	return c.Ping(ctx).Err()
}

// Close releases the connection pool on shutdown.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}
