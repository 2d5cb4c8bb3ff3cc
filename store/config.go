// Package store keeps solve results in Redis so they can be fetched later by
// run id.
package store

import "time"

type Config struct {
	// Address is the Redis server address (host:port).
	Address  string
	Password string
	DB       int

	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// KeyPrefix is prepended to all keys.
	KeyPrefix string
	// TTL expires stored runs; zero keeps them forever.
	TTL time.Duration
}

func DefaultConfig() Config {
	return Config{
		Address:      "localhost:6379",
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		KeyPrefix:    "mdp:",
	}
}

type ConfigOption func(*Config)

func WithAddress(addr string) ConfigOption {
	return func(c *Config) {
		c.Address = addr
	}
}

func WithKeyPrefix(prefix string) ConfigOption {
	return func(c *Config) {
		c.KeyPrefix = prefix
	}
}

func WithTTL(ttl time.Duration) ConfigOption {
	return func(c *Config) {
		c.TTL = ttl
	}
}
