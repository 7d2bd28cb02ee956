package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// APIURL is the base URL of the remote Pulse backend.
	APIURL string `env:"PULSE_API_URL, default=http://localhost:5000/api"`
	Env    string `env:"ENV,           default=development"`
	// ListenAddr is the agent's loopback surface (health, metrics, OAuth
	// return callback). Keep it bound to localhost.
	ListenAddr string `env:"PULSE_AGENT_ADDR, default=127.0.0.1:7455"`
	LogLevel   string `env:"LOG_LEVEL,        default=info"`

	Redis   RedisConfig
	Timings Timings
}

type RedisConfig struct {
	// Addr empty means no Redis: session signals stay in-process only.
	Addr    string `env:"REDIS_ADDR"`
	DB      int    `env:"REDIS_DB, default=0"`
	Channel string `env:"PULSE_BROADCAST_CHANNEL, default=pulse:auth"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
