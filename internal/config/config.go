package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Addr            string        `env:"RUN_ADDRESS" env-default:"localhost:8080"`
	DatabaseURL     string        `env:"DATABASE_URI"`
	RedisAddr       string        `env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	LockWaitTimeout time.Duration `env:"LOCK_WAIT_TIMEOUT" env-default:"1s"`
	LockHoldTimeout time.Duration `env:"LOCK_HOLD_TIMEOUT" env-default:"5s"`
}

func Load() (*Config, error) {
	cfg := &Config{}

	flag.StringVar(&cfg.Addr, "a", "localhost:8080", "HTTP server address")
	flag.StringVar(&cfg.DatabaseURL, "d", "", "database URL")
	flag.StringVar(&cfg.RedisAddr, "r", "localhost:6379", "redis address for account locks")

	flag.Parse()

	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, fmt.Errorf("couldn't read environment variables: %w", err)
	}

	return cfg, nil
}
