package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/JisuPark-dev/AccountSystem/internal/config"
	"github.com/JisuPark-dev/AccountSystem/internal/postgres"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	Config *config.Config
	DB     *sql.DB
	Redis  *redis.Client
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := initDB(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("error closing database after redis ping failure: %w", closeErr)
		}
		return nil, fmt.Errorf("error pinging redis: %w", err)
	}

	return &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}, nil
}

func initDB(ctx context.Context, url string) (*sql.DB, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	if err = db.Ping(); err != nil {
		err := db.Close()
		if err != nil {
			return nil, fmt.Errorf("error closing database after ping failure: %w", err)
		}
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	if err := postgres.New(db).Bootstrap(ctx); err != nil {
		return nil, fmt.Errorf("error bootstrapping schema: %w", err)
	}

	return db, nil
}
