package db

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/logger"
)

// Client wraps the GORM connection backing the submission ledger.
type Client struct {
	conn *gorm.DB
}

// FromGorm wraps an already opened connection, e.g. an in-memory sqlite DB in tests.
func FromGorm(conn *gorm.DB) *Client {
	return &Client{conn: conn}
}

// New opens the postgres pool described by cfg and verifies it answers.
func New(ctx context.Context, cfg config.DBConfig, logg *logger.Logger) (*Client, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	conn, err := gorm.Open(
		postgres.New(postgres.Config{DSN: cfg.DSN, PreferSimpleProtocol: true}),
		&gorm.Config{
			Logger:                 newQueryLogger(logg, cfg.SlowQueryThreshold),
			SkipDefaultTransaction: true,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opening db connection: %w", err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql db handle: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	client := &Client{conn: conn}
	if err := client.Ping(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"max_open_conns": cfg.MaxOpenConns,
			"max_idle_conns": cfg.MaxIdleConns,
		}), "ledger database connected")
	}
	return client, nil
}

// DB returns the underlying GORM connection.
func (c *Client) DB() *gorm.DB {
	return c.conn
}

// Ping verifies the datasource is reachable.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Client) Close() error {
	sqlDB, err := c.conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// WithTx runs fn in a transaction. Returning an error or panicking rolls it back.
func (c *Client) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return c.conn.WithContext(ctx).Transaction(fn)
}
