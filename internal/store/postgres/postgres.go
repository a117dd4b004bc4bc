// Package postgres is the signaling pod's bun/pgdriver client plus the
// two entities (users, contacts) the core's TokenAuthority/ContactGraph
// adapters are grounded on. User/contact management proper (invites,
// blocking, profile edits) is out of scope — this package only ever
// carries what ResolveUserEmail/AcceptedContactsOf need.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"go.uber.org/zap"
)

// Config holds the Postgres connection parameters for a signaling pod.
type Config struct {
	Server     string
	Username   string
	Password   string
	Database   string
	Datasource string
}

// DSN builds a postgres:// connection string from the discrete fields
// when Datasource is not already set explicitly.
func (c *Config) DSN() string {
	if c.Datasource != "" {
		return c.Datasource
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable", c.Username, c.Password, c.Server, c.Database)
}

// Client wraps a *bun.DB with the teacher's zap query-hook pattern.
type Client struct {
	DB     *bun.DB
	logger *zap.Logger
}

// NewClient opens a connection pool, installs the logging query hook, and
// pings before returning — the signaling pod should fail fast at
// startup rather than accept connections it cannot authenticate.
func NewClient(ctx context.Context, cfg *Config, logger *zap.Logger) (*Client, error) {
	logger = logger.With(zap.String("component", "store.postgres"), zap.String("database", cfg.Database))

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN())))
	if err := sqldb.PingContext(ctx); err != nil {
		logger.Error("postgres connection failed", zap.Error(err))
		return nil, fmt.Errorf("postgres: ping failed: %w", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())
	db.AddQueryHook(&zapQueryHook{logger: logger})

	logger.Info("postgres connected")

	return &Client{DB: db, logger: logger}, nil
}

func (c *Client) Close() error {
	c.logger.Info("postgres closed")
	return c.DB.Close()
}
