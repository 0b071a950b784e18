// Package mysql persists the per-chain transaction ledger in MySQL, one
// partition table per chain, keyed by transaction hash.
package mysql

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

type client struct {
	db *sql.DB
}

func (c *client) Close() error {
	return c.db.Close()
}

// NewClient opens a connection pool for the given DSN and verifies it with
// a ping.
func NewClient(ctx context.Context, dsn string) (*client, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return &client{
		db: db,
	}, nil
}
