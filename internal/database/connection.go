package database

import (
	"context"
	"database/sql"
	"fmt"

	"db-diff/internal/config"
	"db-diff/internal/dialect"
)

// Connection is an open store together with the dialect used to talk to it.
type Connection struct {
	DB      *sql.DB
	Dialect dialect.Dialect
	Props   config.DatabaseProperties
}

// NewConnection opens and pings the store described by props. The driver
// must have been registered by the caller.
func NewConnection(ctx context.Context, props config.DatabaseProperties) (*Connection, error) {
	d := dialect.GetDialect(props.DriverName())

	db, err := sql.Open(d.DriverName(), props.URLWithPassword())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to reach database: %w", err)
	}

	return &Connection{
		DB:      db,
		Dialect: d,
		Props:   props,
	}, nil
}

func (c *Connection) Close() error {
	return c.DB.Close()
}

// SchemaName returns the configured schema as the store expects it.
func (c *Connection) SchemaName() string {
	return c.Dialect.GetSchemaName(c.Props.Schema)
}
