package cmd

import (
	"context"
	"fmt"
	"time"

	"db-diff/internal/database"
	"db-diff/internal/schema"
	"db-diff/internal/validation"

	"github.com/sirupsen/logrus"
)

// connect opens both configured stores. The caller closes them.
func connect(ctx context.Context) (source, target *database.Connection, err error) {
	source, err = database.NewConnection(ctx, cfg.Source)
	if err != nil {
		return nil, nil, fmt.Errorf("source: %w", err)
	}
	target, err = database.NewConnection(ctx, cfg.Target)
	if err != nil {
		source.Close()
		return nil, nil, fmt.Errorf("target: %w", err)
	}

	log.WithFields(logrus.Fields{
		"source": source.Props.DriverName(),
		"target": target.Props.DriverName(),
	}).Info("Connected to both databases")
	return source, target, nil
}

// stores wraps both connections for the validation and record-count
// commands.
func stores(source, target *database.Connection) (*validation.Store, *validation.Store) {
	return newStore("source", source), newStore("target", target)
}

func newStore(name string, c *database.Connection) *validation.Store {
	return &validation.Store{
		Name:    name,
		DB:      c.DB,
		Dialect: c.Dialect,
		Schema:  c.SchemaName(),
		Timeout: cfg.Settings.QueryTimeout,
	}
}

// introspect reads both schemas concurrently and attaches the snapshots to
// the stores.
func introspect(ctx context.Context, exec validation.Executor, source, target *validation.Store) error {
	read := func(s *validation.Store) validation.Task {
		return func(ctx context.Context) error {
			started := time.Now()
			snapshot, err := schema.Introspect(ctx, s.DB, s.Dialect, s.Schema)
			if err != nil {
				return fmt.Errorf("%s: %w", s.Name, err)
			}
			s.Snapshot = snapshot
			log.WithFields(logrus.Fields{
				"database":  s.Name,
				"schema":    s.Schema,
				"tables":    len(snapshot.Tables),
				"sequences": len(snapshot.Sequences),
				"views":     len(snapshot.Views),
				"duration":  time.Since(started).Round(time.Millisecond),
			}).Info("Schema read")
			return nil
		}
	}
	return exec.Run(ctx, read(source), read(target))
}

// formatElapsed renders d as HH:MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	return fmt.Sprintf("%02d:%02d:%02d", h, m, d/time.Second)
}
