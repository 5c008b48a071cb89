package sqlite

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

// Migration files are append-only: the runner records applied versions by
// number alone, so editing a shipped file is never noticed.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	migrationsDir = "migrations"

	// DirectionUp is the only direction shipped.
	DirectionUp = "Up"
)

type Migration struct {
	Version     uint
	Description string
	Direction   string
}

// Migrate applies every pending migration in version order. Running it on an
// up-to-date database is a no-op.
func (c *Client) Migrate(ctx context.Context) error {
	m, err := c.migrator()
	if err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-done:
		}
	}()

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		c.logger.Info("database schema is up to date")
		return nil
	}
	if err != nil {
		c.logger.Error("failed to run migrations", zap.Error(err))
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	c.logger.Info("successfully migrated", zap.Uint("version", version))
	return nil
}

// Version reports the applied schema version. A fresh database reports 0.
func (c *Client) Version() (uint, bool, error) {
	m, err := c.migrator()
	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to read schema version: %w", err)
	}

	return version, dirty, nil
}

// Migrations lists the embedded migrations in version order.
func Migrations() ([]Migration, error) {
	src, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}
	defer src.Close()

	var out []Migration

	version, err := src.First()
	for err == nil {
		var m Migration
		m, err = readUp(src, version)
		if err != nil {
			return nil, err
		}
		out = append(out, m)

		version, err = src.Next(version)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to walk migrations: %w", err)
	}

	return out, nil
}

func readUp(src source.Driver, version uint) (Migration, error) {
	r, identifier, err := src.ReadUp(version)
	if err != nil {
		return Migration{}, fmt.Errorf("failed to read migration %d: %w", version, err)
	}
	_ = r.Close()

	return Migration{
		Version:     version,
		Description: identifier,
		Direction:   DirectionUp,
	}, nil
}

// migrator binds golang-migrate to the client's own handle. The instance is
// never closed because closing it would close c.db.
func (c *Client) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open migrations: %w", err)
	}

	driver, err := migratesqlite.WithInstance(c.db, &migratesqlite.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration: %w", err)
	}
	m.Log = &migrateLogger{log: c.logger.Sugar()}

	return m, nil
}

type migrateLogger struct {
	log *zap.SugaredLogger
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.log.Infof(strings.TrimSuffix(format, "\n"), v...)
}

func (l *migrateLogger) Verbose() bool {
	return false
}
