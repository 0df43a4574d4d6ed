// Package migrate applies the embedded postgres schema with golang-migrate
package migrate

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"membersearch/internal/platform/logger"

	"github.com/golang-migrate/migrate/v4"
	pgxv5 "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver "pgx"
)

//go:embed sql/*.sql
var files embed.FS

// Runner owns one migrate instance and its connection
type Runner struct {
	m   *migrate.Migrate
	db  *sql.DB
	log logger.Logger
}

// Open connects to url and prepares the embedded migrations
func Open(url string, log logger.Logger) (*Runner, error) {
	db, err := sql.Open("pgx", url)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	src, err := iofs.New(files, "sql")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migration source: %w", err)
	}
	drv, err := pgxv5.WithInstance(db, &pgxv5.Config{})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migration db driver: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "pgx5", drv)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return &Runner{m: m, db: db, log: log}, nil
}

// Up applies every pending migration, no change is not an error
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	r.logVersion("migrations applied")
	return nil
}

// Down rolls back every migration
func (r *Runner) Down() error {
	if err := r.m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("rollback migrations: %w", err)
	}
	r.logVersion("migrations rolled back")
	return nil
}

// Version reports the applied version and whether it is dirty
// ok is false when nothing has been applied
func (r *Runner) Version() (version uint, dirty bool, ok bool, err error) {
	v, d, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, err
	}
	return v, d, true, nil
}

// Close releases the source and the connection
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	return errors.Join(srcErr, dbErr, r.db.Close())
}

func (r *Runner) logVersion(msg string) {
	v, dirty, ok, err := r.Version()
	if err != nil {
		r.log.Warn().Err(err).Msg("migration version unavailable")
		return
	}
	r.log.Info().Uint("version", v).Bool("dirty", dirty).Bool("applied", ok).Msg(msg)
}

// Up is a one shot helper used at service boot
func Up(url string, log logger.Logger) error {
	r, err := Open(url, log)
	if err != nil {
		return err
	}
	defer func() { _ = r.Close() }()
	return r.Up()
}
