package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql
	"github.com/pressly/goose/v3"

	"github.com/jhoicas/erp-core/pkg/logger"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrator aplica las migraciones embebidas con goose.
type Migrator struct {
	dsn string
	log *logger.Logger
}

// NewMigrator construye el migrador para el DSN dado.
func NewMigrator(dsn string, log *logger.Logger) *Migrator {
	return &Migrator{dsn: dsn, log: log.Component("migrations")}
}

// Up aplica todas las migraciones pendientes.
func (m *Migrator) Up(ctx context.Context) error {
	return m.run(func(db *sql.DB) error { return goose.UpContext(ctx, db, migrationsDir) })
}

// Down revierte la última migración.
func (m *Migrator) Down(ctx context.Context) error {
	return m.run(func(db *sql.DB) error { return goose.DownContext(ctx, db, migrationsDir) })
}

// Status registra el estado de cada migración.
func (m *Migrator) Status(ctx context.Context) error {
	return m.run(func(db *sql.DB) error { return goose.StatusContext(ctx, db, migrationsDir) })
}

// Version versión actual del esquema.
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	var v int64
	err := m.run(func(db *sql.DB) error {
		var err error
		v, err = goose.GetDBVersionContext(ctx, db)
		return err
	})
	return v, err
}

func (m *Migrator) run(fn func(db *sql.DB) error) error {
	db, err := sql.Open("pgx", m.dsn)
	if err != nil {
		return fmt.Errorf("abrir conexión de migraciones: %w", err)
	}
	defer func() { _ = db.Close() }()

	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{log: m.log})
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	if err := fn(db); err != nil {
		return fmt.Errorf("migraciones: %w", err)
	}
	return nil
}

// gooseLogger adapta el logger de la app a goose.Logger.
type gooseLogger struct {
	log *logger.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.log.Info().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.log.Fatal().Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
