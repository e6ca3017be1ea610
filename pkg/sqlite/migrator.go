package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/archivelab/film-registry/pkg/film"
	"github.com/archivelab/film-registry/pkg/sqlite/migrations"
)

const DefaultMigrationsTable = "schema_migrations"

// NilVersion is the migration version of a database with no migrations
// applied.
const NilVersion = -1

type Migrator interface {
	Migrate(ctx context.Context) error
	Up(ctx context.Context, migrations migrations.Migrations) error
	Down(ctx context.Context, migrations migrations.Migrations) error
}

// SQLLiteMigrator applies registered migrations, tracking the current
// version in a migrations table. Each migration runs in its own
// transaction.
type SQLLiteMigrator struct {
	db              *sql.DB
	migrationsTable string
	migrations      migrations.Migrations
}

var _ Migrator = &SQLLiteMigrator{}

// NewSQLLiteMigrator returns a SQLLiteMigrator over the full migration set.
func NewSQLLiteMigrator(db *sql.DB) (Migrator, error) {
	return &SQLLiteMigrator{
		db:              db,
		migrationsTable: DefaultMigrationsTable,
		migrations:      migrations.All(),
	}, nil
}

// Migrate runs all migrations above the database's current version.
func (m *SQLLiteMigrator) Migrate(ctx context.Context) error {
	version, err := m.version(ctx)
	if err != nil {
		return film.NewError(film.ErrSchema, err)
	}
	return m.Up(ctx, migrations.From(version+1))
}

// Up applies the given migrations in order.
func (m *SQLLiteMigrator) Up(ctx context.Context, migrations migrations.Migrations) error {
	for _, migration := range migrations {
		if err := m.runInTx(ctx, migration.Id, migration.Up); err != nil {
			return film.NewError(film.ErrSchema, err)
		}
	}
	return nil
}

// Down reverts the given migrations. The caller is expected to pass them in
// reverse order.
func (m *SQLLiteMigrator) Down(ctx context.Context, migrations migrations.Migrations) error {
	for _, migration := range migrations {
		if err := m.runInTx(ctx, migration.Id-1, migration.Down); err != nil {
			return film.NewError(film.ErrSchema, err)
		}
	}
	return nil
}

func (m *SQLLiteMigrator) runInTx(ctx context.Context, version int, f func(context.Context, *sql.Tx) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		tx.Rollback()
	}()

	if err := m.ensureMigrationsTable(ctx, tx); err != nil {
		return err
	}
	if err := f(ctx, tx); err != nil {
		return err
	}
	if err := m.setVersion(ctx, tx, version); err != nil {
		return err
	}
	return tx.Commit()
}

func (m *SQLLiteMigrator) ensureMigrationsTable(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (version INTEGER)", m.migrationsTable))
	return err
}

func (m *SQLLiteMigrator) setVersion(ctx context.Context, tx *sql.Tx, version int) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", m.migrationsTable)); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, fmt.Sprintf("INSERT INTO %s (version) VALUES (?)", m.migrationsTable), version)
	return err
}

func (m *SQLLiteMigrator) version(ctx context.Context) (int, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return NilVersion, err
	}
	defer func() {
		tx.Rollback()
	}()

	if err := m.ensureMigrationsTable(ctx, tx); err != nil {
		return NilVersion, err
	}

	version := NilVersion
	row := tx.QueryRowContext(ctx, fmt.Sprintf("SELECT version FROM %s LIMIT 1", m.migrationsTable))
	if err := row.Scan(&version); err != nil && err != sql.ErrNoRows {
		return NilVersion, err
	}
	if err := tx.Commit(); err != nil {
		return NilVersion, err
	}
	return version, nil
}
