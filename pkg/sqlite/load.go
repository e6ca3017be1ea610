// Package sqlite is the durable store for projects, rolls, and document
// segments, and the home of the per-location film-number sequence.
package sqlite

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/archivelab/film-registry/pkg/film"
)

// Store wraps a sqlite database holding the allocation schema.
type Store struct {
	db       *sql.DB
	migrator Migrator
}

// New wraps an open database handle. The schema is not touched until
// Migrate is called.
func New(db *sql.DB, opts ...DbOption) (*Store, error) {
	options := defaultDBOptions()
	for _, o := range opts {
		o(options)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return nil, film.NewError(film.ErrStore, err)
	}

	migrator, err := options.MigratorBuilder(db)
	if err != nil {
		return nil, film.NewError(film.ErrStore, err)
	}

	return &Store{db: db, migrator: migrator}, nil
}

// Open opens (creating if needed) the database file at path.
func Open(path string, opts ...DbOption) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, film.NewError(film.ErrStore, errors.Wrapf(err, "opening database %s", path))
	}
	return New(db, opts...)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates or upgrades the schema. The DDL is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	if s.migrator == nil {
		return film.NewErrorf(film.ErrSchema, "no migrator configured")
	}
	return s.migrator.Migrate(ctx)
}

// SaveProject persists the project, its rolls (16mm then 35mm), and each
// roll's segments in a single transaction. Documents rows reference rolls by
// the database-assigned key captured during the insert.
func (s *Store) SaveProject(ctx context.Context, project *film.Project) error {
	if project == nil {
		return film.NewErrorf(film.ErrInvalidInput, "project is nil")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return film.NewError(film.ErrStore, err)
	}
	defer func() {
		tx.Rollback()
	}()

	projectID, err := s.insertProject(ctx, tx, project)
	if err != nil {
		return film.NewError(film.ErrStore, errors.Wrap(err, "registering project"))
	}

	if project.Allocation != nil {
		if err := s.insertRolls(ctx, tx, project.Allocation, projectID); err != nil {
			return film.NewError(film.ErrStore, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return film.NewError(film.ErrStore, errors.Wrap(err, "committing project"))
	}

	logrus.WithFields(logrus.Fields{
		"archive_id": project.ArchiveID,
		"project_id": projectID,
	}).Info("project saved")
	return nil
}

func (s *Store) insertProject(ctx context.Context, tx *sql.Tx, project *film.Project) (int64, error) {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO Projects (archive_id, location, doc_type, path, folderName,
			oversized, total_pages, total_pages_with_refs, date_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	res, err := stmt.ExecContext(ctx,
		project.ArchiveID,
		project.Location,
		project.DocType,
		project.ProjectPath,
		project.ProjectFolderName,
		project.HasOversized,
		project.TotalPages,
		project.TotalPagesWithRefs,
		film.Timestamp(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) insertRolls(ctx context.Context, tx *sql.Tx, allocation *film.Allocation, projectID int64) error {
	insertRoll, err := tx.PrepareContext(ctx, `
		INSERT INTO Rolls (film_number, film_type, capacity, pages_used,
			pages_remaining, status, project_id, creation_date, film_number_source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertRoll.Close()

	insertDocument, err := tx.PrepareContext(ctx, `
		INSERT INTO Documents (document_name, roll_id, page_range_start,
			page_range_end, is_oversized, filepath, blip_type)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer insertDocument.Close()

	for _, filmType := range []film.FilmType{film.Type16mm, film.Type35mm} {
		for _, roll := range allocation.Rolls(filmType) {
			res, err := insertRoll.ExecContext(ctx,
				roll.FilmNumber,
				string(roll.FilmType),
				roll.Capacity,
				roll.PagesUsed,
				roll.PagesRemaining,
				roll.Status,
				projectID,
				roll.CreationDate,
				"new",
			)
			if err != nil {
				return errors.Wrapf(err, "inserting %s roll %d", filmType, roll.RollID)
			}
			rollID, err := res.LastInsertId()
			if err != nil {
				return err
			}

			for _, segment := range roll.Segments {
				if _, err := insertDocument.ExecContext(ctx,
					segment.DocID,
					rollID,
					segment.PageRange.Start,
					segment.PageRange.End,
					segment.HasOversized,
					segment.Path,
					string(roll.FilmType),
				); err != nil {
					return errors.Wrapf(err, "inserting segment of document %s on %s roll %d",
						segment.DocID, filmType, roll.RollID)
				}
			}
		}
	}
	return nil
}
