package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/archivelab/film-registry/pkg/film"
)

// AllocateFilmNumbers issues a film number to every unnumbered roll of the
// project's allocation, 16mm rolls first, in allocation order. The sequence
// continues from the highest number already persisted for the project's
// location; numbers issued here become durable on the next SaveProject.
//
// The caller must hold exclusive access to the store between this call and
// the save; concurrent allocators against the same database are undefined.
func (s *Store) AllocateFilmNumbers(ctx context.Context, project *film.Project) error {
	if project == nil || project.Allocation == nil {
		return film.NewErrorf(film.ErrInvalidInput, "project has no film allocation")
	}

	code := project.LocationCode()
	seq, err := s.maxSequence(ctx, code)
	if err != nil {
		return film.NewError(film.ErrFilmNumber, err)
	}

	log := logrus.WithFields(logrus.Fields{
		"archive_id":    project.ArchiveID,
		"location_code": code,
	})
	log.WithField("persisted_max", seq).Info("allocating film numbers")

	for _, filmType := range []film.FilmType{film.Type16mm, film.Type35mm} {
		for _, roll := range project.Allocation.Rolls(filmType) {
			if roll.FilmNumber != "" {
				continue
			}
			seq++
			roll.FilmNumber = FormatFilmNumber(code, seq)
			log.WithFields(logrus.Fields{
				"film_number": roll.FilmNumber,
				"film_type":   string(filmType),
				"roll":        roll.RollID,
			}).Debug("assigned film number")
		}
	}

	log.Info("film number allocation complete")
	return nil
}

// FormatFilmNumber renders the wire format: the location digit followed by
// the 7-digit zero-padded sequence.
func FormatFilmNumber(locationCode string, sequence int) string {
	return fmt.Sprintf("%s%07d", locationCode, sequence)
}

// maxSequence returns the highest sequence persisted for a location code,
// zero when none exists.
func (s *Store) maxSequence(ctx context.Context, locationCode string) (int, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT MAX(CAST(SUBSTR(film_number, 2) AS INTEGER))
		FROM Rolls WHERE film_number LIKE ? || '%'`, locationCode)

	var max sql.NullInt64
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64), nil
}
