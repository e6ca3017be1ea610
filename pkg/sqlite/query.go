package sqlite

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/archivelab/film-registry/pkg/film"
)

// LoadProject reconstructs the most recently saved project for an archive
// id: its scalar metadata, its rolls in save order, and each roll's
// segments. Fields the schema does not carry (page dimensions, reference
// plans) are rebuilt only as far as the stored segment graph allows;
// partial-roll markers are derived from residual capacity and split markers
// from segments that continue on the next roll.
func (s *Store) LoadProject(ctx context.Context, archiveID string) (*film.Project, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT project_id, archive_id, location, doc_type, path, folderName,
			oversized, total_pages, total_pages_with_refs
		FROM Projects WHERE archive_id = ?
		ORDER BY project_id DESC LIMIT 1`, archiveID)

	var projectID int64
	project := &film.Project{}
	err := row.Scan(
		&projectID,
		&project.ArchiveID,
		&project.Location,
		&project.DocType,
		&project.ProjectPath,
		&project.ProjectFolderName,
		&project.HasOversized,
		&project.TotalPages,
		&project.TotalPagesWithRefs,
	)
	if err == sql.ErrNoRows {
		return nil, film.NewErrorf(film.ErrInvalidInput, "no project with archive id %s", archiveID)
	}
	if err != nil {
		return nil, film.NewError(film.ErrStore, err)
	}

	allocation := film.NewAllocation(project.ArchiveID, project.ProjectFolderName)
	project.Allocation = allocation

	if err := s.loadRolls(ctx, projectID, allocation); err != nil {
		return nil, err
	}

	markPartialRolls(allocation)
	markSplitRolls(allocation.Rolls16mm)
	project.Documents = documentsFromSegments(allocation)
	allocation.UpdateStatistics()

	return project, nil
}

func (s *Store) loadRolls(ctx context.Context, projectID int64, allocation *film.Allocation) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT roll_id, film_number, film_type, capacity, status, creation_date
		FROM Rolls WHERE project_id = ?
		ORDER BY roll_id`, projectID)
	if err != nil {
		return film.NewError(film.ErrStore, err)
	}
	defer rows.Close()

	type storedRoll struct {
		id   int64
		roll *film.FilmRoll
	}
	var stored []storedRoll

	for rows.Next() {
		var id int64
		var filmNumber, filmType, status, creationDate string
		var capacity int
		if err := rows.Scan(&id, &filmNumber, &filmType, &capacity, &status, &creationDate); err != nil {
			return film.NewError(film.ErrStore, err)
		}

		roll := allocation.AddRoll(film.FilmType(filmType))
		roll.FilmNumber = filmNumber
		roll.Status = status
		roll.CreationDate = creationDate
		stored = append(stored, storedRoll{id: id, roll: roll})
	}
	if err := rows.Err(); err != nil {
		return film.NewError(film.ErrStore, err)
	}

	for _, sr := range stored {
		if err := s.loadSegments(ctx, sr.id, sr.roll); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadSegments(ctx context.Context, rollID int64, roll *film.FilmRoll) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_name, filepath, page_range_start, page_range_end, is_oversized
		FROM Documents WHERE roll_id = ?
		ORDER BY document_id`, rollID)
	if err != nil {
		return film.NewError(film.ErrStore, err)
	}
	defer rows.Close()

	for rows.Next() {
		var docID, path string
		var start, end int
		var oversized bool
		if err := rows.Scan(&docID, &path, &start, &end, &oversized); err != nil {
			return film.NewError(film.ErrStore, err)
		}
		pageRange := film.PageRange{Start: start, End: end}
		if _, err := roll.AddSegment(docID, path, pageRange.Pages(), pageRange, oversized); err != nil {
			return film.NewError(film.ErrStore,
				errors.Wrapf(err, "stored segments of roll %d exceed capacity", rollID))
		}
	}
	return rows.Err()
}

// markPartialRolls rederives partial state: any roll with residual capacity
// was closed partial.
func markPartialRolls(allocation *film.Allocation) {
	for _, filmType := range []film.FilmType{film.Type16mm, film.Type35mm} {
		for _, roll := range allocation.Rolls(filmType) {
			if roll.PagesRemaining > 0 {
				roll.MarkPartial()
			}
		}
	}
}

// markSplitRolls rederives has_split_documents: a roll whose last segment
// continues as the first segment of the next roll carried a split document.
func markSplitRolls(rolls []*film.FilmRoll) {
	for i := 0; i < len(rolls)-1; i++ {
		if len(rolls[i].Segments) == 0 || len(rolls[i+1].Segments) == 0 {
			continue
		}
		last := rolls[i].Segments[len(rolls[i].Segments)-1]
		next := rolls[i+1].Segments[0]
		if last.DocID == next.DocID && next.PageRange.Start == last.PageRange.End+1 {
			rolls[i].HasSplitDocuments = true
		}
	}
}

// documentsFromSegments rebuilds the document list from the 16mm segment
// graph, in segment order.
func documentsFromSegments(allocation *film.Allocation) []*film.Document {
	var docs []*film.Document
	byID := map[string]*film.Document{}

	for _, roll := range allocation.Rolls16mm {
		for _, segment := range roll.Segments {
			doc, ok := byID[segment.DocID]
			if !ok {
				doc = film.NewDocument(segment.DocID, segment.Path)
				doc.HasOversized = segment.HasOversized
				doc.RollCount = 0
				byID[segment.DocID] = doc
				docs = append(docs, doc)
			}
			doc.Pages += segment.Pages
			doc.RollCount++
		}
	}

	for _, doc := range docs {
		doc.IsSplit = doc.RollCount > 1
	}
	film.SortDocuments(docs)
	return docs
}
