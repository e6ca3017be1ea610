// Package allocator partitions a project's documents across physical film
// rolls. All documents flow to 16mm; when oversized pages exist, those pages
// (plus their reference sheets) are mirrored to 35mm.
package allocator

import (
	"github.com/sirupsen/logrus"

	"github.com/archivelab/film-registry/pkg/film"
)

// item is one unit of work for the packing routine: a document and the page
// count it occupies on the target format.
type item struct {
	doc   *film.Document
	pages int

	// forceOversized marks every produced segment oversized regardless of
	// the source document (the 35mm stream).
	forceOversized bool

	// trackSplit records split state back onto the document (the 16mm
	// stream only; the 35mm mirror never owns the document's split flags).
	trackSplit bool
}

// Allocate builds the project's film allocation. The produced roll lists are
// a pure function of the sorted document list.
func Allocate(project *film.Project) error {
	if project == nil {
		return film.NewErrorf(film.ErrInvalidInput, "project is nil")
	}

	log := logrus.WithField("archive_id", project.ArchiveID)
	log.WithFields(logrus.Fields{
		"documents":       len(project.Documents),
		"pages":           project.TotalPages,
		"pages_with_refs": project.TotalPagesWithRefs,
	}).Info("starting film allocation")

	allocation := film.NewAllocation(project.ArchiveID, project.ProjectFolderName)
	project.Allocation = allocation

	if len(project.Documents) == 0 {
		log.Warn("no documents to allocate")
		return nil
	}

	items := make([]item, 0, len(project.Documents))
	for _, doc := range project.Documents {
		items = append(items, item{doc: doc, pages: doc.PagesWithRefs(), trackSplit: true})
	}
	if err := pack(allocation, film.Type16mm, items); err != nil {
		return err
	}
	log.WithField("rolls", len(allocation.Rolls16mm)).Info("16mm allocation complete")

	if project.HasOversized {
		items = items[:0]
		for _, doc := range project.Documents {
			if !doc.HasOversized {
				continue
			}
			items = append(items, item{doc: doc, pages: doc.OversizedWithRefs(), forceOversized: true})
		}
		if err := pack(allocation, film.Type35mm, items); err != nil {
			return err
		}
		log.WithField("rolls", len(allocation.Rolls35mm)).Info("35mm allocation complete")
	}

	allocation.UpdateStatistics()
	return nil
}

// pack places items onto rolls of one format. A document that fits goes on
// the current roll; one that does not fit but is within capacity closes the
// roll (partial) and opens a fresh one; one that exceeds capacity is split
// across consecutive rolls. The trailing roll is marked partial when
// residual capacity remains.
func pack(allocation *film.Allocation, filmType film.FilmType, items []item) error {
	if len(items) == 0 {
		return nil
	}

	capacity := filmType.Capacity()
	current := allocation.AddRoll(filmType)
	log := logrus.WithField("film_type", string(filmType))
	log.WithFields(logrus.Fields{"roll": current.RollID, "capacity": capacity}).Debug("created roll")

	for _, it := range items {
		switch {
		case it.pages > capacity:
			if err := packSplit(allocation, filmType, it, log); err != nil {
				return err
			}

		case it.pages <= current.PagesRemaining:
			if _, err := addSegment(current, it, film.PageRange{Start: 1, End: it.pages}, it.pages); err != nil {
				return err
			}
			if it.trackSplit {
				it.doc.IsSplit = false
				it.doc.RollCount = 1
			}

		default:
			current.MarkPartial()
			current = allocation.AddRoll(filmType)
			log.WithFields(logrus.Fields{"roll": current.RollID, "doc_id": it.doc.DocID}).
				Debug("document does not fit, created roll")
			if _, err := addSegment(current, it, film.PageRange{Start: 1, End: it.pages}, it.pages); err != nil {
				return err
			}
			if it.trackSplit {
				it.doc.IsSplit = false
				it.doc.RollCount = 1
			}
		}
		rolls := allocation.Rolls(filmType)
		current = rolls[len(rolls)-1]
	}

	last := current
	if last.PagesRemaining > 0 && !last.IsPartial {
		last.MarkPartial()
		log.WithFields(logrus.Fields{
			"roll":      last.RollID,
			"remaining": last.RemainingCapacity,
		}).Debug("trailing roll is partial")
	}

	return nil
}

// packSplit spreads one over-capacity item across consecutive rolls. Page
// ranges stay absolute within the document; they do not reset on a new roll.
func packSplit(allocation *film.Allocation, filmType film.FilmType, it item, log *logrus.Entry) error {
	rolls := allocation.Rolls(filmType)
	current := rolls[len(rolls)-1]

	log.WithFields(logrus.Fields{"doc_id": it.doc.DocID, "pages": it.pages}).
		Info("document exceeds roll capacity, splitting across rolls")

	pagesLeft := it.pages
	startPage := 1
	rollCount := 0

	for pagesLeft > 0 {
		place := pagesLeft
		if current.PagesRemaining < place {
			place = current.PagesRemaining
		}

		if place > 0 {
			pageRange := film.PageRange{Start: startPage, End: startPage + place - 1}
			if _, err := addSegment(current, it, pageRange, place); err != nil {
				return err
			}
			pagesLeft -= place
			startPage += place
			rollCount++
		}

		if pagesLeft > 0 {
			if place > 0 {
				current.HasSplitDocuments = true
			}
			current = allocation.AddRoll(filmType)
			log.WithField("roll", current.RollID).Debug("created continuation roll")
		}
	}

	if it.trackSplit {
		it.doc.IsSplit = rollCount > 1
		it.doc.RollCount = rollCount
	}
	return nil
}

func addSegment(roll *film.FilmRoll, it item, pageRange film.PageRange, pages int) (int, error) {
	hasOversized := it.doc.HasOversized
	if it.forceOversized {
		hasOversized = true
	}
	return roll.AddSegment(it.doc.DocID, it.doc.Path, pages, pageRange, hasOversized)
}
