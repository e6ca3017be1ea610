package document

import (
	"github.com/sirupsen/logrus"

	"github.com/archivelab/film-registry/pkg/film"
)

// PlanReferences computes the reference sheets inserted into the 16mm stream:
// one per oversized range, anchored at the range's start page. Projects
// without oversized pages are left untouched.
func PlanReferences(project *film.Project) error {
	if project == nil {
		return film.NewErrorf(film.ErrInvalidInput, "project is nil")
	}

	if !project.HasOversized {
		logrus.Debug("no oversized pages, skipping reference calculation")
		return nil
	}

	totalReferences := 0
	for _, doc := range project.Documents {
		if !doc.HasOversized || len(doc.Ranges) == 0 {
			doc.TotalRefs = 0
			continue
		}

		doc.ReferencePages = make([]int, 0, len(doc.Ranges))
		for _, r := range doc.Ranges {
			doc.ReferencePages = append(doc.ReferencePages, r.Start)
		}
		doc.TotalRefs = len(doc.ReferencePages)
		totalReferences += doc.TotalRefs

		logrus.WithFields(logrus.Fields{
			"doc_id":     doc.DocID,
			"references": doc.TotalRefs,
		}).Debug("planned reference pages")
	}

	project.TotalPagesWithRefs = project.TotalPages + totalReferences
	logrus.WithField("references", totalReferences).Info("reference planning complete")

	return nil
}
