// Package document classifies a project's PDFs: page counts, oversized-page
// detection, range grouping, and reference-page planning.
package document

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/archivelab/film-registry/pkg/film"
	"github.com/archivelab/film-registry/pkg/pdf"
)

// Processor probes and classifies every PDF in a project's document folder.
type Processor struct {
	Oracle pdf.Oracle

	// Workers bounds concurrent probes. Zero means one per CPU.
	Workers int
}

// ProcessAll enumerates the PDFs under the project's documents path,
// classifies each one, and updates the project totals. Per-document probe
// failures are logged and the document is skipped; only enumeration errors
// are fatal.
func (p *Processor) ProcessAll(project *film.Project) error {
	if project == nil {
		return film.NewErrorf(film.ErrInvalidInput, "project is nil")
	}

	dir := project.DocumentsPath()
	log := logrus.WithField("dir", dir)
	log.Info("processing documents")

	entries, err := os.ReadDir(dir)
	if err != nil {
		return film.NewErrorf(film.ErrDirectoryRead, "failed to open documents folder %s: %v", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			names = append(names, entry.Name())
		}
	}
	log.WithField("count", len(names)).Info("found PDF documents")

	if len(names) == 0 {
		log.Warn("no PDF documents found")
		return nil
	}

	workers := p.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	// Per-document probing is independent; results are joined before any
	// project totals are touched.
	var mu sync.Mutex
	docs := make([]*film.Document, 0, len(names))

	var g errgroup.Group
	g.SetLimit(workers)
	for _, name := range names {
		g.Go(func() error {
			doc, err := p.processOne(dir, name)
			if err != nil {
				logrus.WithField("file", name).WithError(err).Error("skipping document")
				return nil
			}
			mu.Lock()
			docs = append(docs, doc)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	film.SortDocuments(docs)
	project.Documents = docs

	project.TotalPages = 0
	project.TotalOversized = 0
	project.DocumentsWithOversized = 0
	project.HasOversized = false
	for _, doc := range docs {
		project.TotalPages += doc.Pages
		if doc.HasOversized {
			project.TotalOversized += doc.TotalOversized
			project.DocumentsWithOversized++
			project.HasOversized = true
		}
	}
	project.TotalPagesWithRefs = project.TotalPages

	log.WithFields(logrus.Fields{
		"documents": len(docs),
		"pages":     project.TotalPages,
		"oversized": project.TotalOversized,
	}).Info("document processing complete")

	return nil
}

func (p *Processor) processOne(dir, filename string) (*film.Document, error) {
	path := filepath.Join(dir, filename)
	doc := film.NewDocument(film.ExtractDocID(filename), path)

	probe, err := p.Oracle.Probe(path)
	if err != nil {
		return nil, err
	}
	doc.Pages = probe.PageCount

	var oversizedPages []int
	for i, dim := range probe.Dimensions {
		if !IsOversized(dim.Width, dim.Height) {
			continue
		}
		doc.Dimensions = append(doc.Dimensions, film.PageDimension{
			Width:       dim.Width,
			Height:      dim.Height,
			PageIndex:   i,
			PercentOver: percentOver(dim.Width, dim.Height),
		})
		oversizedPages = append(oversizedPages, i+1)
	}

	if len(oversizedPages) > 0 {
		doc.HasOversized = true
		doc.TotalOversized = len(oversizedPages)
		doc.Ranges = GroupConsecutive(oversizedPages)
		logrus.WithFields(logrus.Fields{
			"doc_id":    doc.DocID,
			"oversized": doc.TotalOversized,
			"ranges":    len(doc.Ranges),
		}).Debug("document has oversized pages")
	}

	return doc, nil
}

// IsOversized applies the A3-portrait threshold test, symmetric under 90°
// rotation.
func IsOversized(width, height float64) bool {
	return (width > film.OversizeThresholdWidth && height > film.OversizeThresholdHeight) ||
		(width > film.OversizeThresholdHeight && height > film.OversizeThresholdWidth)
}

// percentOver is the maximum dimensional excess over the threshold, in
// percent, taking the orientation that triggered the test.
func percentOver(width, height float64) float64 {
	max := 0.0
	if width > film.OversizeThresholdWidth && height > film.OversizeThresholdHeight {
		max = pctMax(width/film.OversizeThresholdWidth, height/film.OversizeThresholdHeight, max)
	}
	if width > film.OversizeThresholdHeight && height > film.OversizeThresholdWidth {
		max = pctMax(width/film.OversizeThresholdHeight, height/film.OversizeThresholdWidth, max)
	}
	return max
}

func pctMax(wRatio, hRatio, current float64) float64 {
	for _, ratio := range []float64{wRatio, hRatio} {
		if pct := (ratio - 1) * 100; pct > current {
			current = pct
		}
	}
	return current
}

// GroupConsecutive merges sorted 1-based page numbers into inclusive ranges,
// joining runs where the next page is at most one past the current end.
func GroupConsecutive(pages []int) []film.PageRange {
	if len(pages) == 0 {
		return nil
	}
	sorted := make([]int, len(pages))
	copy(sorted, pages)
	sort.Ints(sorted)

	ranges := []film.PageRange{{Start: sorted[0], End: sorted[0]}}
	for _, page := range sorted[1:] {
		last := &ranges[len(ranges)-1]
		if page <= last.End+1 {
			if page > last.End {
				last.End = page
			}
			continue
		}
		ranges = append(ranges, film.PageRange{Start: page, End: page})
	}
	return ranges
}
