// Package pdf provides the page-dimension oracle the engine consumes: for a
// document path, the page count and per-page media dimensions in PostScript
// points.
package pdf

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pkg/errors"
)

// Dimension is one page's media size in points.
type Dimension struct {
	Width  float64
	Height float64
}

// Probe is the result of inspecting one document.
type Probe struct {
	PageCount  int
	Dimensions []Dimension
}

// Oracle yields page counts and per-page dimensions for documents.
// Implementations must index Dimensions by 0-based page number.
type Oracle interface {
	Probe(path string) (*Probe, error)
}

// PDFCPUOracle reads page dimensions from the PDF page tree via pdfcpu.
type PDFCPUOracle struct{}

var _ Oracle = PDFCPUOracle{}

// Probe parses the document and returns each page's media box dimensions.
func (PDFCPUOracle) Probe(path string) (*Probe, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading page dimensions of %s", path)
	}

	probe := &Probe{
		PageCount:  len(dims),
		Dimensions: make([]Dimension, 0, len(dims)),
	}
	for _, d := range dims {
		probe.Dimensions = append(probe.Dimensions, Dimension{Width: d.Width, Height: d.Height})
	}
	return probe, nil
}
