package film

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Document is one source PDF, classified for allocation.
type Document struct {
	DocID          string          `json:"doc_id"`
	Path           string          `json:"path"`
	Pages          int             `json:"pages"`
	HasOversized   bool            `json:"has_oversized"`
	TotalOversized int             `json:"total_oversized"`
	Dimensions     []PageDimension `json:"dimensions"`
	Ranges         []PageRange     `json:"ranges"`
	ReferencePages []int           `json:"reference_pages"`
	TotalRefs      int             `json:"total_references"`
	IsSplit        bool            `json:"is_split"`
	RollCount      int             `json:"roll_count"`
	ComID          int             `json:"com_id"`
}

// NewDocument returns a document with allocation fields at their defaults.
func NewDocument(docID, path string) *Document {
	return &Document{
		DocID:     docID,
		Path:      path,
		RollCount: 1,
		ComID:     -1,
	}
}

// PagesWithRefs is the effective page count placed on 16mm film.
func (d *Document) PagesWithRefs() int {
	return d.Pages + d.TotalRefs
}

// OversizedWithRefs is the effective page count mirrored to 35mm film.
func (d *Document) OversizedWithRefs() int {
	return d.TotalOversized + d.TotalRefs
}

// ExtractDocID derives the stable document identifier from a filename:
// the first run of digits, or the filename stem when no digits exist.
func ExtractDocID(filename string) string {
	start := -1
	for i, r := range filename {
		if r >= '0' && r <= '9' {
			start = i
			break
		}
	}
	if start < 0 {
		return strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	end := start
	for end < len(filename) && filename[end] >= '0' && filename[end] <= '9' {
		end++
	}
	return filename[start:end]
}

// SortDocuments orders documents by numeric doc id, falling back to
// lexicographic comparison on ties or non-numeric ids.
func SortDocuments(docs []*Document) {
	sort.SliceStable(docs, func(i, j int) bool {
		return lessDocID(docs[i].DocID, docs[j].DocID)
	})
}

func lessDocID(a, b string) bool {
	na, aerr := strconv.Atoi(a)
	nb, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil && na != nb {
		return na < nb
	}
	if aerr == nil && berr != nil {
		return true
	}
	if aerr != nil && berr == nil {
		return false
	}
	return a < b
}
