// Package export emits the canonical JSON triple for a processed project
// into its .data directory: project info, documents, and film allocation.
package export

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/archivelab/film-registry/pkg/film"
)

// DataDirName is the directory created under the project path.
const DataDirName = ".data"

type projectInfo struct {
	ArchiveID          string  `json:"archive_id"`
	Location           string  `json:"location"`
	LocationCode       string  `json:"location_code"`
	DocType            string  `json:"doc_type"`
	ProjectPath        string  `json:"project_path"`
	ProjectFolderName  string  `json:"project_folder_name"`
	DocumentFolderPath *string `json:"document_folder_path"`
	DocumentFolderName *string `json:"document_folder_name"`
	HasOversized       bool    `json:"has_oversized"`
	TotalPages         int     `json:"total_pages"`
	TotalPagesWithRefs int     `json:"total_pages_with_refs"`
	TotalOversized     int     `json:"total_oversized"`
	DocumentsWithOver  int     `json:"documents_with_oversized"`
	ComlistPath        *string `json:"comlist_path"`
}

type documentInfo struct {
	DocID              string               `json:"doc_id"`
	Path               string               `json:"path"`
	Pages              int                  `json:"pages"`
	HasOversized       bool                 `json:"has_oversized"`
	TotalOversized     int                  `json:"total_oversized"`
	Dimensions         []film.PageDimension `json:"dimensions"`
	Ranges             []film.PageRange     `json:"ranges"`
	ReferencePages     []int                `json:"reference_pages"`
	TotalReferences    int                  `json:"total_references"`
	IsSplit            bool                 `json:"is_split"`
	RollCount          int                  `json:"roll_count"`
	ComID              int                  `json:"com_id"`
	TotalPagesWithRefs int                  `json:"total_pages_with_refs"`
}

// WriteAll writes the three export files, creating the .data directory when
// absent, and returns the directory path. The film allocation file is
// written only when the project has an allocation.
func WriteAll(project *film.Project) (string, error) {
	if project == nil {
		return "", film.NewErrorf(film.ErrInvalidInput, "project is nil")
	}

	dataDir := filepath.Join(project.ProjectPath, DataDirName)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", film.NewError(film.ErrDirectoryRead, errors.Wrapf(err, "creating %s", dataDir))
	}

	log := logrus.WithFields(logrus.Fields{
		"archive_id": project.ArchiveID,
		"dir":        dataDir,
	})
	log.Info("exporting project results")

	if err := writeJSON(dataDir, project.ArchiveID, "project_info", buildProjectInfo(project)); err != nil {
		return "", err
	}
	if err := writeJSON(dataDir, project.ArchiveID, "documents", buildDocuments(project)); err != nil {
		return "", err
	}
	if project.Allocation != nil {
		if err := writeJSON(dataDir, project.ArchiveID, "film_allocation", project.Allocation); err != nil {
			return "", err
		}
	}

	log.Info("export complete")
	return dataDir, nil
}

func buildProjectInfo(project *film.Project) projectInfo {
	return projectInfo{
		ArchiveID:          project.ArchiveID,
		Location:           project.Location,
		LocationCode:       project.LocationCode(),
		DocType:            project.DocType,
		ProjectPath:        project.ProjectPath,
		ProjectFolderName:  project.ProjectFolderName,
		DocumentFolderPath: optional(project.DocumentFolderPath),
		DocumentFolderName: optional(project.DocumentFolderName),
		HasOversized:       project.HasOversized,
		TotalPages:         project.TotalPages,
		TotalPagesWithRefs: project.TotalPagesWithRefs,
		TotalOversized:     project.TotalOversized,
		DocumentsWithOver:  project.DocumentsWithOversized,
		ComlistPath:        optional(project.ComlistPath),
	}
}

func buildDocuments(project *film.Project) []documentInfo {
	docs := make([]documentInfo, 0, len(project.Documents))
	for _, doc := range project.Documents {
		docs = append(docs, documentInfo{
			DocID:              doc.DocID,
			Path:               doc.Path,
			Pages:              doc.Pages,
			HasOversized:       doc.HasOversized,
			TotalOversized:     doc.TotalOversized,
			Dimensions:         emptyIfNil(doc.Dimensions),
			Ranges:             emptyIfNil(doc.Ranges),
			ReferencePages:     emptyIfNil(doc.ReferencePages),
			TotalReferences:    doc.TotalRefs,
			IsSplit:            doc.IsSplit,
			RollCount:          doc.RollCount,
			ComID:              doc.ComID,
			TotalPagesWithRefs: doc.PagesWithRefs(),
		})
	}
	return docs
}

func writeJSON(dir, archiveID, kind string, v interface{}) error {
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.json", archiveID, kind))
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return film.NewError(film.ErrInvalidInput, errors.Wrapf(err, "encoding %s", kind))
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return film.NewError(film.ErrDirectoryRead, errors.Wrapf(err, "writing %s", path))
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
