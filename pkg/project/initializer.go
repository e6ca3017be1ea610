// Package project turns an archive folder path into an initialized Project:
// metadata parsed from the folder naming convention, a resolved document
// subfolder, and the companion spreadsheet when one exists.
package project

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/archivelab/film-registry/pkg/film"
)

// metadata is what the folder naming convention encodes:
// RRD<digits>-<digits>_<LOCATION>_<DOC_TYPE?>.
type metadata struct {
	archiveID string
	location  string
	docType   string
}

// Initialize builds a Project from a filesystem path. The path may be the
// project folder itself or its document subfolder; in the latter case the
// parent supplies the metadata.
func Initialize(path string) (*film.Project, error) {
	log := logrus.WithField("path", path)

	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return nil, film.NewErrorf(film.ErrPathNotFound, "path does not exist or is not a directory: %s", path)
	}

	path = filepath.Clean(path)
	folderName := filepath.Base(path)

	p := &film.Project{
		ProjectPath:       path,
		ProjectFolderName: folderName,
	}

	meta, ok := parseFolderName(folderName)
	if ok {
		log.WithField("archive_id", meta.archiveID).Debug("path is a project folder")
		p.ArchiveID = meta.archiveID
		p.Location = meta.location
		p.DocType = meta.docType

		if docFolder, found, err := findDocumentFolder(path, meta.archiveID); err != nil {
			return nil, err
		} else if found {
			p.DocumentFolderPath = docFolder
			p.DocumentFolderName = filepath.Base(docFolder)
			log.WithField("folder", p.DocumentFolderName).Debug("found document folder")
		} else {
			log.Warn("no document subfolder found, documents will be read from the project folder")
		}
	} else {
		// The passed path may be the document subfolder of a project.
		parent := filepath.Dir(path)
		parentName := filepath.Base(parent)
		meta, ok = parseFolderName(parentName)
		if !ok {
			return nil, film.NewErrorf(film.ErrInvalidInput,
				"could not extract project metadata from folder name %q or parent %q", folderName, parentName)
		}
		log.WithField("archive_id", meta.archiveID).Debug("path is a document subfolder")
		p.ArchiveID = meta.archiveID
		p.Location = meta.location
		p.DocType = meta.docType
		p.ProjectPath = parent
		p.ProjectFolderName = parentName
		p.DocumentFolderPath = path
		p.DocumentFolderName = folderName
	}

	if comlist, found, err := findComlist(p.ProjectPath, p.ArchiveID); err != nil {
		return nil, err
	} else if found {
		p.ComlistPath = comlist
		log.WithField("file", filepath.Base(comlist)).Debug("found comlist spreadsheet")
	}

	logrus.WithFields(logrus.Fields{
		"archive_id": p.ArchiveID,
		"location":   p.Location,
	}).Info("project initialized")

	return p, nil
}

// parseFolderName splits RRD<archive>-<suffix>_<location>_<doc_type?>.
// Doc type is everything after the second underscore, further underscores
// included.
func parseFolderName(name string) (metadata, bool) {
	if !strings.HasPrefix(name, "RRD") {
		return metadata{}, false
	}
	first := strings.Index(name, "_")
	if first <= 0 {
		return metadata{}, false
	}
	meta := metadata{archiveID: name[:first]}

	rest := name[first+1:]
	if second := strings.Index(rest, "_"); second >= 0 {
		meta.location = rest[:second]
		meta.docType = rest[second+1:]
	} else {
		meta.location = rest
	}
	if meta.location == "" {
		return metadata{}, false
	}
	return meta, true
}

// findDocumentFolder picks the document subfolder under this ordered policy:
// a name containing "PDFs zu", then a name containing the archive id, then
// the subfolder holding the most PDFs.
func findDocumentFolder(projectPath, archiveID string) (string, bool, error) {
	entries, err := os.ReadDir(projectPath)
	if err != nil {
		return "", false, film.NewError(film.ErrDirectoryRead,
			errors.Wrapf(err, "reading project folder %s", projectPath))
	}

	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), "PDFs zu") {
			return filepath.Join(projectPath, entry.Name()), true, nil
		}
	}

	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), archiveID) {
			return filepath.Join(projectPath, entry.Name()), true, nil
		}
	}

	best := ""
	maxPDFs := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(projectPath, entry.Name())
		count := countPDFs(sub)
		if count > maxPDFs {
			maxPDFs = count
			best = sub
		}
	}
	if maxPDFs > 0 {
		return best, true, nil
	}

	return "", false, nil
}

func countPDFs(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
			count++
		}
	}
	return count
}

// findComlist locates the companion spreadsheet: the first .xls/.xlsx whose
// name contains the archive id, else the first such file at all.
func findComlist(folder, archiveID string) (string, bool, error) {
	entries, err := os.ReadDir(folder)
	if err != nil {
		return "", false, film.NewError(film.ErrDirectoryRead,
			errors.Wrapf(err, "reading project folder %s", folder))
	}

	fallback := ""
	for _, entry := range entries {
		if entry.IsDir() || !isSpreadsheet(entry.Name()) {
			continue
		}
		if strings.Contains(entry.Name(), archiveID) {
			return filepath.Join(folder, entry.Name()), true, nil
		}
		if fallback == "" {
			fallback = filepath.Join(folder, entry.Name())
		}
	}
	if fallback != "" {
		return fallback, true, nil
	}
	return "", false, nil
}

func isSpreadsheet(name string) bool {
	ext := filepath.Ext(name)
	return strings.EqualFold(ext, ".xls") || strings.EqualFold(ext, ".xlsx")
}
