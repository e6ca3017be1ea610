// Package process implements the main pipeline command: initialize the
// project, classify documents, allocate film, issue numbers, persist, and
// export.
package process

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/archivelab/film-registry/pkg/allocator"
	"github.com/archivelab/film-registry/pkg/config"
	"github.com/archivelab/film-registry/pkg/document"
	"github.com/archivelab/film-registry/pkg/export"
	"github.com/archivelab/film-registry/pkg/film"
	"github.com/archivelab/film-registry/pkg/pdf"
	"github.com/archivelab/film-registry/pkg/project"
	"github.com/archivelab/film-registry/pkg/sqlite"
)

// NewCmd returns the process command.
func NewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process PATH",
		Short: "process a project folder into film rolls",
		Long: `process parses the project folder name, classifies every PDF in its
document folder, allocates the documents to 16mm (and, for oversized pages,
35mm) film rolls, issues film numbers, saves the allocation to the database,
and exports the result as JSON into the project's .data directory.`,
		Args: cobra.ExactArgs(1),

		PreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			return nil
		},

		RunE: processFunc,
	}

	cmd.Flags().BoolP("debug", "d", false, "enable debug logging")
	cmd.Flags().String("database", "", "path to the allocation database file")
	cmd.Flags().String("config", "", "path to a YAML config file")

	return cmd
}

func processFunc(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg := config.Default()
	if cfgPath, _ := cmd.Flags().GetString("config"); cfgPath != "" {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cfg.Logging.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	if dbPath, _ := cmd.Flags().GetString("database"); dbPath != "" {
		cfg.Database.Path = dbPath
	}

	p, err := project.Initialize(path)
	if err != nil {
		return err
	}

	// Mirror log output into the project's .logs directory from here on.
	if closeLog, err := attachLogFile(p, cfg.Logging.Dir); err != nil {
		logrus.WithError(err).Warn("could not open project log file")
	} else {
		defer closeLog()
	}

	processor := &document.Processor{Oracle: pdf.PDFCPUOracle{}}
	if err := processor.ProcessAll(p); err != nil {
		return err
	}

	if p.HasOversized {
		logrus.Info("project has oversized pages, following oversized workflow")
		if err := document.PlanReferences(p); err != nil {
			return err
		}
	} else {
		logrus.Info("project has no oversized pages, following standard workflow")
	}

	if err := allocator.Allocate(p); err != nil {
		return err
	}

	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if err := store.AllocateFilmNumbers(ctx, p); err != nil {
		return err
	}
	if err := store.SaveProject(ctx, p); err != nil {
		return err
	}

	if _, err := export.WriteAll(p); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Project Path: %s\n", p.ProjectPath)

	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logProjectDetails(p)
	}
	return nil
}

// attachLogFile tees logrus output into <dir>/<archive_id>.log, defaulting
// dir to the project's .logs folder.
func attachLogFile(p *film.Project, dir string) (func(), error) {
	if dir == "" {
		dir = filepath.Join(p.ProjectPath, ".logs")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	logPath := filepath.Join(dir, p.ArchiveID+".log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	logrus.SetOutput(io.MultiWriter(os.Stderr, f))
	logrus.WithField("file", logPath).Info("logging to project log file")
	return func() {
		logrus.SetOutput(os.Stderr)
		f.Close()
	}, nil
}

func logProjectDetails(p *film.Project) {
	log := logrus.WithField("archive_id", p.ArchiveID)
	log.WithFields(logrus.Fields{
		"location":      p.Location,
		"location_code": p.LocationCode(),
		"doc_type":      p.DocType,
		"path":          p.ProjectPath,
	}).Debug("project")
	log.WithFields(logrus.Fields{
		"documents":       len(p.Documents),
		"pages":           p.TotalPages,
		"pages_with_refs": p.TotalPagesWithRefs,
		"oversized":       p.TotalOversized,
		"oversized_docs":  p.DocumentsWithOversized,
	}).Debug("totals")

	for _, doc := range p.Documents {
		if doc.HasOversized {
			log.WithFields(logrus.Fields{
				"doc_id":     doc.DocID,
				"oversized":  doc.TotalOversized,
				"references": doc.TotalRefs,
			}).Debug("oversized document")
		}
	}

	if p.Allocation != nil {
		log.WithFields(logrus.Fields{
			"rolls_16mm": p.Allocation.TotalRolls16mm,
			"pages_16mm": p.Allocation.TotalPages16mm,
			"rolls_35mm": p.Allocation.TotalRolls35mm,
			"pages_35mm": p.Allocation.TotalPages35mm,
		}).Debug("film allocation")
	}
}
