package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/archivelab/film-registry/pkg/allocator"
	"github.com/archivelab/film-registry/pkg/film"
)

func exportProject(t *testing.T) *film.Project {
	t.Helper()

	doc := film.NewDocument("1", "/archive/docs/1.pdf")
	doc.Pages = 50
	doc.HasOversized = true
	doc.TotalOversized = 3
	doc.Dimensions = []film.PageDimension{
		{Width: 1200, Height: 1700, PageIndex: 9, PercentOver: 42.72},
		{Width: 1200, Height: 1700, PageIndex: 10, PercentOver: 42.72},
		{Width: 900, Height: 1300, PageIndex: 29, PercentOver: 9.15},
	}
	doc.Ranges = []film.PageRange{{Start: 10, End: 11}, {Start: 30, End: 30}}
	doc.ReferencePages = []int{10, 30}
	doc.TotalRefs = 2

	p := &film.Project{
		ArchiveID:              "RRD017-2024",
		Location:               "OU",
		DocType:                "Akten",
		ProjectPath:            t.TempDir(),
		ProjectFolderName:      "RRD017-2024_OU_Akten",
		HasOversized:           true,
		TotalPages:             50,
		TotalPagesWithRefs:     52,
		TotalOversized:         3,
		DocumentsWithOversized: 1,
		Documents:              []*film.Document{doc},
	}
	require.NoError(t, allocator.Allocate(p))
	return p
}

func readJSON(t *testing.T, path string, v interface{}) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, v))
}

func TestWriteAll(t *testing.T) {
	p := exportProject(t)

	dataDir, err := WriteAll(p)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(p.ProjectPath, DataDirName), dataDir)

	for _, kind := range []string{"project_info", "documents", "film_allocation"} {
		_, err := os.Stat(filepath.Join(dataDir, "RRD017-2024_"+kind+".json"))
		require.NoError(t, err)
	}
}

func TestProjectInfoJSON(t *testing.T) {
	p := exportProject(t)
	dataDir, err := WriteAll(p)
	require.NoError(t, err)

	var info map[string]interface{}
	readJSON(t, filepath.Join(dataDir, "RRD017-2024_project_info.json"), &info)

	require.Equal(t, "RRD017-2024", info["archive_id"])
	require.Equal(t, "OU", info["location"])
	require.Equal(t, "1", info["location_code"])
	require.Equal(t, true, info["has_oversized"])
	require.Equal(t, float64(50), info["total_pages"])
	require.Equal(t, float64(52), info["total_pages_with_refs"])

	// Unset optional paths serialize as null.
	require.Contains(t, info, "comlist_path")
	require.Nil(t, info["comlist_path"])
	require.Nil(t, info["document_folder_path"])
}

func TestDocumentsJSON(t *testing.T) {
	p := exportProject(t)
	dataDir, err := WriteAll(p)
	require.NoError(t, err)

	var docs []map[string]interface{}
	readJSON(t, filepath.Join(dataDir, "RRD017-2024_documents.json"), &docs)
	require.Len(t, docs, 1)

	doc := docs[0]
	require.Equal(t, "1", doc["doc_id"])
	require.Equal(t, float64(50), doc["pages"])
	require.Equal(t, float64(52), doc["total_pages_with_refs"])

	dims := doc["dimensions"].([]interface{})
	require.Len(t, dims, 3)
	first := dims[0].([]interface{})
	require.Equal(t, []interface{}{float64(1200), float64(1700), float64(9), 42.72}, first)

	ranges := doc["ranges"].([]interface{})
	require.Equal(t, []interface{}{float64(10), float64(11)}, ranges[0].([]interface{}))

	refs := doc["reference_pages"].([]interface{})
	require.Equal(t, []interface{}{float64(10), float64(30)}, refs)
}

func TestFilmAllocationJSON(t *testing.T) {
	p := exportProject(t)
	dataDir, err := WriteAll(p)
	require.NoError(t, err)

	var allocation map[string]interface{}
	readJSON(t, filepath.Join(dataDir, "RRD017-2024_film_allocation.json"), &allocation)

	require.Equal(t, "RRD017-2024", allocation["archive_id"])
	require.Equal(t, "1.0", allocation["version"])

	rolls16 := allocation["rolls_16mm"].([]interface{})
	require.Len(t, rolls16, 1)
	roll := rolls16[0].(map[string]interface{})
	require.Equal(t, "16mm", roll["film_type"])
	require.Equal(t, float64(52), roll["pages_used"])

	segments := roll["document_segments"].([]interface{})
	require.Len(t, segments, 1)
	segment := segments[0].(map[string]interface{})
	require.Equal(t, []interface{}{float64(1), float64(52)}, segment["page_range"].([]interface{}))
	require.Equal(t, []interface{}{float64(1), float64(52)}, segment["frame_range"].([]interface{}))

	rolls35 := allocation["rolls_35mm"].([]interface{})
	require.Len(t, rolls35, 1)
	require.Equal(t, float64(5), rolls35[0].(map[string]interface{})["pages_used"])
}

func TestWriteAllDeterministic(t *testing.T) {
	film.Now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	defer func() { film.Now = time.Now }()

	p := exportProject(t)
	dataDir, err := WriteAll(p)
	require.NoError(t, err)
	first, err := os.ReadFile(filepath.Join(dataDir, "RRD017-2024_film_allocation.json"))
	require.NoError(t, err)

	_, err = WriteAll(p)
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dataDir, "RRD017-2024_film_allocation.json"))
	require.NoError(t, err)

	require.Equal(t, string(first), string(second))
}

func TestWriteAllEmptyRolls(t *testing.T) {
	p := &film.Project{
		ArchiveID:         "RRD018-2024",
		Location:          "DW",
		ProjectPath:       t.TempDir(),
		ProjectFolderName: "RRD018-2024_DW",
	}
	require.NoError(t, allocator.Allocate(p))

	dataDir, err := WriteAll(p)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dataDir, "RRD018-2024_film_allocation.json"))
	require.NoError(t, err)
	var allocation map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &allocation))

	// Empty roll lists stay arrays, not null.
	require.NotNil(t, allocation["rolls_16mm"])
	require.Empty(t, allocation["rolls_16mm"].([]interface{}))
}
