package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/archivelab/film-registry/pkg/film"
	"github.com/archivelab/film-registry/pkg/pdf"
)

// fakeOracle returns canned probes keyed by filename.
type fakeOracle struct {
	probes map[string]*pdf.Probe
}

func (f *fakeOracle) Probe(path string) (*pdf.Probe, error) {
	probe, ok := f.probes[filepath.Base(path)]
	if !ok {
		return nil, errors.Errorf("unreadable document %s", path)
	}
	return probe, nil
}

func a4Pages(n int) []pdf.Dimension {
	dims := make([]pdf.Dimension, n)
	for i := range dims {
		dims[i] = pdf.Dimension{Width: 595, Height: 842}
	}
	return dims
}

func probeOf(dims []pdf.Dimension) *pdf.Probe {
	return &pdf.Probe{PageCount: len(dims), Dimensions: dims}
}

func writePDFs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
}

func TestIsOversized(t *testing.T) {
	tests := []struct {
		name   string
		w, h   float64
		exceed bool
	}{
		{name: "a4 portrait", w: 595, h: 842},
		{name: "a3 portrait at threshold", w: 842, h: 1191},
		{name: "a2 portrait", w: 1191, h: 1684, exceed: true},
		{name: "a2 landscape", w: 1684, h: 1191, exceed: true},
		{name: "wide but short", w: 2000, h: 500},
		{name: "just over both", w: 843, h: 1192, exceed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.exceed, IsOversized(tt.w, tt.h))
		})
	}
}

func TestGroupConsecutive(t *testing.T) {
	tests := []struct {
		name  string
		pages []int
		want  []film.PageRange
	}{
		{name: "empty", pages: nil, want: nil},
		{name: "single", pages: []int{5}, want: []film.PageRange{{Start: 5, End: 5}}},
		{
			name:  "run and singleton",
			pages: []int{10, 11, 30},
			want:  []film.PageRange{{Start: 10, End: 11}, {Start: 30, End: 30}},
		},
		{
			name:  "unsorted input",
			pages: []int{30, 11, 10},
			want:  []film.PageRange{{Start: 10, End: 11}, {Start: 30, End: 30}},
		},
		{
			name:  "duplicates collapse",
			pages: []int{4, 4, 5},
			want:  []film.PageRange{{Start: 4, End: 5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GroupConsecutive(tt.pages))
		})
	}
}

func TestProcessAll(t *testing.T) {
	dir := t.TempDir()
	project := &film.Project{ProjectPath: dir}
	writePDFs(t, dir, "2_y.pdf", "12_x.pdf", "100_z.pdf")

	oversizedDims := a4Pages(50)
	// pages 10, 11 and 30 oversized (1-based)
	oversizedDims[9] = pdf.Dimension{Width: 1191.1, Height: 1684}
	oversizedDims[10] = pdf.Dimension{Width: 1684, Height: 1191.1}
	oversizedDims[29] = pdf.Dimension{Width: 900, Height: 1300}

	oracle := &fakeOracle{probes: map[string]*pdf.Probe{
		"2_y.pdf":   probeOf(a4Pages(100)),
		"12_x.pdf":  probeOf(oversizedDims),
		"100_z.pdf": probeOf(a4Pages(20)),
	}}

	processor := &Processor{Oracle: oracle, Workers: 2}
	require.NoError(t, processor.ProcessAll(project))

	require.Len(t, project.Documents, 3)
	require.Equal(t, "2", project.Documents[0].DocID)
	require.Equal(t, "12", project.Documents[1].DocID)
	require.Equal(t, "100", project.Documents[2].DocID)

	require.Equal(t, 170, project.TotalPages)
	require.Equal(t, 170, project.TotalPagesWithRefs)
	require.Equal(t, 3, project.TotalOversized)
	require.Equal(t, 1, project.DocumentsWithOversized)
	require.True(t, project.HasOversized)

	oversized := project.Documents[1]
	require.True(t, oversized.HasOversized)
	require.Equal(t, 3, oversized.TotalOversized)
	require.Equal(t, []film.PageRange{{Start: 10, End: 11}, {Start: 30, End: 30}}, oversized.Ranges)
	require.Len(t, oversized.Dimensions, 3)
	require.Equal(t, 9, oversized.Dimensions[0].PageIndex)
}

func TestProcessAllSkipsFailingDocument(t *testing.T) {
	dir := t.TempDir()
	project := &film.Project{ProjectPath: dir}
	writePDFs(t, dir, "1.pdf", "2.pdf")

	oracle := &fakeOracle{probes: map[string]*pdf.Probe{
		"1.pdf": probeOf(a4Pages(10)),
		// 2.pdf missing: the probe fails and the document is skipped
	}}

	processor := &Processor{Oracle: oracle}
	require.NoError(t, processor.ProcessAll(project))
	require.Len(t, project.Documents, 1)
	require.Equal(t, "1", project.Documents[0].DocID)
	require.Equal(t, 10, project.TotalPages)
}

func TestProcessAllNoDocuments(t *testing.T) {
	dir := t.TempDir()
	project := &film.Project{ProjectPath: dir}

	processor := &Processor{Oracle: &fakeOracle{}}
	require.NoError(t, processor.ProcessAll(project))
	require.Empty(t, project.Documents)
	require.False(t, project.HasOversized)
}

func TestProcessAllMissingFolder(t *testing.T) {
	project := &film.Project{ProjectPath: filepath.Join(t.TempDir(), "gone")}
	processor := &Processor{Oracle: &fakeOracle{}}

	err := processor.ProcessAll(project)
	require.Error(t, err)
	require.True(t, film.IsType(err, film.ErrDirectoryRead))
}

func TestPercentOver(t *testing.T) {
	// 10% over threshold width, 5% over threshold height: width wins.
	w := film.OversizeThresholdWidth * 1.10
	h := film.OversizeThresholdHeight * 1.05
	require.InDelta(t, 10.0, percentOver(w, h), 0.01)

	// Rotated orientation.
	require.InDelta(t, 10.0, percentOver(h, w), 0.01)
}
