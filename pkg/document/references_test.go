package document

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/archivelab/film-registry/pkg/film"
)

func TestPlanReferences(t *testing.T) {
	oversized := film.NewDocument("7", "/docs/7.pdf")
	oversized.Pages = 50
	oversized.HasOversized = true
	oversized.TotalOversized = 3
	oversized.Ranges = []film.PageRange{{Start: 10, End: 11}, {Start: 30, End: 30}}

	regular := film.NewDocument("8", "/docs/8.pdf")
	regular.Pages = 20

	project := &film.Project{
		HasOversized: true,
		TotalPages:   70,
		Documents:    []*film.Document{oversized, regular},
	}

	require.NoError(t, PlanReferences(project))

	require.Equal(t, []int{10, 30}, oversized.ReferencePages)
	require.Equal(t, 2, oversized.TotalRefs)
	require.Equal(t, 52, oversized.PagesWithRefs())

	require.Empty(t, regular.ReferencePages)
	require.Zero(t, regular.TotalRefs)

	require.Equal(t, 72, project.TotalPagesWithRefs)
}

func TestPlanReferencesOnePerRange(t *testing.T) {
	doc := film.NewDocument("9", "/docs/9.pdf")
	doc.Pages = 200
	doc.HasOversized = true
	doc.TotalOversized = 7
	doc.Ranges = []film.PageRange{
		{Start: 1, End: 3},
		{Start: 50, End: 52},
		{Start: 199, End: 199},
	}

	project := &film.Project{
		HasOversized: true,
		TotalPages:   200,
		Documents:    []*film.Document{doc},
	}
	require.NoError(t, PlanReferences(project))

	require.Len(t, doc.ReferencePages, len(doc.Ranges))
	for i, r := range doc.Ranges {
		require.Equal(t, r.Start, doc.ReferencePages[i])
	}
}

func TestPlanReferencesSkippedWithoutOversized(t *testing.T) {
	doc := film.NewDocument("5", "/docs/5.pdf")
	doc.Pages = 40

	project := &film.Project{
		TotalPages:         40,
		TotalPagesWithRefs: 40,
		Documents:          []*film.Document{doc},
	}
	require.NoError(t, PlanReferences(project))
	require.Zero(t, doc.TotalRefs)
	require.Equal(t, 40, project.TotalPagesWithRefs)
}
