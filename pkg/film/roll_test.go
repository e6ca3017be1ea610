package film

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddSegment(t *testing.T) {
	roll := NewRoll(1, Type16mm)
	require.Equal(t, Capacity16mm, roll.Capacity)
	require.Equal(t, Capacity16mm, roll.PagesRemaining)
	require.Equal(t, "active", roll.Status)

	index, err := roll.AddSegment("2", "/docs/2.pdf", 100, PageRange{Start: 1, End: 100}, false)
	require.NoError(t, err)
	require.Equal(t, 1, index)
	require.Equal(t, 100, roll.PagesUsed)
	require.Equal(t, Capacity16mm-100, roll.PagesRemaining)
	require.Equal(t, PageRange{Start: 1, End: 100}, roll.Segments[0].FrameRange)

	index, err = roll.AddSegment("3", "/docs/3.pdf", 50, PageRange{Start: 1, End: 50}, true)
	require.NoError(t, err)
	require.Equal(t, 2, index)
	require.Equal(t, PageRange{Start: 101, End: 150}, roll.Segments[1].FrameRange)
	require.True(t, roll.Segments[1].HasOversized)
}

func TestAddSegmentInsufficientCapacity(t *testing.T) {
	roll := NewRoll(1, Type35mm)
	_, err := roll.AddSegment("2", "/docs/2.pdf", Capacity35mm+1, PageRange{Start: 1, End: Capacity35mm + 1}, true)
	require.Error(t, err)
	require.True(t, IsType(err, ErrAllocation))
	require.Zero(t, roll.PagesUsed)
	require.Empty(t, roll.Segments)
}

func TestMarkPartial(t *testing.T) {
	tests := []struct {
		name       string
		used       int
		wantUsable int
	}{
		{name: "plenty remaining", used: 100, wantUsable: Capacity16mm - 100 - Padding16mm},
		{name: "less than padding remaining", used: Capacity16mm - 10, wantUsable: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roll := NewRoll(1, Type16mm)
			_, err := roll.AddSegment("2", "/docs/2.pdf", tt.used, PageRange{Start: 1, End: tt.used}, false)
			require.NoError(t, err)

			roll.MarkPartial()
			require.True(t, roll.IsPartial)
			require.Equal(t, Capacity16mm-tt.used, roll.RemainingCapacity)
			require.Equal(t, tt.wantUsable, roll.UsableCapacity)
		})
	}
}

func TestAllocationAddRoll(t *testing.T) {
	allocation := NewAllocation("RRD017-2024", "RRD017-2024_OU_Akten")

	first := allocation.AddRoll(Type16mm)
	second := allocation.AddRoll(Type16mm)
	third := allocation.AddRoll(Type35mm)

	require.Equal(t, 1, first.RollID)
	require.Equal(t, 2, second.RollID)
	require.Equal(t, 1, third.RollID)
	require.Len(t, allocation.Rolls16mm, 2)
	require.Len(t, allocation.Rolls35mm, 1)
}

func TestUpdateStatistics(t *testing.T) {
	allocation := NewAllocation("RRD017-2024", "RRD017-2024_OU_Akten")

	roll := allocation.AddRoll(Type16mm)
	_, err := roll.AddSegment("2", "/docs/2.pdf", 2900, PageRange{Start: 1, End: 2900}, false)
	require.NoError(t, err)
	roll.HasSplitDocuments = true

	roll = allocation.AddRoll(Type16mm)
	_, err = roll.AddSegment("2", "/docs/2.pdf", 600, PageRange{Start: 2901, End: 3500}, false)
	require.NoError(t, err)
	roll.MarkPartial()

	allocation.UpdateStatistics()
	require.Equal(t, 2, allocation.TotalRolls16mm)
	require.Equal(t, 3500, allocation.TotalPages16mm)
	require.Equal(t, 1, allocation.TotalPartialRolls16mm)
	require.Equal(t, 1, allocation.TotalSplitDocuments16mm)
	require.Zero(t, allocation.TotalRolls35mm)
}
