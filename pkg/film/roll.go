package film

// DocumentSegment is a contiguous placement of one document (or a piece of a
// split document) on a single roll.
type DocumentSegment struct {
	DocID         string    `json:"doc_id"`
	Path          string    `json:"path"`
	Pages         int       `json:"pages"`
	PageRange     PageRange `json:"page_range"`
	FrameRange    PageRange `json:"frame_range"`
	DocumentIndex int       `json:"document_index"`
	HasOversized  bool      `json:"has_oversized"`
}

// FilmRoll tracks capacity and the segments placed on one physical roll.
// RollID is 1-based within its format for the current allocation; the
// database assigns its own key on save.
type FilmRoll struct {
	RollID            int               `json:"roll_id"`
	FilmType          FilmType          `json:"film_type"`
	Capacity          int               `json:"capacity"`
	PagesUsed         int               `json:"pages_used"`
	PagesRemaining    int               `json:"pages_remaining"`
	FilmNumber        string            `json:"film_number"`
	Status            string            `json:"status"`
	HasSplitDocuments bool              `json:"has_split_documents"`
	IsPartial         bool              `json:"is_partial"`
	RemainingCapacity int               `json:"remaining_capacity"`
	UsableCapacity    int               `json:"usable_capacity"`
	CreationDate      string            `json:"creation_date"`
	Segments          []DocumentSegment `json:"document_segments"`
}

// NewRoll returns an empty active roll of the given type.
func NewRoll(rollID int, filmType FilmType) *FilmRoll {
	return &FilmRoll{
		RollID:         rollID,
		FilmType:       filmType,
		Capacity:       filmType.Capacity(),
		PagesRemaining: filmType.Capacity(),
		Status:         "active",
		CreationDate:   Timestamp(),
	}
}

// AddSegment appends a segment at the next free frame and returns its
// 1-based document index on the roll. The allocators are responsible for
// never exceeding the remaining capacity.
func (r *FilmRoll) AddSegment(docID, path string, pages int, pageRange PageRange, hasOversized bool) (int, error) {
	if pages > r.PagesRemaining {
		return 0, NewErrorf(ErrAllocation,
			"segment of %d pages exceeds remaining capacity %d on %s roll %d",
			pages, r.PagesRemaining, r.FilmType, r.RollID)
	}

	index := len(r.Segments) + 1
	startFrame := r.PagesUsed + 1
	r.Segments = append(r.Segments, DocumentSegment{
		DocID:         docID,
		Path:          path,
		Pages:         pages,
		PageRange:     pageRange,
		FrameRange:    PageRange{Start: startFrame, End: startFrame + pages - 1},
		DocumentIndex: index,
		HasOversized:  hasOversized,
	})

	r.PagesUsed += pages
	r.PagesRemaining -= pages
	return index, nil
}

// MarkPartial closes the roll with unused capacity, reserving padding frames
// at its tail.
func (r *FilmRoll) MarkPartial() {
	r.IsPartial = true
	r.RemainingCapacity = r.PagesRemaining
	usable := r.PagesRemaining - r.FilmType.Padding()
	if usable < 0 {
		usable = 0
	}
	r.UsableCapacity = usable
}

// Allocation holds the ordered roll lists produced for one project.
type Allocation struct {
	ArchiveID   string `json:"archive_id"`
	ProjectName string `json:"project_name"`

	Rolls16mm []*FilmRoll `json:"rolls_16mm"`
	Rolls35mm []*FilmRoll `json:"rolls_35mm"`

	TotalRolls16mm          int `json:"total_rolls_16mm"`
	TotalPages16mm          int `json:"total_pages_16mm"`
	TotalPartialRolls16mm   int `json:"total_partial_rolls_16mm"`
	TotalSplitDocuments16mm int `json:"total_split_documents_16mm"`
	TotalRolls35mm          int `json:"total_rolls_35mm"`
	TotalPages35mm          int `json:"total_pages_35mm"`
	TotalPartialRolls35mm   int `json:"total_partial_rolls_35mm"`
	TotalSplitDocuments35mm int `json:"total_split_documents_35mm"`

	CreationDate string `json:"creation_date"`
	Version      string `json:"version"`
}

// NewAllocation returns an empty allocation stamped with the current format
// version.
func NewAllocation(archiveID, projectName string) *Allocation {
	return &Allocation{
		ArchiveID:    archiveID,
		ProjectName:  projectName,
		Rolls16mm:    []*FilmRoll{},
		Rolls35mm:    []*FilmRoll{},
		CreationDate: Timestamp(),
		Version:      AllocationVersion,
	}
}

// AddRoll appends a fresh roll of the given type and returns it. Roll ids
// are 1-based per format.
func (a *Allocation) AddRoll(filmType FilmType) *FilmRoll {
	if filmType == Type35mm {
		roll := NewRoll(len(a.Rolls35mm)+1, filmType)
		a.Rolls35mm = append(a.Rolls35mm, roll)
		return roll
	}
	roll := NewRoll(len(a.Rolls16mm)+1, filmType)
	a.Rolls16mm = append(a.Rolls16mm, roll)
	return roll
}

// Rolls returns the rolls of the given type in allocation order.
func (a *Allocation) Rolls(filmType FilmType) []*FilmRoll {
	if filmType == Type35mm {
		return a.Rolls35mm
	}
	return a.Rolls16mm
}

// UpdateStatistics recomputes the per-format totals from the roll lists. A
// split document is one with a continuation segment, i.e. a segment whose
// page range does not start at page 1.
func (a *Allocation) UpdateStatistics() {
	splitDocuments := func(rolls []*FilmRoll) int {
		split := map[string]bool{}
		for _, roll := range rolls {
			for _, segment := range roll.Segments {
				if segment.PageRange.Start > 1 {
					split[segment.DocID] = true
				}
			}
		}
		return len(split)
	}

	a.TotalRolls16mm = len(a.Rolls16mm)
	a.TotalPages16mm = 0
	a.TotalPartialRolls16mm = 0
	for _, roll := range a.Rolls16mm {
		a.TotalPages16mm += roll.PagesUsed
		if roll.IsPartial {
			a.TotalPartialRolls16mm++
		}
	}
	a.TotalSplitDocuments16mm = splitDocuments(a.Rolls16mm)

	a.TotalRolls35mm = len(a.Rolls35mm)
	a.TotalPages35mm = 0
	a.TotalPartialRolls35mm = 0
	for _, roll := range a.Rolls35mm {
		a.TotalPages35mm += roll.PagesUsed
		if roll.IsPartial {
			a.TotalPartialRolls35mm++
		}
	}
	a.TotalSplitDocuments35mm = splitDocuments(a.Rolls35mm)
}
