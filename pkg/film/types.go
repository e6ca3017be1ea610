package film

import (
	"encoding/json"
	"fmt"
	"time"
)

// FilmType identifies one of the two physical film formats.
type FilmType string

const (
	Type16mm FilmType = "16mm"
	Type35mm FilmType = "35mm"
)

// Capacity and padding constants are part of the external contract.
const (
	Capacity16mm = 2900
	Capacity35mm = 690
	Padding16mm  = 150
	Padding35mm  = 150

	// A page is oversized when both dimensions exceed A3 portrait in points,
	// in either orientation.
	OversizeThresholdWidth  = 842.0
	OversizeThresholdHeight = 1191.0
)

// AllocationVersion is the format version stamped on every allocation.
const AllocationVersion = "1.0"

// TimestampFormat is used for all creation dates, in the database and in
// exported JSON.
const TimestampFormat = "2006-01-02 15:04:05"

// Now is the clock used for creation dates. Tests may replace it.
var Now = time.Now

// Timestamp returns the current time formatted for storage.
func Timestamp() string {
	return Now().Format(TimestampFormat)
}

// Capacity returns the frame capacity of a roll of this type.
func (t FilmType) Capacity() int {
	if t == Type35mm {
		return Capacity35mm
	}
	return Capacity16mm
}

// Padding returns the frames reserved at the tail of a partial roll.
func (t FilmType) Padding() int {
	if t == Type35mm {
		return Padding35mm
	}
	return Padding16mm
}

// PageRange is an inclusive 1-based page span.
type PageRange struct {
	Start int
	End   int
}

// Pages returns the number of pages covered by the range.
func (r PageRange) Pages() int {
	return r.End - r.Start + 1
}

// MarshalJSON encodes the range as a [start, end] pair.
func (r PageRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Start, r.End})
}

// UnmarshalJSON decodes a [start, end] pair.
func (r *PageRange) UnmarshalJSON(data []byte) error {
	var pair [2]int
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	r.Start, r.End = pair[0], pair[1]
	return nil
}

// PageDimension records the measured size of one oversized page.
// PageIndex is 0-based; PercentOver is the maximum dimensional excess over
// the threshold, in percent.
type PageDimension struct {
	Width       float64
	Height      float64
	PageIndex   int
	PercentOver float64
}

// MarshalJSON encodes the dimension as a [width, height, page_index,
// percent_over] quadruple.
func (d PageDimension) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{d.Width, d.Height, d.PageIndex, d.PercentOver})
}

// UnmarshalJSON decodes the quadruple form.
func (d *PageDimension) UnmarshalJSON(data []byte) error {
	var quad [4]float64
	if err := json.Unmarshal(data, &quad); err != nil {
		return err
	}
	d.Width, d.Height, d.PageIndex, d.PercentOver = quad[0], quad[1], int(quad[2]), quad[3]
	return nil
}

func (d PageDimension) String() string {
	return fmt.Sprintf("%.2fx%.2f pt (page %d, %.2f%% over)", d.Width, d.Height, d.PageIndex, d.PercentOver)
}
