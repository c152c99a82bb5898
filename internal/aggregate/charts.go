package aggregate

// Thin formatting layer on top of Aggregate's output: the shapes the SPA's
// chart library consumes directly.

// PaletteSize is the number of distinct chart colors the UI defines.
// Color indexes wrap around it.
const PaletteSize = 8

type (
	// LineSeries is the weekly spend line chart: one label and one point
	// per calendar day, oldest first.
	LineSeries struct {
		Labels []string  `json:"labels"`
		Points []float64 `json:"points"`
	}

	// PieSlice is one wedge of the category split chart.
	PieSlice struct {
		Name       string  `json:"name"`
		Amount     float64 `json:"amount"`
		ColorIndex int     `json:"colorIndex"`
	}
)

// Line builds the chart series for the daily buckets.
func Line(daily [DailyWindow]DailyBucket) LineSeries {
	s := LineSeries{
		Labels: make([]string, DailyWindow),
		Points: make([]float64, DailyWindow),
	}
	for i, b := range daily {
		s.Labels[i] = b.Label
		s.Points[i] = b.Amount.Dollars()
	}
	return s
}

// Pie builds pie slices from category totals. Slice order follows the
// category order, so color assignment is stable for a given input.
func Pie(categories []CategoryTotal) []PieSlice {
	if len(categories) == 0 {
		return nil
	}
	out := make([]PieSlice, len(categories))
	for i, c := range categories {
		out[i] = PieSlice{
			Name:       c.Name,
			Amount:     c.Amount.Dollars(),
			ColorIndex: i % PaletteSize,
		}
	}
	return out
}
