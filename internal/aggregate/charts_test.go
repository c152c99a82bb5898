package aggregate

import (
	"testing"
	"time"

	"github.com/monukmodi/smart-expense-tracker-client/internal/core"
)

func TestLine(t *testing.T) {
	var daily [DailyWindow]DailyBucket
	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	for i := range daily {
		d := day.AddDate(0, 0, i)
		daily[i] = DailyBucket{Day: d, Label: d.Weekday().String()[:3], Amount: core.Money{Cents: int64(i) * 100}}
	}

	s := Line(daily)
	if len(s.Labels) != DailyWindow || len(s.Points) != DailyWindow {
		t.Fatalf("series length: %d/%d", len(s.Labels), len(s.Points))
	}
	if s.Labels[0] != "Mon" {
		t.Fatalf("got label %q", s.Labels[0])
	}
	if s.Points[3] != 3.0 {
		t.Fatalf("got point %v", s.Points[3])
	}
}

func TestPieColorWrap(t *testing.T) {
	var cats []CategoryTotal
	for i := 0; i < PaletteSize+2; i++ {
		cats = append(cats, CategoryTotal{Name: string(rune('A' + i)), Amount: core.Money{Cents: 100}})
	}

	slices := Pie(cats)
	if len(slices) != PaletteSize+2 {
		t.Fatalf("got %d slices", len(slices))
	}
	if slices[PaletteSize].ColorIndex != 0 {
		t.Fatalf("color index should wrap, got %d", slices[PaletteSize].ColorIndex)
	}
	if slices[1].ColorIndex != 1 {
		t.Fatalf("color index should follow order, got %d", slices[1].ColorIndex)
	}
}

func TestPieEmpty(t *testing.T) {
	if Pie(nil) != nil {
		t.Fatal("no categories should yield no slices")
	}
}
