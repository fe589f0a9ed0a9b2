package calendar

import (
	"testing"
	"time"
)

func TestMonthGridShape(t *testing.T) {
	tests := []struct {
		name       string
		ref        time.Time
		weekStart  time.Weekday
		wantBlanks int
		wantDays   int
	}{
		{
			// March 2026 starts on a Sunday
			name:       "first on week start has no blanks",
			ref:        time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC),
			weekStart:  time.Sunday,
			wantBlanks: 0,
			wantDays:   31,
		},
		{
			// August 2026 starts on a Saturday
			name:       "saturday start with sunday weeks",
			ref:        time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC),
			weekStart:  time.Sunday,
			wantBlanks: 6,
			wantDays:   31,
		},
		{
			name:       "saturday start with monday weeks",
			ref:        time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
			weekStart:  time.Monday,
			wantBlanks: 5,
			wantDays:   31,
		},
		{
			// February 2024 is a leap month starting on a Thursday
			name:       "leap february",
			ref:        time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			weekStart:  time.Sunday,
			wantBlanks: 4,
			wantDays:   29,
		},
		{
			name:       "non-leap february",
			ref:        time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC),
			weekStart:  time.Sunday,
			wantBlanks: 0,
			wantDays:   28,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.ref, tt.weekStart)
			if len(cells) != tt.wantBlanks+tt.wantDays {
				t.Fatalf("got %d cells, want %d", len(cells), tt.wantBlanks+tt.wantDays)
			}
			for i := 0; i < tt.wantBlanks; i++ {
				if !cells[i].Blank {
					t.Errorf("cell %d should be blank", i)
				}
			}
			for i := tt.wantBlanks; i < len(cells); i++ {
				cell := cells[i]
				if cell.Blank {
					t.Errorf("cell %d should not be blank", i)
					continue
				}
				wantDay := i - tt.wantBlanks + 1
				if cell.Day.Day() != wantDay {
					t.Errorf("cell %d has day %d, want %d", i, cell.Day.Day(), wantDay)
				}
				if cell.Day.Month() != tt.ref.Month() || cell.Day.Year() != tt.ref.Year() {
					t.Errorf("cell %d is in %v %d, want %v %d", i, cell.Day.Month(), cell.Day.Year(), tt.ref.Month(), tt.ref.Year())
				}
			}
		})
	}
}

func TestMonthGridKeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	cells := MonthGrid(time.Date(2026, time.June, 1, 12, 30, 0, 0, loc), time.Sunday)
	for _, cell := range cells {
		if cell.Blank {
			continue
		}
		if cell.Day.Location() != loc {
			t.Fatalf("cell day location = %v, want %v", cell.Day.Location(), loc)
		}
		if cell.Day.Hour() != 0 || cell.Day.Minute() != 0 {
			t.Fatalf("cell day not at midnight: %v", cell.Day)
		}
	}
}

func TestMonthNavigation(t *testing.T) {
	// Jan 31 -> back -> forward must not slide through short months.
	ref := time.Date(2026, time.January, 31, 0, 0, 0, 0, time.UTC)

	prev := PrevMonth(ref)
	if prev.Year() != 2025 || prev.Month() != time.December || prev.Day() != 1 {
		t.Fatalf("PrevMonth(Jan 31) = %v, want 2025-12-01", prev)
	}

	next := NextMonth(ref)
	if next.Year() != 2026 || next.Month() != time.February || next.Day() != 1 {
		t.Fatalf("NextMonth(Jan 31) = %v, want 2026-02-01", next)
	}

	roundTrip := PrevMonth(NextMonth(ref))
	if !roundTrip.Equal(MonthStart(ref)) {
		t.Fatalf("PrevMonth(NextMonth(ref)) = %v, want %v", roundTrip, MonthStart(ref))
	}
}

func TestMonthEnd(t *testing.T) {
	tests := []struct {
		ref  time.Time
		want int
	}{
		{time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), 31},
		{time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC), 29},
	}
	for _, tt := range tests {
		if got := MonthEnd(tt.ref); got.Day() != tt.want {
			t.Errorf("MonthEnd(%v).Day() = %d, want %d", tt.ref, got.Day(), tt.want)
		}
	}
}
