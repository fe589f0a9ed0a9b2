// Package calendar builds the month grid rendered by the per-habit
// completion views. The grid is a flat ordered sequence of cells meant to be
// laid out into seven columns: leading blanks align the first of the month to
// its weekday column.
package calendar

import "time"

// Cell is one slot of the month grid. Blank cells pad the first week; all
// other cells carry the midnight of their day in the reference location.
type Cell struct {
	Day   time.Time
	Blank bool
}

// MonthStart returns midnight of the first day of ref's month.
func MonthStart(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
}

// MonthEnd returns midnight of the last day of ref's month.
func MonthEnd(ref time.Time) time.Time {
	return MonthStart(ref).AddDate(0, 1, -1)
}

// MonthGrid produces the ordered cells for the month containing ref. The
// number of leading blanks equals the offset of the month's first weekday
// from weekStart, so the sequence renders correctly into a fixed 7-column
// grid beginning on weekStart.
func MonthGrid(ref time.Time, weekStart time.Weekday) []Cell {
	first := MonthStart(ref)
	last := MonthEnd(ref)

	blanks := (int(first.Weekday()) - int(weekStart) + 7) % 7
	cells := make([]Cell, 0, blanks+last.Day())
	for i := 0; i < blanks; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for d := 1; d <= last.Day(); d++ {
		cells = append(cells, Cell{Day: time.Date(ref.Year(), ref.Month(), d, 0, 0, 0, 0, ref.Location())})
	}
	return cells
}

// PrevMonth shifts ref back exactly one calendar month. The result is
// anchored to the first of the month so repeated navigation never slides
// through short months.
func PrevMonth(ref time.Time) time.Time {
	first := MonthStart(ref)
	return first.AddDate(0, -1, 0)
}

// NextMonth shifts ref forward exactly one calendar month.
func NextMonth(ref time.Time) time.Time {
	first := MonthStart(ref)
	return first.AddDate(0, 1, 0)
}
