package models

import (
	"time"

	"github.com/julianstephens/habitctl/internal/dates"
)

// HabitStatus classifies a habit's reminder date relative to today.
type HabitStatus string

const (
	StatusDueToday HabitStatus = "due-today"
	StatusOverdue  HabitStatus = "overdue"
	StatusUpcoming HabitStatus = "upcoming"
)

// Status derives the habit's state for the given reference day. A missing or
// unparseable reminder date counts as due today. Comparison is by calendar
// day in today's location, never by time of day.
func Status(habit Habit, today time.Time) HabitStatus {
	reminder := today
	if habit.ReminderDate != "" {
		d, err := dates.Parse(habit.ReminderDate, today.Location())
		if err == nil {
			reminder = d
		}
	}

	switch {
	case dates.SameDay(reminder, today):
		return StatusDueToday
	case dates.Day(reminder).Before(dates.Day(today)):
		return StatusOverdue
	default:
		return StatusUpcoming
	}
}

// Label returns the human-readable form used by list views.
func (s HabitStatus) Label() string {
	switch s {
	case StatusDueToday:
		return "Due Today"
	case StatusOverdue:
		return "Overdue"
	case StatusUpcoming:
		return "Upcoming"
	default:
		return "Unknown"
	}
}
