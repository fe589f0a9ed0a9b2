package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitctl/internal/calendar"
	"github.com/julianstephens/habitctl/internal/dates"
	"github.com/julianstephens/habitctl/internal/models"
)

type CalendarCmd struct {
	Habit  int    `arg:"" help:"Habit ID to show the completion calendar for."`
	Month  string `help:"Month to show in YYYY-MM format (default: current month)."`
	Cached bool   `help:"Read from the offline cache instead of the backend."`
}

func (c *CalendarCmd) Run(ctx *Context) error {
	ref := ctx.Today()
	if c.Month != "" {
		parsed, err := time.ParseInLocation("2006-01", c.Month, ctx.Config.Location())
		if err != nil {
			return fmt.Errorf("invalid month: %s (expected YYYY-MM)", c.Month)
		}
		ref = parsed
	}

	var title string
	completed := make(map[int]bool)

	if c.Cached {
		habit, records, err := cachedHabitRecords(ctx, c.Habit)
		if err != nil {
			return err
		}
		title = habit.Title
		for _, rec := range records {
			t, err := dates.Parse(rec.Date, ctx.Config.Location())
			if err != nil {
				continue
			}
			if t.Year() == ref.Year() && t.Month() == ref.Month() {
				completed[t.Day()] = true
			}
		}
	} else {
		if err := ctx.RequireAuth(); err != nil {
			return err
		}
		habits, err := loadHabitsWithRecords(ctx)
		if err != nil {
			return err
		}
		found := false
		for _, h := range habits {
			if h.ID == c.Habit {
				title = h.Title
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("habit #%d not found", c.Habit)
		}
		completed = ctx.Records.CompletedDays(c.Habit, ref)
	}

	fmt.Printf("%s - %s\n\n", title, ref.Format("January 2006"))
	printMonth(ref, ctx.Config.WeekStartDay(), completed)
	return nil
}

func cachedHabitRecords(ctx *Context, habitID int) (models.Habit, []models.Record, error) {
	habits, err := ctx.Cache.Habits()
	if err != nil {
		return models.Habit{}, nil, fmt.Errorf("offline cache unavailable: %w", err)
	}
	for _, h := range habits {
		if h.ID == habitID {
			records, err := ctx.Cache.Records(habitID)
			if err != nil {
				return models.Habit{}, nil, err
			}
			return h, records, nil
		}
	}
	return models.Habit{}, nil, fmt.Errorf("habit #%d not in the offline cache, run 'habitctl sync'", habitID)
}

func printMonth(ref time.Time, weekStart time.Weekday, completed map[int]bool) {
	var header []string
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(weekStart) + i) % 7)
		header = append(header, day.String()[:2])
	}
	fmt.Println(" " + strings.Join(header, "   "))

	cells := calendar.MonthGrid(ref, weekStart)
	for i, cell := range cells {
		if cell.Blank {
			fmt.Print("     ")
		} else if completed[cell.Day.Day()] {
			fmt.Printf("%3dx ", cell.Day.Day())
		} else {
			fmt.Printf("%3d  ", cell.Day.Day())
		}
		if (i+1)%7 == 0 {
			fmt.Println()
		}
	}
	if len(cells)%7 != 0 {
		fmt.Println()
	}
}
