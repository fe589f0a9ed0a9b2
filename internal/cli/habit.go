package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitctl/internal/dates"
	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/models"
)

type HabitCmd struct {
	Add    HabitAddCmd    `cmd:"" help:"Create a new habit."`
	List   HabitListCmd   `cmd:"" help:"List habits."`
	Delete HabitDeleteCmd `cmd:"" help:"Delete a habit."`
}

type HabitAddCmd struct {
	Title        string `arg:"" help:"Habit title."`
	Description  string `help:"Optional description."`
	ReminderDate string `help:"Reminder date in YYYY-MM-DD format."`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("habit title cannot be empty")
	}
	if c.ReminderDate != "" {
		if _, err := dates.Parse(c.ReminderDate, ctx.Config.Location()); err != nil {
			return fmt.Errorf("invalid reminder date: %s (expected YYYY-MM-DD)", c.ReminderDate)
		}
	}

	rctx, cancel := ctx.RequestContext()
	defer cancel()

	habit, err := ctx.API.CreateHabit(rctx, models.HabitCreate{
		Title:        c.Title,
		Description:  c.Description,
		ReminderDate: c.ReminderDate,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Added habit #%d: %s\n", habit.ID, habit.Title)
	return nil
}

type HabitListCmd struct {
	Cached bool `help:"Read from the offline cache instead of the backend."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	var habits []models.Habit
	var err error

	if c.Cached {
		habits, err = ctx.Cache.Habits()
		if err != nil {
			return fmt.Errorf("offline cache unavailable: %w", err)
		}
		if last, err := ctx.Cache.LastSync(); err == nil && !last.IsZero() {
			fmt.Printf("(cached, last synced %s)\n\n", last.Local().Format("2006-01-02 15:04"))
		}
	} else {
		if err := ctx.RequireAuth(); err != nil {
			return err
		}
		rctx, cancel := ctx.RequestContext()
		defer cancel()
		habits, err = ctx.API.ListHabits(rctx)
		if err != nil {
			return err
		}
	}

	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	for _, h := range habits {
		status := models.Status(h, today)
		reminder := h.ReminderDate
		if reminder == "" {
			reminder = "no date set"
		}
		fmt.Printf("#%-4d %-30s %-10s (%s)\n", h.ID, h.Title, status.Label(), reminder)
	}
	return nil
}

type HabitDeleteCmd struct {
	ID  int  `arg:"" help:"Habit ID to delete."`
	Yes bool `help:"Skip the confirmation prompt."`
}

func (c *HabitDeleteCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	if !c.Yes {
		fmt.Printf("Delete habit #%d and all of its records? [y/N] ", c.ID)
		var answer string
		fmt.Scanln(&answer)
		if !strings.EqualFold(strings.TrimSpace(answer), "y") {
			fmt.Println("Aborted.")
			return nil
		}
	}

	rctx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.API.DeleteHabit(rctx, c.ID); err != nil {
		return err
	}
	ctx.Records.Drop(c.ID)

	fmt.Printf("Deleted habit #%d\n", c.ID)
	return nil
}

// loadHabitsWithRecords fetches the habit list and hydrates the record index
// for all of them, then refreshes the offline mirror.
func loadHabitsWithRecords(ctx *Context) ([]models.Habit, error) {
	rctx, cancel := ctx.RequestContext()
	defer cancel()

	habits, err := ctx.API.ListHabits(rctx)
	if err != nil {
		return nil, err
	}

	ids := make([]int, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	if err := ctx.Records.Hydrate(rctx, ids); err != nil {
		return nil, err
	}

	if err := ctx.RefreshCache(habits); err != nil {
		logger.Warn("Could not refresh offline cache", "error", err)
	}
	return habits, nil
}
