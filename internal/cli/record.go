package cli

import (
	"fmt"

	"github.com/julianstephens/habitctl/internal/dates"
	"github.com/julianstephens/habitctl/internal/models"
)

type DoneCmd struct {
	HabitID int `arg:"" help:"Habit ID to toggle completion for."`
}

func (c *DoneCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	rctx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Records.Hydrate(rctx, []int{c.HabitID}); err != nil {
		return err
	}

	completed, err := ctx.Records.ToggleToday(rctx, c.HabitID)
	if err != nil {
		return err
	}

	day := dates.Format(ctx.Today())
	if completed {
		fmt.Printf("Marked habit #%d done for %s\n", c.HabitID, day)
	} else {
		fmt.Printf("Unmarked habit #%d for %s\n", c.HabitID, day)
	}
	return nil
}

type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	habits, err := loadHabitsWithRecords(ctx)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	today := ctx.Today()
	fmt.Printf("Habits for %s:\n\n", dates.Format(today))

	completed := 0
	for _, h := range habits {
		mark := "[ ]"
		if ctx.Records.IsCompletedToday(h.ID) {
			mark = "[x]"
			completed++
		}
		fmt.Printf("%s #%-4d %-30s %s\n", mark, h.ID, h.Title, models.Status(h, today).Label())
	}

	fmt.Printf("\nCompleted: %d/%d\n", completed, len(habits))
	return nil
}
