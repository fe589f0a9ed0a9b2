package cli

import "fmt"

type SyncCmd struct{}

func (c *SyncCmd) Run(ctx *Context) error {
	if err := ctx.RequireAuth(); err != nil {
		return err
	}

	habits, err := loadHabitsWithRecords(ctx)
	if err != nil {
		return err
	}

	total := 0
	for _, h := range habits {
		total += len(ctx.Records.Records(h.ID))
	}

	fmt.Printf("Synced %d habit(s) and %d record(s) to the offline cache.\n", len(habits), total)
	return nil
}
