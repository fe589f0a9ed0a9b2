package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/habitctl/internal/api"
	"github.com/julianstephens/habitctl/internal/cache"
	"github.com/julianstephens/habitctl/internal/config"
	"github.com/julianstephens/habitctl/internal/models"
	"github.com/julianstephens/habitctl/internal/records"
	"github.com/julianstephens/habitctl/internal/session"
)

// Context is the dependency bundle injected into every command.
type Context struct {
	Config  *config.Config
	Session *session.Session
	API     *api.Client
	Records *records.Index
	Cache   *cache.Store
}

// RequireAuth errors out early for commands that need a logged-in session,
// instead of letting the backend reject the call.
func (c *Context) RequireAuth() error {
	if c.Session.State() != session.StateAuthenticated {
		return fmt.Errorf("not logged in, run 'habitctl login' first")
	}
	return nil
}

// RequestContext scopes one backend interaction. The timeout covers the
// whole command, including fan-out fetches.
func (c *Context) RequestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), c.Config.RequestTimeout)
}

// Today is the current calendar day in the configured timezone.
func (c *Context) Today() time.Time {
	return time.Now().In(c.Config.Location())
}

// RefreshCache mirrors the given habits and their already-hydrated records
// into the offline cache. The cache is a convenience, so callers treat a
// failure as a warning, not an error.
func (c *Context) RefreshCache(habits []models.Habit) error {
	if err := c.Cache.ReplaceHabits(habits); err != nil {
		return err
	}
	for _, h := range habits {
		if err := c.Cache.ReplaceRecords(h.ID, c.Records.Records(h.ID)); err != nil {
			return err
		}
	}
	return c.Cache.SetLastSync(time.Now())
}
