// Package records keeps the in-memory index of completion records per habit,
// mirroring the backend. All mutation goes through the backend first; local
// state is updated only after the remote call resolves, so the index never
// shows a state the server did not reach.
package records

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/habitctl/internal/dates"
	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/models"
)

// ErrToggleInFlight is returned when a toggle for a habit is requested while
// the previous one has not resolved. Guards the read-modify-write against
// duplicate-record races from rapid repeated toggles.
var ErrToggleInFlight = errors.New("a toggle for this habit is already in flight")

// API is the slice of the gateway client the index needs.
type API interface {
	ListRecords(ctx context.Context, habitID int) ([]models.Record, error)
	CreateRecord(ctx context.Context, habitID int, record models.RecordCreate) (models.Record, error)
	DeleteRecord(ctx context.Context, habitID, recordID int) error
}

// Index maps habit IDs to their completion records in insertion order.
type Index struct {
	mu       sync.Mutex
	byHabit  map[int][]models.Record
	inflight map[int]bool
	api      API
	loc      *time.Location
	now      func() time.Time
}

func NewIndex(api API, loc *time.Location) *Index {
	if loc == nil {
		loc = time.Local
	}
	return &Index{
		byHabit:  make(map[int][]models.Record),
		inflight: make(map[int]bool),
		api:      api,
		loc:      loc,
		now:      time.Now,
	}
}

// Hydrate fetches records for every given habit concurrently. Habits are
// independent keys, so the fetches have no ordering dependency; any single
// failure aborts the whole load and leaves the index unchanged.
func (x *Index) Hydrate(ctx context.Context, habitIDs []int) error {
	fetched := make([][]models.Record, len(habitIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range habitIDs {
		g.Go(func() error {
			recs, err := x.api.ListRecords(gctx, id)
			if err != nil {
				return err
			}
			fetched[i] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.byHabit = make(map[int][]models.Record, len(habitIDs))
	for i, id := range habitIDs {
		x.byHabit[id] = fetched[i]
	}
	return nil
}

// Records returns a copy of the habit's record list.
func (x *Index) Records(habitID int) []models.Record {
	x.mu.Lock()
	defer x.mu.Unlock()
	recs := x.byHabit[habitID]
	out := make([]models.Record, len(recs))
	copy(out, recs)
	return out
}

// Drop forgets a habit's records, used after the habit itself is deleted.
func (x *Index) Drop(habitID int) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.byHabit, habitID)
}

// IsCompletedToday reports whether the habit has at least one record dated
// today. More than one record on a day still counts as a single completion.
func (x *Index) IsCompletedToday(habitID int) bool {
	return x.HasRecordOn(habitID, x.today())
}

// HasRecordOn reports whether some record for the habit falls on the given
// calendar day, ignoring time of day.
func (x *Index) HasRecordOn(habitID int, day time.Time) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, rec := range x.byHabit[habitID] {
		t, err := dates.Parse(rec.Date, x.loc)
		if err != nil {
			logger.Warn("Skipping record with unreadable date", "habit_id", habitID, "record_id", rec.ID, "date", rec.Date)
			continue
		}
		if dates.SameDay(day.In(x.loc), t) {
			return true
		}
	}
	return false
}

// ToggleToday flips today's completion for the habit. If any record exists
// for today, all of them are deleted (so server-side duplicates heal);
// otherwise a record stamped with the current time is created and the
// server's copy appended. At most one toggle per habit may be in flight.
// Returns the resulting completion state.
func (x *Index) ToggleToday(ctx context.Context, habitID int) (bool, error) {
	x.mu.Lock()
	if x.inflight[habitID] {
		x.mu.Unlock()
		return false, ErrToggleInFlight
	}
	x.inflight[habitID] = true
	todays := x.todayRecordsLocked(habitID)
	x.mu.Unlock()

	defer func() {
		x.mu.Lock()
		delete(x.inflight, habitID)
		x.mu.Unlock()
	}()

	if len(todays) > 0 {
		deleted := make(map[int]bool, len(todays))
		for _, rec := range todays {
			if err := x.api.DeleteRecord(ctx, habitID, rec.ID); err != nil {
				x.removeRecords(habitID, deleted)
				return true, err
			}
			deleted[rec.ID] = true
		}
		x.removeRecords(habitID, deleted)
		return false, nil
	}

	created, err := x.api.CreateRecord(ctx, habitID, models.RecordCreate{
		Date:      x.now().In(x.loc).Format(time.RFC3339),
		Completed: true,
	})
	if err != nil {
		return false, err
	}

	x.mu.Lock()
	x.byHabit[habitID] = append(x.byHabit[habitID], created)
	x.mu.Unlock()
	return true, nil
}

// CompletedDays returns the habit's completion days within the given month
// as a set keyed by day-of-month, for calendar rendering.
func (x *Index) CompletedDays(habitID int, monthRef time.Time) map[int]bool {
	x.mu.Lock()
	defer x.mu.Unlock()

	out := make(map[int]bool)
	for _, rec := range x.byHabit[habitID] {
		t, err := dates.Parse(rec.Date, x.loc)
		if err != nil {
			continue
		}
		if t.Year() == monthRef.Year() && t.Month() == monthRef.Month() {
			out[t.Day()] = true
		}
	}
	return out
}

func (x *Index) today() time.Time {
	return x.now().In(x.loc)
}

func (x *Index) todayRecordsLocked(habitID int) []models.Record {
	today := x.today()
	var out []models.Record
	for _, rec := range x.byHabit[habitID] {
		t, err := dates.Parse(rec.Date, x.loc)
		if err != nil {
			continue
		}
		if dates.SameDay(today, t) {
			out = append(out, rec)
		}
	}
	return out
}

func (x *Index) removeRecords(habitID int, ids map[int]bool) {
	if len(ids) == 0 {
		return
	}
	x.mu.Lock()
	defer x.mu.Unlock()
	recs := x.byHabit[habitID]
	kept := recs[:0]
	for _, rec := range recs {
		if !ids[rec.ID] {
			kept = append(kept, rec)
		}
	}
	x.byHabit[habitID] = kept
}
