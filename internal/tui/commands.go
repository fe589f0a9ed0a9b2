package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitctl/internal/api"
	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/models"
	"github.com/julianstephens/habitctl/internal/records"
)

type habitsLoadedMsg struct {
	habits []models.Habit
}

type toggledMsg struct {
	habitID   int
	completed bool
}

type habitCreatedMsg struct {
	habit models.Habit
}

type habitDeletedMsg struct {
	habitID int
}

type authDoneMsg struct{}

type sessionExpiredMsg struct{}

type errMsg struct {
	err error
}

// failure maps an error to the message the update loop expects. A 401 from
// any call lands in the login state rather than the error line.
func failure(err error) tea.Msg {
	if errors.Is(err, api.ErrUnauthorized) {
		return sessionExpiredMsg{}
	}
	return errMsg{err: err}
}

func loadHabits(deps Deps) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()

		habits, err := deps.API.ListHabits(ctx)
		if err != nil {
			return failure(err)
		}
		ids := make([]int, len(habits))
		for i, h := range habits {
			ids[i] = h.ID
		}
		if err := deps.Records.Hydrate(ctx, ids); err != nil {
			return failure(err)
		}

		if err := deps.Cache.ReplaceHabits(habits); err != nil {
			logger.Warn("failed to refresh habit cache", "error", err)
		} else {
			for _, h := range habits {
				if err := deps.Cache.ReplaceRecords(h.ID, deps.Records.Records(h.ID)); err != nil {
					logger.Warn("failed to refresh record cache", "habit", h.ID, "error", err)
				}
			}
		}

		return habitsLoadedMsg{habits: habits}
	}
}

func toggleHabit(deps Deps, habitID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()

		completed, err := deps.Records.ToggleToday(ctx, habitID)
		if err != nil {
			if errors.Is(err, records.ErrToggleInFlight) {
				// A toggle for this habit is still running; drop the repeat.
				return nil
			}
			return failure(err)
		}
		return toggledMsg{habitID: habitID, completed: completed}
	}
}

func createHabit(deps Deps, habit models.HabitCreate) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()

		created, err := deps.API.CreateHabit(ctx, habit)
		if err != nil {
			return failure(err)
		}
		return habitCreatedMsg{habit: created}
	}
}

func deleteHabit(deps Deps, habitID int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()

		if err := deps.API.DeleteHabit(ctx, habitID); err != nil {
			return failure(err)
		}
		deps.Records.Drop(habitID)
		return habitDeletedMsg{habitID: habitID}
	}
}

func login(deps Deps, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()

		if err := deps.Session.Login(ctx, email, password); err != nil {
			return errMsg{err: err}
		}
		return authDoneMsg{}
	}
}

func register(deps Deps, email, password, telegramChatID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.RequestTimeout)
		defer cancel()

		if err := deps.Session.Register(ctx, email, password, telegramChatID); err != nil {
			return errMsg{err: err}
		}
		return authDoneMsg{}
	}
}
