package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitctl/internal/constants"
	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/models"
	"github.com/julianstephens/habitctl/internal/tui/components/habitlist"
	"github.com/julianstephens/habitctl/internal/tui/components/monthview"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	// Handle Login State. Once the form has completed and the auth command is
	// in flight, messages fall through to the switch below so the async
	// result is not swallowed by the finished form.
	if m.state == constants.StateLogin && !m.loading {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.quitting = true
			return m, tea.Quit
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			if m.loginForm.CreateAccount {
				m.enterRegister()
				return m, m.form.Init()
			}
			m.loading = true
			m.errLine = ""
			return m, login(m.deps, strings.TrimSpace(m.loginForm.Email), m.loginForm.Password)
		case huh.StateAborted:
			m.quitting = true
			return m, tea.Quit
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Register State
	if m.state == constants.StateRegister && !m.loading {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.enterLogin("")
			return m, m.form.Init()
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			m.loading = true
			m.errLine = ""
			return m, register(m.deps,
				strings.TrimSpace(m.registerForm.Email),
				m.registerForm.Password,
				strings.TrimSpace(m.registerForm.TelegramChatID))
		case huh.StateAborted:
			m.enterLogin("")
			return m, m.form.Init()
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Add Habit State
	if m.state == constants.StateAddHabit {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.state = constants.StateHabits
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			m.loading = true
			m.state = constants.StateHabits
			return m, createHabit(m.deps, models.HabitCreate{
				Title:        strings.TrimSpace(m.habitForm.Title),
				Description:  strings.TrimSpace(m.habitForm.Description),
				ReminderDate: strings.TrimSpace(m.habitForm.ReminderDate),
			})
		case huh.StateAborted:
			m.state = constants.StateHabits
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Confirm Delete State
	if m.state == constants.StateConfirmDelete {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y":
				m.state = constants.StateHabits
				m.loading = true
				id := m.habitToDelete
				m.habitToDelete = 0
				return m, deleteHabit(m.deps, id)
			case "n", "N", "esc", "q":
				m.state = constants.StateHabits
				m.habitToDelete = 0
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		h, v := docStyle.GetFrameSize()
		listHeight := msg.Height - 4
		m.habitList.SetSize(msg.Width-h, listHeight-v)

	case habitlist.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.state = constants.StateAddHabit
		return m, m.form.Init()

	case habitlist.ToggleHabitMsg:
		return m, toggleHabit(m.deps, msg.ID)

	case habitlist.DeleteHabitMsg:
		m.habitToDelete = msg.ID
		m.state = constants.StateConfirmDelete
		return m, nil

	case habitlist.OpenCalendarMsg:
		habit, ok := m.findHabit(msg.ID)
		if !ok {
			return m, nil
		}
		m.monthView.SetHabit(habit.ID, habit.Title, m.today())
		m.monthView.SetCompleted(m.deps.Records.CompletedDays(habit.ID, m.monthView.Ref()))
		m.state = constants.StateCalendar
		return m, nil

	case monthview.MonthChangedMsg:
		m.monthView.SetCompleted(m.deps.Records.CompletedDays(msg.HabitID, msg.Ref))
		return m, nil

	case monthview.CloseMsg:
		m.state = constants.StateHabits
		return m, nil

	case habitsLoadedMsg:
		m.habits = msg.habits
		m.habitList.SetHabits(m.habits, m.deps.Records, m.today())
		m.loading = false
		m.errLine = ""
		return m, nil

	case toggledMsg:
		m.habitList.SetHabits(m.habits, m.deps.Records, m.today())
		if habit, ok := m.findHabit(msg.habitID); ok {
			if msg.completed {
				m.statusLine = fmt.Sprintf("Marked %q done for today", habit.Title)
			} else {
				m.statusLine = fmt.Sprintf("Unmarked %q for today", habit.Title)
			}
		}
		return m, nil

	case habitCreatedMsg:
		m.statusLine = fmt.Sprintf("Added %q", msg.habit.Title)
		m.loading = true
		return m, loadHabits(m.deps)

	case habitDeletedMsg:
		kept := m.habits[:0]
		for _, h := range m.habits {
			if h.ID != msg.habitID {
				kept = append(kept, h)
			}
		}
		m.habits = kept
		m.habitList.SetHabits(m.habits, m.deps.Records, m.today())
		m.loading = false
		m.statusLine = "Habit deleted"
		return m, nil

	case authDoneMsg:
		m.state = constants.StateHabits
		m.statusLine = ""
		m.errLine = ""
		m.loading = true
		return m, loadHabits(m.deps)

	case sessionExpiredMsg:
		m.loading = false
		m.enterLogin("Your session has expired, please log in again.")
		return m, m.form.Init()

	case errMsg:
		m.loading = false
		m.errLine = msg.err.Error()
		switch m.state {
		case constants.StateLogin:
			// A failed attempt leaves the form completed; rebuild it so the
			// user can retry without losing the email they typed.
			m.loginForm = &LoginFormModel{Email: m.loginForm.Email}
			m.form = NewLoginForm(m.loginForm)
			return m, m.form.Init()
		case constants.StateRegister:
			m.registerForm = &RegisterFormModel{
				Email:          m.registerForm.Email,
				TelegramChatID: m.registerForm.TelegramChatID,
			}
			m.form = NewRegisterForm(m.registerForm)
			return m, m.form.Init()
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit) && m.state == constants.StateCalendar:
			// Let the month view take q as back rather than quitting.
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh) && m.state == constants.StateHabits:
			m.loading = true
			return m, loadHabits(m.deps)
		case key.Matches(msg, m.keys.Logout) && m.state == constants.StateHabits:
			m.deps.Session.Logout()
			if err := m.deps.Cache.Clear(); err != nil {
				logger.Warn("failed to clear cache on logout", "error", err)
			}
			m.habits = nil
			m.enterLogin("Logged out.")
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateHabits:
		m.habitList, cmd = m.habitList.Update(msg)
		cmds = append(cmds, cmd)
	case constants.StateCalendar:
		m.monthView, cmd = m.monthView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) today() time.Time {
	return time.Now().In(m.deps.Config.Location())
}

func (m Model) findHabit(id int) (models.Habit, bool) {
	for _, h := range m.habits {
		if h.ID == id {
			return h, true
		}
	}
	return models.Habit{}, false
}
