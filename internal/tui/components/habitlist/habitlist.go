package habitlist

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitctl/internal/models"
)

type AddHabitMsg struct{}

type ToggleHabitMsg struct {
	ID int
}

type DeleteHabitMsg struct {
	ID int
}

type OpenCalendarMsg struct {
	ID int
}

type Item struct {
	Habit       models.Habit
	IsCompleted bool
	Status      models.HabitStatus
}

func (i Item) Title() string {
	if i.IsCompleted {
		return "✓ " + i.Habit.Title
	}
	return "○ " + i.Habit.Title
}

func (i Item) Description() string {
	desc := i.Status.Label()
	if i.Habit.ReminderDate != "" {
		desc += " · " + i.Habit.ReminderDate
	}
	if i.Habit.Description != "" {
		desc += " · " + i.Habit.Description
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Title }

type KeyMap struct {
	Add      key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Calendar key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("m", " "),
			key.WithHelp("m", "toggle done"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Calendar: key.NewBinding(
			key.WithKeys("c", "enter"),
			key.WithHelp("c", "calendar"),
		),
	}
}

// Completions reports whether a habit already has a record today.
type Completions interface {
	IsCompletedToday(habitID int) bool
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(habits []models.Habit, completions Completions, today time.Time, width, height int) Model {
	l := list.New(buildItems(habits, completions, today), list.NewDefaultDelegate(), width, height)
	l.Title = "Habits"
	l.SetShowTitle(false)
	l.SetShowHelp(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Calendar}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Calendar}
	}

	return Model{list: l, keys: keys}
}

func (m *Model) SetHabits(habits []models.Habit, completions Completions, today time.Time) {
	m.list.SetItems(buildItems(habits, completions, today))
}

func buildItems(habits []models.Habit, completions Completions, today time.Time) []list.Item {
	items := make([]list.Item, len(habits))
	for i, h := range habits {
		items[i] = Item{
			Habit:       h,
			IsCompleted: completions.IsCompletedToday(h.ID),
			Status:      models.Status(h, today),
		}
	}
	return items
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddHabitMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ToggleHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteHabitMsg{ID: i.Habit.ID} }
			}
		case key.Matches(msg, m.keys.Calendar):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return OpenCalendarMsg{ID: i.Habit.ID} }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No habits yet.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
