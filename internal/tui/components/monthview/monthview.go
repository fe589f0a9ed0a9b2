package monthview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitctl/internal/calendar"
)

// MonthChangedMsg asks the root model to recompute the completion set for
// the new reference month.
type MonthChangedMsg struct {
	HabitID int
	Ref     time.Time
}

type CloseMsg struct{}

type KeyMap struct {
	Prev  key.Binding
	Next  key.Binding
	Close key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Prev: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h", "prev month"),
		),
		Next: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l", "next month"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("esc", "back"),
		),
	}
}

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	completedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)
)

type Model struct {
	habitID    int
	habitTitle string
	ref        time.Time
	today      time.Time
	weekStart  time.Weekday
	completed  map[int]bool
	keys       KeyMap
}

func New(weekStart time.Weekday) Model {
	return Model{
		weekStart: weekStart,
		completed: make(map[int]bool),
		keys:      DefaultKeyMap(),
	}
}

// SetHabit points the view at a habit and resets the reference month to the
// given day's month.
func (m *Model) SetHabit(habitID int, title string, today time.Time) {
	m.habitID = habitID
	m.habitTitle = title
	m.today = today
	m.ref = calendar.MonthStart(today)
}

// SetCompleted replaces the day-of-month completion set for the current
// reference month.
func (m *Model) SetCompleted(completed map[int]bool) {
	if completed == nil {
		completed = make(map[int]bool)
	}
	m.completed = completed
}

func (m Model) Ref() time.Time { return m.ref }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Prev):
			m.ref = calendar.PrevMonth(m.ref)
			return m, m.monthChanged()
		case key.Matches(msg, m.keys.Next):
			m.ref = calendar.NextMonth(m.ref)
			return m, m.monthChanged()
		case key.Matches(msg, m.keys.Close):
			return m, func() tea.Msg { return CloseMsg{} }
		}
	}
	return m, nil
}

func (m Model) monthChanged() tea.Cmd {
	id, ref := m.habitID, m.ref
	return func() tea.Msg { return MonthChangedMsg{HabitID: id, Ref: ref} }
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.habitTitle+" - "+m.ref.Format("January 2006")) + "\n\n")

	var header []string
	for i := 0; i < 7; i++ {
		day := time.Weekday((int(m.weekStart) + i) % 7)
		header = append(header, day.String()[:2])
	}
	b.WriteString(weekdayStyle.Render(" "+strings.Join(header, "   ")) + "\n")

	cells := calendar.MonthGrid(m.ref, m.weekStart)
	for i, cell := range cells {
		switch {
		case cell.Blank:
			b.WriteString("     ")
		case m.completed[cell.Day.Day()]:
			b.WriteString(completedStyle.Render(pad(cell.Day.Day())+"x") + " ")
		case m.isToday(cell.Day):
			b.WriteString(todayStyle.Render(pad(cell.Day.Day())+"·") + " ")
		default:
			b.WriteString(pad(cell.Day.Day()) + "  ")
		}
		if (i+1)%7 == 0 {
			b.WriteString("\n")
		}
	}
	if len(cells)%7 != 0 {
		b.WriteString("\n")
	}

	b.WriteString("\n  h/l: prev/next month · esc: back")
	return b.String()
}

func (m Model) isToday(day time.Time) bool {
	return day.Year() == m.today.Year() && day.Month() == m.today.Month() && day.Day() == m.today.Day()
}

func pad(day int) string {
	return fmt.Sprintf("%3d", day)
}
