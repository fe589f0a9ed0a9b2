package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/habitctl/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateLogin, constants.StateRegister, constants.StateAddHabit:
		if m.loading {
			content = docStyle.Render(spinnerStyle.Render("Signing in..."))
		} else {
			content = docStyle.Render(m.form.View())
		}
	case constants.StateHabits:
		if m.loading {
			content = docStyle.Render(spinnerStyle.Render("Loading habits..."))
		} else {
			content = docStyle.Render(m.habitList.View())
		}
	case constants.StateCalendar:
		content = docStyle.Render(m.monthView.View())
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render(constants.AppName)
	var who string
	if user, ok := m.deps.Session.Current(); ok {
		who = statusStyle.Render(user.Email)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, who)
}

func (m Model) viewStatus() string {
	if m.errLine != "" {
		return dangerStyle.Render("  " + m.errLine)
	}
	if m.statusLine != "" {
		return statusStyle.Render(m.statusLine)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	title := "Delete this habit?"
	if habit, ok := m.findHabit(m.habitToDelete); ok {
		title = "Delete " + habit.Title + "?"
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(title),
			warningStyle.Render("Its completion history goes with it."),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
