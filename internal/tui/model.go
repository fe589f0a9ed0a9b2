package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitctl/internal/api"
	"github.com/julianstephens/habitctl/internal/cache"
	"github.com/julianstephens/habitctl/internal/config"
	"github.com/julianstephens/habitctl/internal/constants"
	"github.com/julianstephens/habitctl/internal/models"
	"github.com/julianstephens/habitctl/internal/records"
	"github.com/julianstephens/habitctl/internal/session"
	"github.com/julianstephens/habitctl/internal/tui/components/habitlist"
	"github.com/julianstephens/habitctl/internal/tui/components/monthview"
)

// Deps bundles the shared services the TUI operates on.
type Deps struct {
	Config  *config.Config
	Session *session.Session
	API     *api.Client
	Records *records.Index
	Cache   *cache.Store
}

type LoginFormModel struct {
	Email         string
	Password      string
	CreateAccount bool
}

type RegisterFormModel struct {
	Email          string
	Password       string
	TelegramChatID string
}

type HabitFormModel struct {
	Title        string
	Description  string
	ReminderDate string
}

type Model struct {
	deps          Deps
	state         constants.SessionState
	keys          KeyMap
	help          help.Model
	habitList     habitlist.Model
	monthView     monthview.Model
	habits        []models.Habit
	form          *huh.Form
	loginForm     *LoginFormModel
	registerForm  *RegisterFormModel
	habitForm     *HabitFormModel
	habitToDelete int
	statusLine    string
	errLine       string
	loading       bool
	quitting      bool
	width         int
	height        int
}

func NewModel(deps Deps) Model {
	m := Model{
		deps:      deps,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		habitList: habitlist.New(nil, deps.Records, time.Now().In(deps.Config.Location()), 0, 0),
		monthView: monthview.New(deps.Config.WeekStartDay()),
	}

	if deps.Session.State() == session.StateAuthenticated {
		m.state = constants.StateHabits
		m.loading = true
	} else {
		m.enterLogin("")
	}

	return m
}

// enterLogin resets the model into the login form state with an optional
// notice shown above the form.
func (m *Model) enterLogin(notice string) {
	m.state = constants.StateLogin
	m.statusLine = notice
	m.errLine = ""
	m.loginForm = &LoginFormModel{}
	m.form = NewLoginForm(m.loginForm)
}

func (m *Model) enterRegister() {
	m.state = constants.StateRegister
	m.registerForm = &RegisterFormModel{Email: m.loginForm.Email}
	m.form = NewRegisterForm(m.registerForm)
}

func (m Model) Init() tea.Cmd {
	if m.state == constants.StateHabits {
		return loadHabits(m.deps)
	}
	return m.form.Init()
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	if m.state == constants.StateHabits {
		keys = append(keys, m.keys.Refresh, m.keys.Logout)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Quit, m.keys.Help},
		{m.keys.Refresh, m.keys.Logout},
	}
}
