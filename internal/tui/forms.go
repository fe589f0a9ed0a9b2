package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitctl/internal/dates"
)

func NewLoginForm(fm *LoginFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(requireEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(requireValue("password")),
			huh.NewConfirm().
				Title("Create a new account instead?").
				Value(&fm.CreateAccount),
		),
	)
}

func NewRegisterForm(fm *RegisterFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&fm.Email).
				Validate(requireEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&fm.Password).
				Validate(requireValue("password")),
			huh.NewInput().
				Title("Telegram Chat ID").
				Description("Optional, for reminder notifications").
				Value(&fm.TelegramChatID),
		),
	)
}

func NewHabitForm(fm *HabitFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&fm.Title).
				Validate(requireValue("title")),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Reminder date").
				Description("Optional, YYYY-MM-DD").
				Value(&fm.ReminderDate).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return nil
					}
					if _, err := dates.Parse(s, time.Local); err != nil {
						return fmt.Errorf("expected a date like 2026-01-31")
					}
					return nil
				}),
		),
	)
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func requireEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("that doesn't look like an email address")
	}
	return nil
}
