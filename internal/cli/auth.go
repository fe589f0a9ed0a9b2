package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/session"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Account email."`
	Password string `help:"Password (prompted when omitted)."`
}

func (c *LoginCmd) Run(ctx *Context) error {
	password, err := ensurePassword(c.Password, "Password")
	if err != nil {
		return err
	}

	rctx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Session.Login(rctx, c.Email, password); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	fmt.Printf("Logged in as %s\n", c.Email)
	return nil
}

type RegisterCmd struct {
	Email          string `arg:"" help:"Account email."`
	Password       string `help:"Password (prompted when omitted)."`
	TelegramChatID string `help:"Optional Telegram chat ID for backend reminders."`
}

func (c *RegisterCmd) Run(ctx *Context) error {
	password, err := ensurePassword(c.Password, "Choose a password")
	if err != nil {
		return err
	}

	rctx, cancel := ctx.RequestContext()
	defer cancel()

	if err := ctx.Session.Register(rctx, c.Email, password, c.TelegramChatID); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	fmt.Printf("Account created, logged in as %s\n", c.Email)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *Context) error {
	ctx.Session.Logout()
	if err := ctx.Cache.Clear(); err != nil {
		logger.Warn("Could not clear offline cache", "error", err)
	}
	fmt.Println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *Context) error {
	user, ok := ctx.Session.Current()
	if !ok {
		fmt.Println("Not logged in.")
		return nil
	}

	fmt.Printf("Logged in as %s\n", user.Email)
	if exp, err := session.TokenExpiry(ctx.Session.Token()); err == nil {
		if exp.Before(time.Now()) {
			fmt.Printf("Credential expired at %s\n", exp.Local().Format(time.RFC1123))
		} else {
			fmt.Printf("Credential valid until %s\n", exp.Local().Format(time.RFC1123))
		}
	}
	return nil
}

func ensurePassword(flag, title string) (string, error) {
	if flag != "" {
		return flag, nil
	}

	var password string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				EchoMode(huh.EchoModePassword).
				Value(&password).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("password cannot be empty")
					}
					return nil
				}),
		),
	)
	if err := form.Run(); err != nil {
		return "", err
	}
	return password, nil
}
