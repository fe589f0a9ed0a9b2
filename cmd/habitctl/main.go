package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitctl/internal/api"
	"github.com/julianstephens/habitctl/internal/cache"
	"github.com/julianstephens/habitctl/internal/cli"
	"github.com/julianstephens/habitctl/internal/cli/system"
	"github.com/julianstephens/habitctl/internal/config"
	"github.com/julianstephens/habitctl/internal/constants"
	"github.com/julianstephens/habitctl/internal/errors"
	"github.com/julianstephens/habitctl/internal/keyring"
	"github.com/julianstephens/habitctl/internal/logger"
	"github.com/julianstephens/habitctl/internal/records"
	"github.com/julianstephens/habitctl/internal/session"
)

var CLI struct {
	Version kong.VersionFlag

	Login    cli.LoginCmd     `cmd:"" help:"Log in to the backend."`
	Register cli.RegisterCmd  `cmd:"" help:"Create an account and log in."`
	Logout   cli.LogoutCmd    `cmd:"" help:"Log out and clear stored credentials."`
	Whoami   cli.WhoamiCmd    `cmd:"" help:"Show the current session."`
	Habit    cli.HabitCmd     `cmd:"" help:"Manage habits."`
	Done     cli.DoneCmd      `cmd:"" help:"Toggle a habit's completion for today."`
	Today    cli.TodayCmd     `cmd:"" help:"Show today's checklist."`
	Calendar cli.CalendarCmd  `cmd:"" help:"Show a habit's monthly completion calendar."`
	Sync     cli.SyncCmd      `cmd:"" help:"Refresh the offline cache from the backend."`
	Doctor   system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui      system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Terminal client for a habit-tracking backend"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load()
	if err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		errors.Fatal(err)
	}

	creds := &keyring.Store{}

	sess := session.New(creds, nil)
	client := api.NewClient(cfg.BaseURL, sess,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithUnauthorizedHook(sess.Invalidate),
	)
	sess.SetAuthenticator(client)
	sess.Restore()

	store := cache.NewStore(cfg.CachePath)
	if err := store.Open(); err != nil {
		errors.Fatal(err)
	}
	defer store.Close()

	appCtx := &cli.Context{
		Config:  cfg,
		Session: sess,
		API:     client,
		Records: records.NewIndex(client, cfg.Location()),
		Cache:   store,
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		errors.Fatal(err)
	}
}
