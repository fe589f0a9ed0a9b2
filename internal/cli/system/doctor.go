package system

import (
	"fmt"
	"os"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitctl/internal/cli"
	"github.com/julianstephens/habitctl/internal/keyring"
	"github.com/julianstephens/habitctl/internal/session"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false

	// Check 1: Config dir writable
	if err := checkConfigDir(ctx); err != nil {
		fmt.Printf("❌ Config directory: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Config directory: OK (%s)\n", ctx.Config.ConfigDir())
	}

	// Check 2: OS keyring available
	if !keyring.IsAvailable() {
		fmt.Printf("❌ OS keyring: FAIL\n")
		fmt.Printf("   Error: keyring is not available; credentials cannot persist\n")
		hasError = true
	} else {
		fmt.Printf("✓ OS keyring: OK\n")
	}

	// Check 3: Stored credential and expiry
	if err := checkCredential(ctx); err != nil {
		fmt.Printf("⚠ Credential: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Credential: OK\n")
	}

	// Check 4: Backend reachable (only when logged in)
	if ctx.Session.State() == session.StateAuthenticated {
		if err := checkBackend(ctx); err != nil {
			fmt.Printf("❌ Backend reachable: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Backend reachable: OK (%s)\n", ctx.Config.BaseURL)
		}
	} else {
		fmt.Printf("⊘ Backend reachable: SKIPPED (not logged in)\n")
	}

	// Check 5: Offline cache readable
	if err := checkCache(ctx); err != nil {
		fmt.Printf("⚠ Offline cache: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Offline cache: OK\n")
	}

	// Check 6: Duplicate process holding the cache
	if err := checkDuplicateProcess(); err != nil {
		fmt.Printf("⚠ Duplicate process: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Duplicate process: OK\n")
	}

	fmt.Println()
	if hasError {
		return fmt.Errorf("diagnostics found problems")
	}
	fmt.Println("All checks passed.")
	return nil
}

func checkConfigDir(ctx *cli.Context) error {
	info, err := os.Stat(ctx.Config.ConfigDir())
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", ctx.Config.ConfigDir())
	}
	return nil
}

func checkCredential(ctx *cli.Context) error {
	if ctx.Session.State() != session.StateAuthenticated {
		return fmt.Errorf("no stored credential, run 'habitctl login'")
	}
	exp, err := session.TokenExpiry(ctx.Session.Token())
	if err != nil {
		// Opaque tokens are fine; expiry is just not reportable.
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("credential expired at %s, log in again", exp.Local().Format(time.RFC1123))
	}
	return nil
}

func checkBackend(ctx *cli.Context) error {
	rctx, cancel := ctx.RequestContext()
	defer cancel()
	_, err := ctx.API.ListHabits(rctx)
	return err
}

func checkCache(ctx *cli.Context) error {
	last, err := ctx.Cache.LastSync()
	if err != nil {
		return fmt.Errorf("cache unreadable: %w", err)
	}
	if last.IsZero() {
		return fmt.Errorf("cache never synced, run 'habitctl sync'")
	}
	return nil
}

// checkDuplicateProcess warns when another habitctl instance is running,
// since two writers can race on the offline cache file.
func checkDuplicateProcess() error {
	procs, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}

	self := os.Getpid()
	for _, p := range procs {
		if p.Pid() != self && p.Executable() == "habitctl" {
			return fmt.Errorf("another habitctl process is running (pid %d)", p.Pid())
		}
	}
	return nil
}
