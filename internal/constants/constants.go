package constants

import "time"

// SessionState represents the current screen of the TUI application
type SessionState int

const (
	AppName = "habitctl"
	Version = "v0.1.0"

	// DateFormat is the standard calendar-day format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Keyring entry names. The credential and the serialized user profile are
	// the only two pieces of client state persisted across runs.
	KeyringTokenEntry = "api-token"
	KeyringUserEntry  = "user-profile"

	// DefaultBaseURL points at a locally running backend.
	DefaultBaseURL = "http://localhost:8000/api"

	// DefaultRequestTimeout bounds every backend call.
	DefaultRequestTimeout = 15 * time.Second

	// ConfigFileName relative to the user config dir.
	ConfigFileName = "config.yml"
	CacheFileName  = "cache.db"
)

// Session States (TUI screens)
const (
	StateLogin SessionState = iota
	StateRegister
	StateHabits
	StateCalendar
	StateAddHabit
	StateConfirmDelete
)
