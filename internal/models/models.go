package models

// User is the account identity as the backend reports it. The token endpoint
// returns no profile, so a freshly logged-in user carries ID 0 until the
// backend exposes a profile read.
type User struct {
	ID    int    `json:"id"`
	Email string `json:"email"`
}

// UserCreate is the registration payload.
type UserCreate struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	TelegramChatID string `json:"telegram_chat_id,omitempty"`
}

// Token is the bearer credential issued by POST /users/token.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type Habit struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	// ReminderDate is a calendar day (YYYY-MM-DD). Absent means the habit is
	// due today for status purposes.
	ReminderDate string `json:"reminder_date,omitempty"`
}

type HabitCreate struct {
	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	ReminderDate string `json:"reminder_date,omitempty"`
}

// Record is one completion event for a habit. Date is an ISO-8601 timestamp
// or a bare calendar day, depending on what the backend stored; callers must
// compare at day granularity only.
type Record struct {
	ID        int    `json:"id"`
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type RecordCreate struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}
