package models

import (
	"strconv"
	"time"
)

// Learner represents a Telegram user practicing vocabulary
type Learner struct {
	ID                  int64     `json:"id" db:"telegram_id"` // Telegram User ID
	Username            string    `json:"username" db:"username"`
	FirstName           string    `json:"first_name" db:"first_name"`
	NotificationEnabled bool      `json:"notification_enabled" db:"notification_enabled"`
	NotificationHour    int       `json:"notification_hour" db:"notification_hour"` // Hour of day for reminders (0-23)
	CreatedAt           time.Time `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time `json:"updated_at" db:"updated_at"`
}

// Owner returns the owner key used for the learner's practice sets
func (l *Learner) Owner() string {
	return OwnerFromTelegramID(l.ID)
}

// OwnerFromTelegramID converts a Telegram user ID into an owner key
func OwnerFromTelegramID(id int64) string {
	return strconv.FormatInt(id, 10)
}
