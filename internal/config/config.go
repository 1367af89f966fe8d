// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Defaults
const (
	DefaultDBType                = "sqlite"
	DefaultDBDSN                 = "data/vocabdaily.db"
	DefaultPrepareAt             = "05:00"
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 22
	DefaultWorkerLimit           = 4
	DefaultRemindersPerSecond    = 20
)

// Config holds runtime settings
type Config struct {
	DBType   string // sqlite or postgres
	DBDSN    string
	BotToken string
	AdminIDs []int64

	EnableScheduler       bool
	PrepareAt             string // HH:MM in Timezone
	NotificationStartHour int
	NotificationEndHour   int
	Timezone              string

	LogLevel           string
	WorkerLimit        int
	RemindersPerSecond float64
}

// Load reads envFile when it exists and builds the config from the environment.
// Variables already set in the environment take precedence over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrapf(err, "load %s", envFile)
		}
	}

	cfg := &Config{
		DBType:                getString("DB_TYPE", DefaultDBType),
		DBDSN:                 getString("DB_DSN", DefaultDBDSN),
		BotToken:              os.Getenv("TELEGRAM_BOT_TOKEN"),
		PrepareAt:             getString("PREPARE_AT", DefaultPrepareAt),
		Timezone:              getString("TIMEZONE", "UTC"),
		LogLevel:              getString("LOG_LEVEL", "info"),
		EnableScheduler:       os.Getenv("ENABLE_SCHEDULER") != "false",
		NotificationStartHour: DefaultNotificationStartHour,
		NotificationEndHour:   DefaultNotificationEndHour,
		WorkerLimit:           DefaultWorkerLimit,
		RemindersPerSecond:    DefaultRemindersPerSecond,
	}

	var err error
	if cfg.NotificationStartHour, err = getInt("NOTIFICATION_START_HOUR", DefaultNotificationStartHour); err != nil {
		return nil, err
	}
	if cfg.NotificationEndHour, err = getInt("NOTIFICATION_END_HOUR", DefaultNotificationEndHour); err != nil {
		return nil, err
	}
	if cfg.WorkerLimit, err = getInt("WORKER_LIMIT", DefaultWorkerLimit); err != nil {
		return nil, err
	}
	if v := os.Getenv("REMINDERS_PER_SECOND"); v != "" {
		if cfg.RemindersPerSecond, err = strconv.ParseFloat(v, 64); err != nil {
			return nil, errors.Wrap(err, "REMINDERS_PER_SECOND")
		}
	}
	if cfg.AdminIDs, err = parseIDs(os.Getenv("ADMIN_USER_IDS")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges
func (c *Config) Validate() error {
	switch c.DBType {
	case "sqlite", "postgres":
	default:
		return errors.Errorf("unsupported DB_TYPE %q", c.DBType)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is empty")
	}
	if !validHour(c.NotificationStartHour) || !validHour(c.NotificationEndHour) {
		return errors.Errorf("notification hours %d-%d out of range 0-23", c.NotificationStartHour, c.NotificationEndHour)
	}
	if c.NotificationStartHour > c.NotificationEndHour {
		return errors.Errorf("notification start hour %d is after end hour %d", c.NotificationStartHour, c.NotificationEndHour)
	}
	if _, err := time.Parse("15:04", c.PrepareAt); err != nil {
		return errors.Wrapf(err, "PREPARE_AT %q", c.PrepareAt)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return errors.Wrapf(err, "TIMEZONE %q", c.Timezone)
	}
	if c.WorkerLimit < 1 {
		return errors.Errorf("WORKER_LIMIT must be positive, got %d", c.WorkerLimit)
	}
	if c.RemindersPerSecond <= 0 {
		return errors.Errorf("REMINDERS_PER_SECOND must be positive, got %v", c.RemindersPerSecond)
	}
	return nil
}

// Driver returns the database/sql driver name for DBType
func (c *Config) Driver() string {
	if c.DBType == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// Location returns the configured time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LogLevel onto a slog level, info when unknown
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// IsAdmin reports whether the Telegram user may run admin commands
func (c *Config) IsAdmin(id int64) bool {
	for _, admin := range c.AdminIDs {
		if admin == id {
			return true
		}
	}
	return false
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.Wrap(err, key)
	}
	return n, nil
}

func validHour(h int) bool {
	return h >= 0 && h <= 23
}

// parseIDs parses a comma separated list of Telegram user IDs
func parseIDs(s string) ([]int64, error) {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "ADMIN_USER_IDS entry %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
