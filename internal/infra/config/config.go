package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultSQLitePath = "data/bot_database.db"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken  string
	DatabaseDriver string
	DatabaseURL    string
	OperatorIDs    []int64
	LogLevel       string
	Environment    string
	Location       *time.Location
	CronSpecDaily  string // Daily "homework due tomorrow" reminder
	Port           string
	PollTimeout    time.Duration
	BroadcastRate  float64 // Messages per second across all chats

	EphemeralDefaultDelay  time.Duration
	EphemeralWelcomeDelay  time.Duration
	EphemeralScheduleDelay time.Duration
	EphemeralContentDelay  time.Duration
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	if err = loadDatabase(cfg); err != nil {
		return nil, err
	}

	cfg.OperatorIDs, err = parseIDs(os.Getenv("OPERATOR_TELEGRAM_IDS"), os.Getenv("ADMIN_TELEGRAM_ID"))
	if err != nil {
		return nil, err
	}

	cfg.Location = time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		cfg.Location, err = time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid TIMEZONE: %w", err)
		}
	}

	cfg.CronSpecDaily = os.Getenv("CRON_SPEC_DAILY_REMINDER")
	if cfg.CronSpecDaily == "" {
		cfg.CronSpecDaily = "0 15 * * *" // Default: 3 PM daily
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "10000"
	}

	if cfg.PollTimeout, err = durationEnv("POLL_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}

	cfg.BroadcastRate = 25
	if v := os.Getenv("BROADCAST_RATE_PER_SECOND"); v != "" {
		cfg.BroadcastRate, err = strconv.ParseFloat(v, 64)
		if err != nil || cfg.BroadcastRate <= 0 {
			return nil, fmt.Errorf("invalid BROADCAST_RATE_PER_SECOND %q", v)
		}
	}

	if cfg.EphemeralDefaultDelay, err = durationEnv("EPHEMERAL_DEFAULT_DELAY", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.EphemeralWelcomeDelay, err = durationEnv("EPHEMERAL_WELCOME_DELAY", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.EphemeralScheduleDelay, err = durationEnv("EPHEMERAL_SCHEDULE_DELAY", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.EphemeralContentDelay, err = durationEnv("EPHEMERAL_CONTENT_DELAY", 120*time.Second); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase reads only the database and logging settings, for commands
// that never talk to Telegram.
func LoadDatabase() (*AppConfig, error) {
	_ = godotenv.Load()
	cfg := &AppConfig{}
	if err := loadDatabase(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadDatabase(cfg *AppConfig) error {
	cfg.DatabaseDriver = strings.ToLower(os.Getenv("DATABASE_DRIVER"))
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = DriverPostgres
	}
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	switch cfg.DatabaseDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is not set")
		}
	case DriverSQLite:
		if cfg.DatabaseURL == "" {
			cfg.DatabaseURL = defaultSQLitePath
		}
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DatabaseDriver)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return nil
}

// parseIDs reads a comma separated id list. legacy is a single id kept for
// older deployments and merged in when set.
func parseIDs(list, legacy string) ([]int64, error) {
	var ids []int64
	seen := make(map[int64]bool)
	for _, raw := range append(strings.Split(list, ","), legacy) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid operator telegram id %q: %w", raw, err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("OPERATOR_TELEGRAM_IDS is not set")
	}
	return ids, nil
}

// durationEnv accepts Go durations ("90s") or plain seconds ("90").
func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
