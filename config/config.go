package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config carries every knob the service reads from the environment.
// Zero-config startup works against local MongoDB and Redis; only the
// JWT secret has no default.
type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	JWTSecret     string
	Redis         RedisConfig
	Summary       SummaryConfig
	Throttle      ThrottleConfig
	Reminder      ReminderConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// SummaryConfig sets the cache time-to-live per period kind. Both
// default to 300 seconds.
type SummaryConfig struct {
	WeeklyTTL  time.Duration
	MonthlyTTL time.Duration
}

// ThrottleConfig sets the per-tier request quotas for a fixed window.
// Defaults: 10 per 24h for standard and anonymous callers, 1000 per
// 24h for premium accounts.
type ThrottleConfig struct {
	StandardDailyQuota int
	PremiumDailyQuota  int
	Window             time.Duration
}

// ReminderConfig drives the inactivity reminder job. The job is
// disabled when SMTPAddr is empty.
type ReminderConfig struct {
	Schedule      string
	InactiveAfter time.Duration
	SMTPAddr      string
	SMTPUsername  string
	SMTPPassword  string
	From          string
}

// Load reads the configuration from the environment, applying
// documented defaults for everything except JWT_SECRET.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	redisDB, err := envInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	standardQuota, err := envInt("THROTTLE_STANDARD_QUOTA", 10)
	if err != nil {
		return nil, err
	}
	premiumQuota, err := envInt("THROTTLE_PREMIUM_QUOTA", 1000)
	if err != nil {
		return nil, err
	}
	weeklyTTL, err := envDuration("WEEKLY_SUMMARY_CACHE_TTL", 300*time.Second)
	if err != nil {
		return nil, err
	}
	monthlyTTL, err := envDuration("MONTHLY_SUMMARY_CACHE_TTL", 300*time.Second)
	if err != nil {
		return nil, err
	}
	window, err := envDuration("THROTTLE_WINDOW", 24*time.Hour)
	if err != nil {
		return nil, err
	}
	inactiveAfter, err := envDuration("REMINDER_INACTIVE_AFTER", 7*24*time.Hour)
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:          envOr("PORT", "8081"),
		MongoURI:      envOr("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: envOr("MONGO_DATABASE", "goal_tracker"),
		JWTSecret:     secret,
		Redis: RedisConfig{
			Addr:     envOr("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Summary: SummaryConfig{
			WeeklyTTL:  weeklyTTL,
			MonthlyTTL: monthlyTTL,
		},
		Throttle: ThrottleConfig{
			StandardDailyQuota: standardQuota,
			PremiumDailyQuota:  premiumQuota,
			Window:             window,
		},
		Reminder: ReminderConfig{
			Schedule:      envOr("REMINDER_SCHEDULE", "@hourly"),
			InactiveAfter: inactiveAfter,
			SMTPAddr:      os.Getenv("SMTP_ADDR"),
			SMTPUsername:  os.Getenv("SMTP_USERNAME"),
			SMTPPassword:  os.Getenv("SMTP_PASSWORD"),
			From:          envOr("SMTP_FROM", "reminders@goaltracker.local"),
		},
	}, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	return n, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	// Accept bare seconds as well as Go duration strings.
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %v", key, err)
	}
	return d, nil
}
