package config

import (
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		Demo
		Stats
		Goals
		Sessions
		Tasks
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Path string
	}
	Demo struct {
		Enabled bool // Read-only demo instance: writes are blocked
	}
	Stats struct {
		ConnectTimeout time.Duration // Bounded wait for the store before falling back
		QueryTimeout   time.Duration // Bounded wait for the aggregate queries
		CacheTTL       time.Duration // How long a warmed snapshot stays fresh
		WarmEnabled    bool
		WarmSchedule   string // Cron format: "*/15 * * * *" = every 15 minutes
	}
	Goals struct {
		DailyPages  int
		WeeklyPages int
	}
	Sessions struct {
		Enabled       bool
		Lifetime      time.Duration
		SecureCookies bool   // Set to false for local dev without HTTPS
		CSRFSecret    string // Auto-generated if empty
	}
	Tasks struct {
		Enabled           bool
		Workers           int
		MaxRetries        int
		RetryDelay        time.Duration
		TaskTimeout       time.Duration
		ReleaseAfter      time.Duration
		CleanupInterval   time.Duration
		RetentionDuration time.Duration
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", 8192)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 2)
	v.SetDefault("database_path", DefaultDatabasePath)

	// Demo mode defaults
	v.SetDefault("demo_mode", false)

	// Statistics defaults
	v.SetDefault("stats_connect_timeout", "3s")
	v.SetDefault("stats_query_timeout", "5s")
	v.SetDefault("stats_cache_ttl", "5m")
	v.SetDefault("stats_warm_enabled", false)
	v.SetDefault("stats_warm_schedule", "*/15 * * * *")

	// Reading goal defaults
	v.SetDefault("goal_daily_pages", 30)
	v.SetDefault("goal_weekly_pages", 200)

	// Session defaults (saved filter presets, recent searches)
	v.SetDefault("sessions_enabled", true)
	v.SetDefault("session_lifetime", "720h") // 30 days
	v.SetDefault("secure_cookies", false)
	v.SetDefault("csrf_secret", "")

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 2)
	v.SetDefault("task_max_retries", 3)
	v.SetDefault("task_retry_delay", "1m")
	v.SetDefault("task_timeout", "5m")
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("task_retention_duration", "24h")

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Demo: Demo{
			Enabled: v.GetBool("DEMO_MODE"),
		},
		Stats: Stats{
			ConnectTimeout: v.GetDuration("STATS_CONNECT_TIMEOUT"),
			QueryTimeout:   v.GetDuration("STATS_QUERY_TIMEOUT"),
			CacheTTL:       v.GetDuration("STATS_CACHE_TTL"),
			WarmEnabled:    v.GetBool("STATS_WARM_ENABLED"),
			WarmSchedule:   v.GetString("STATS_WARM_SCHEDULE"),
		},
		Goals: Goals{
			DailyPages:  v.GetInt("GOAL_DAILY_PAGES"),
			WeeklyPages: v.GetInt("GOAL_WEEKLY_PAGES"),
		},
		Sessions: Sessions{
			Enabled:       v.GetBool("SESSIONS_ENABLED"),
			Lifetime:      v.GetDuration("SESSION_LIFETIME"),
			SecureCookies: v.GetBool("SECURE_COOKIES"),
			CSRFSecret:    v.GetString("CSRF_SECRET"),
		},
		Tasks: Tasks{
			Enabled:           v.GetBool("TASKS_ENABLED"),
			Workers:           v.GetInt("TASK_WORKERS"),
			MaxRetries:        v.GetInt("TASK_MAX_RETRIES"),
			RetryDelay:        v.GetDuration("TASK_RETRY_DELAY"),
			TaskTimeout:       v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:      v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval:   v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RetentionDuration: v.GetDuration("TASK_RETENTION_DURATION"),
		},
	}
}
