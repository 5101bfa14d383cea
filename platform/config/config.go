// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// TelegramConfig provides settings for the Telegram Bot API client and
// MiniApp initData verification.
type TelegramConfig interface {
	GetBotToken() string
	GetTeamChatID() int64
	GetWebhookSecret() string
	IsTelegramEnabled() bool
}

// TeamConfig provides the allow-list of team member handles used to tag
// message authors. Injected into the evidence extractor at construction
// time so deployments and tests can override it.
type TeamConfig interface {
	GetTeamHandles() []string
}

// AIConfig provides settings for the Gemini refinement and summary calls.
type AIConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	GetAITimeout() time.Duration
	IsAIEnabled() bool
}

// SchedulerConfig provides settings for the asynq scheduler and worker.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetReminderCronSpec() string
}

// EvaluationConfig provides tunables for stage evaluation.
type EvaluationConfig interface {
	GetMessageFetchLimit() int
	GetReminderDayMarkers() []int
}

// Config holds all application configuration.
type Config struct {
	Env      string
	HTTPAddr string

	DatabaseURL string

	CORSAllowAll   bool
	CORSOrigins    []string
	CORSAllowCreds bool

	BotToken      string
	TeamChatID    int64
	WebhookSecret string

	TeamHandles []string

	GeminiAPIKey string
	GeminiModel  string
	AITimeout    time.Duration

	RedisURL         string
	RedisTLSInsecure bool
	AsynqQueueName   string
	AsynqConcurrency int
	ReminderCronSpec string

	MessageFetchLimit  int
	ReminderDayMarkers []int
}

func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

func (c *Config) GetBotToken() string      { return c.BotToken }
func (c *Config) GetTeamChatID() int64     { return c.TeamChatID }
func (c *Config) GetWebhookSecret() string { return c.WebhookSecret }
func (c *Config) IsTelegramEnabled() bool  { return c.BotToken != "" }

func (c *Config) GetTeamHandles() []string { return c.TeamHandles }

func (c *Config) GetGeminiAPIKey() string     { return c.GeminiAPIKey }
func (c *Config) GetGeminiModel() string      { return c.GeminiModel }
func (c *Config) GetAITimeout() time.Duration { return c.AITimeout }
func (c *Config) IsAIEnabled() bool           { return c.GeminiAPIKey != "" }

func (c *Config) GetRedisURL() string         { return c.RedisURL }
func (c *Config) GetRedisTLSInsecure() bool   { return c.RedisTLSInsecure }
func (c *Config) GetAsynqQueueName() string   { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int    { return c.AsynqConcurrency }
func (c *Config) GetReminderCronSpec() string { return c.ReminderCronSpec }

func (c *Config) GetMessageFetchLimit() int    { return c.MessageFetchLimit }
func (c *Config) GetReminderDayMarkers() []int { return c.ReminderDayMarkers }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                getEnv("APP_ENV", "development"),
		HTTPAddr:           getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSAllowAll:       corsAllowAll,
		CORSOrigins:        corsOrigins,
		CORSAllowCreds:     strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		BotToken:           getEnv("BOT_TOKEN", ""),
		TeamChatID:         mustInt64(getEnv("TEAM_CHAT_ID", "0")),
		WebhookSecret:      getEnv("TELEGRAM_WEBHOOK_SECRET", ""),
		TeamHandles:        splitCSV(getEnv("TEAM_HANDLES", "")),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		AITimeout:          mustDuration(getEnv("AI_TIMEOUT", "12s")),
		RedisURL:           getEnv("REDIS_URL", ""),
		RedisTLSInsecure:   strings.EqualFold(getEnv("REDIS_TLS_INSECURE", "false"), "true"),
		AsynqQueueName:     getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:   int(mustInt64(getEnv("ASYNQ_CONCURRENCY", "10"))),
		ReminderCronSpec:   getEnv("REMINDER_CRON", "0 9 * * *"),
		MessageFetchLimit:  int(mustInt64(getEnv("MESSAGE_FETCH_LIMIT", "200"))),
		ReminderDayMarkers: splitInts(getEnv("REMINDER_DAY_MARKERS", "1,3,5")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.MessageFetchLimit < 1 || cfg.MessageFetchLimit > 800 {
		return nil, fmt.Errorf("MESSAGE_FETCH_LIMIT must be between 1 and 800")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt64(value string) int64 {
	result, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func splitInts(value string) []int {
	parts := splitCSV(value)
	results := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		results = append(results, n)
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
