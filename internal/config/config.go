package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Goal yearly scopes.
const (
	YearlyScopeLifetime     = "lifetime"
	YearlyScopeCalendarYear = "calendar_year"
)

type Config struct {
	// HTTP Server
	Port            string
	ShutdownTimeout time.Duration
	RateLimit       int // requests per minute per client IP

	// Logging
	LogLevel string

	// Backend selection
	DataBackend string

	// Database
	SQLiteDBPath string

	// Memory backend seed files
	SeedDir string

	// AMQP change relay (optional)
	AMQPURL      string
	AMQPExchange string

	// Google Sheets
	GoogleSpreadsheetID       string
	GoogleServiceAccountJSON  string
	GoogleServiceAccountFile  string
	GoogleExpensesSheetName   string
	GoogleIncomeSheetName     string
	GoogleGoalsSheetName      string
	GoogleCategoriesSheetName string
	GoogleComplaintsSheetName string

	// Report cache
	CacheSize       int
	CacheTTL        time.Duration
	CacheCleanEvery time.Duration

	// Goals
	GoalYearlyScope string

	// Budget advisor (optional; disabled without an API key)
	GeminiAPIKey   string
	AdvisorModel   string
	AdvisorTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8081"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RateLimit:       getEnvInt("RATE_LIMIT_PER_MINUTE", 60),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		DataBackend:  getEnv("DATA_BACKEND", "memory"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/budgetwise.db"),
		SeedDir:      getEnv("SEED_DIR", "data"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgetwise.changes"),

		GoogleSpreadsheetID:       getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleServiceAccountJSON:  getEnv("GOOGLE_SERVICE_ACCOUNT_JSON", ""),
		GoogleServiceAccountFile:  getEnv("GOOGLE_SERVICE_ACCOUNT_FILE", ""),
		GoogleExpensesSheetName:   getEnv("GOOGLE_EXPENSES_SHEET_NAME", "Expenses"),
		GoogleIncomeSheetName:     getEnv("GOOGLE_INCOME_SHEET_NAME", "Income"),
		GoogleGoalsSheetName:      getEnv("GOOGLE_GOALS_SHEET_NAME", "Goals"),
		GoogleCategoriesSheetName: getEnv("GOOGLE_CATEGORIES_SHEET_NAME", "Categories"),
		GoogleComplaintsSheetName: getEnv("GOOGLE_COMPLAINTS_SHEET_NAME", "Complaints"),

		CacheSize:       getEnvInt("REPORT_CACHE_SIZE", 256),
		CacheTTL:        getEnvDuration("REPORT_CACHE_TTL", 5*time.Minute),
		CacheCleanEvery: getEnvDuration("REPORT_CACHE_CLEANUP_INTERVAL", time.Minute),

		GoalYearlyScope: getEnv("GOAL_YEARLY_SCOPE", YearlyScopeLifetime),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		AdvisorModel:   getEnv("ADVISOR_MODEL", "gemini-2.5-flash"),
		AdvisorTimeout: getEnvDuration("ADVISOR_TIMEOUT", 30*time.Second),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of debug, info, warn, error", c.LogLevel))
	}

	// Validate data backend
	validBackends := []string{"memory", "sheets", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate Google Sheets configuration if backend is sheets
	if c.DataBackend == "sheets" {
		if c.GoogleSpreadsheetID == "" {
			errors = append(errors, "Google Spreadsheet ID is required when using sheets backend")
		}
		hasJSON := c.GoogleServiceAccountJSON != ""
		hasFile := c.GoogleServiceAccountFile != "" || os.Getenv("GOOGLE_APPLICATION_CREDENTIALS") != ""
		if !hasJSON && !hasFile {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE must be provided for sheets backend")
		}
		if c.GoogleServiceAccountFile != "" {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
	}

	if c.RateLimit < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimit))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid report cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid report cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheCleanEvery < time.Second {
		errors = append(errors, fmt.Sprintf("invalid report cache cleanup interval %v: must be at least 1 second", c.CacheCleanEvery))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if c.GoalYearlyScope != YearlyScopeLifetime && c.GoalYearlyScope != YearlyScopeCalendarYear {
		errors = append(errors, fmt.Sprintf("invalid goal yearly scope '%s': must be '%s' or '%s'", c.GoalYearlyScope, YearlyScopeLifetime, YearlyScopeCalendarYear))
	}

	if c.GeminiAPIKey != "" {
		if strings.TrimSpace(c.AdvisorModel) == "" {
			errors = append(errors, "advisor model cannot be empty when GEMINI_API_KEY is set")
		}
		if c.AdvisorTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("invalid advisor timeout %v: must be positive", c.AdvisorTimeout))
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
