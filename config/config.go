package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fenilmodi00/planillas-dashboard/shared"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort         string
	APIBaseURL         string
	SessionBackend     string
	DatabaseURL        string
	RedisURI           string
	SessionTTLHours    string
	AlertTTLSeconds    string
	HTTPTimeoutSeconds string
	MaxRetryAttempts   string
	PDFRenderer        string
	CookieSecure       string
	ProblemThreshold   string
	LogLevel           string
	LogFormat          string
}

// Session backends accepted by SESSION_BACKEND.
const (
	SessionBackendMemory   = "memory"
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

// GetSessionTTL returns the fallback session lifetime used when the backend token carries no exp claim
func (c *Config) GetSessionTTL() time.Duration {
	return parseDuration("SESSION_TTL_HOURS", c.SessionTTLHours, time.Hour, 8*time.Hour)
}

// GetAlertTTL returns how long a flash alert stays visible
func (c *Config) GetAlertTTL() time.Duration {
	return parseDuration("ALERT_TTL_SECONDS", c.AlertTTLSeconds, time.Second, 5*time.Second)
}

// GetHTTPTimeout returns the outbound request timeout. Zero means the transport default.
func (c *Config) GetHTTPTimeout() time.Duration {
	if c.HTTPTimeoutSeconds == "" || c.HTTPTimeoutSeconds == "0" {
		return 0
	}
	return parseDuration("HTTP_TIMEOUT_SECONDS", c.HTTPTimeoutSeconds, time.Second, 0)
}

func (c *Config) GetMaxRetryAttempts() int {
	return parseInt("MAX_RETRY_ATTEMPTS", c.MaxRetryAttempts, 0)
}

func (c *Config) GetProblemThreshold() int {
	return parseInt("PROBLEM_THRESHOLD", c.ProblemThreshold, 10)
}

func (c *Config) IsCookieSecure() bool {
	secure, err := strconv.ParseBool(c.CookieSecure)
	return err == nil && secure
}

// UsesChromePDF reports whether .pdf exports are rendered by headless Chrome
// instead of handing the printable page to the browser.
func (c *Config) UsesChromePDF() bool {
	return strings.EqualFold(c.PDFRenderer, "chromedp")
}

// Unified builds the typed configuration consumed by the shared packages
func (c *Config) Unified() *shared.UnifiedConfiguration {
	unified := shared.NewDefaultUnifiedConfiguration()
	unified.Gateway.BaseURL = strings.TrimRight(c.APIBaseURL, "/")
	unified.Gateway.HTTPRequestTimeout = c.GetHTTPTimeout()
	unified.Gateway.MaxRetryAttempts = c.GetMaxRetryAttempts()
	unified.Session.Backend = strings.ToLower(c.SessionBackend)
	unified.Session.DefaultTTL = c.GetSessionTTL()
	unified.Session.AlertTTL = c.GetAlertTTL()
	unified.Session.CookieSecure = c.IsCookieSecure()
	unified.Dashboard.ProblemThreshold = c.GetProblemThreshold()
	unified.Export.UseChromePDF = c.UsesChromePDF()
	unified.Logging.Level = c.LogLevel
	unified.Logging.Format = c.LogFormat
	unified.ValidateAndApplyDefaults()
	return unified
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		logrus.Warn("Error loading .env file, using system environment variables")
	}

	return &Config{
		ServerPort:         getEnv("SERVER_PORT", "8080"),
		APIBaseURL:         getEnv("API_BASE_URL", "http://localhost:3000/api"),
		SessionBackend:     getEnv("SESSION_BACKEND", SessionBackendMemory),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		RedisURI:           getEnv("REDIS_URI", "localhost:6379"),
		SessionTTLHours:    getEnv("SESSION_TTL_HOURS", "8"),
		AlertTTLSeconds:    getEnv("ALERT_TTL_SECONDS", "5"),
		HTTPTimeoutSeconds: getEnv("HTTP_TIMEOUT_SECONDS", "0"),
		MaxRetryAttempts:   getEnv("MAX_RETRY_ATTEMPTS", "0"),
		PDFRenderer:        getEnv("PDF_RENDERER", "print"),
		CookieSecure:       getEnv("COOKIE_SECURE", "false"),
		ProblemThreshold:   getEnv("PROBLEM_THRESHOLD", "10"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseDuration(key, raw string, unit, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		logrus.Warnf("Invalid %s value: %s, using default %v", key, raw, fallback)
		return fallback
	}

	return time.Duration(n) * unit
}

func parseInt(key, raw string, fallback int) int {
	if raw == "" {
		return fallback
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		logrus.Warnf("Invalid %s value: %s, using default %d", key, raw, fallback)
		return fallback
	}

	return n
}
