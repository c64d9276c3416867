package shared

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// UnifiedConfiguration holds all configuration parameters for the dashboard
type UnifiedConfiguration struct {
	Gateway   GatewayConfig   `json:"gateway"`
	Database  DatabaseConfig  `json:"database"`
	Session   SessionConfig   `json:"session"`
	Dashboard DashboardConfig `json:"dashboard"`
	Export    ExportConfig    `json:"export"`
	Logging   LoggingConfig   `json:"logging"`
}

// GatewayConfig holds the outbound backend API configuration.
// A zero HTTPRequestTimeout leaves the transport defaults in place.
type GatewayConfig struct {
	BaseURL            string        `json:"base_url"`
	HTTPRequestTimeout time.Duration `json:"http_timeout"`
	MaxRetryAttempts   int           `json:"max_retries"`
	EnableMetrics      bool          `json:"enable_metrics"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	MaxOpenConns    int           `json:"max_open_conns"`
	MaxIdleConns    int           `json:"max_idle_conns"`
	ConnMaxLifetime time.Duration `json:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `json:"conn_max_idle_time"`
	PingTimeout     time.Duration `json:"ping_timeout"`
}

// SessionConfig holds the session store configuration
type SessionConfig struct {
	Backend         string        `json:"backend"`
	CookieName      string        `json:"cookie_name"`
	CookieSecure    bool          `json:"cookie_secure"`
	DefaultTTL      time.Duration `json:"default_ttl"`
	AlertTTL        time.Duration `json:"alert_ttl"`
	CleanupInterval time.Duration `json:"cleanup_interval"`
	MaxSessions     int           `json:"max_sessions"`
}

// DashboardConfig holds view-level settings
type DashboardConfig struct {
	ProblemThreshold    int `json:"problem_threshold"`
	ProblemPreviewLimit int `json:"problem_preview_limit"`
}

// ExportConfig holds export rendering settings
type ExportConfig struct {
	UseChromePDF bool          `json:"use_chrome_pdf"`
	PDFTimeout   time.Duration `json:"pdf_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Format      string `json:"format"`
	ServiceName string `json:"service_name"`
}

// NewDefaultUnifiedConfiguration returns production-ready default configuration
func NewDefaultUnifiedConfiguration() *UnifiedConfiguration {
	return &UnifiedConfiguration{
		Gateway: GatewayConfig{
			BaseURL:       "http://localhost:3000/api",
			EnableMetrics: true,
		},
		Database: DatabaseConfig{
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
			PingTimeout:     5 * time.Second,
		},
		Session: SessionConfig{
			Backend:         "memory",
			CookieName:      "planillas_session",
			DefaultTTL:      8 * time.Hour,
			AlertTTL:        5 * time.Second,
			CleanupInterval: 10 * time.Minute,
			MaxSessions:     10000,
		},
		Dashboard: DashboardConfig{
			ProblemThreshold:    10,
			ProblemPreviewLimit: 5,
		},
		Export: ExportConfig{
			PDFTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "json",
			ServiceName: "planillas-dashboard",
		},
	}
}

// ValidateAndApplyDefaults validates configuration and applies defaults for invalid values
func (c *UnifiedConfiguration) ValidateAndApplyDefaults() {
	logger := logrus.WithField("component", "UnifiedConfiguration")
	defaults := NewDefaultUnifiedConfiguration()

	if c.Gateway.BaseURL == "" {
		c.Gateway.BaseURL = defaults.Gateway.BaseURL
		logger.Debug("Applied default Gateway.BaseURL")
	}

	if c.Gateway.HTTPRequestTimeout < 0 {
		c.Gateway.HTTPRequestTimeout = 0
		logger.Debug("Applied default Gateway.HTTPRequestTimeout")
	}

	if c.Gateway.MaxRetryAttempts < 0 {
		c.Gateway.MaxRetryAttempts = 0
		logger.Debug("Applied default Gateway.MaxRetryAttempts")
	}

	if c.Database.MaxOpenConns <= 0 {
		c.Database.MaxOpenConns = defaults.Database.MaxOpenConns
		logger.Debug("Applied default Database.MaxOpenConns")
	}

	if c.Database.MaxIdleConns <= 0 {
		c.Database.MaxIdleConns = defaults.Database.MaxIdleConns
		logger.Debug("Applied default Database.MaxIdleConns")
	}

	if c.Database.ConnMaxLifetime <= 0 {
		c.Database.ConnMaxLifetime = defaults.Database.ConnMaxLifetime
		logger.Debug("Applied default Database.ConnMaxLifetime")
	}

	if c.Database.PingTimeout <= 0 {
		c.Database.PingTimeout = defaults.Database.PingTimeout
		logger.Debug("Applied default Database.PingTimeout")
	}

	switch c.Session.Backend {
	case "memory", "postgres", "redis":
	default:
		logger.WithField("backend", c.Session.Backend).Warn("Unknown session backend, falling back to memory")
		c.Session.Backend = defaults.Session.Backend
	}

	if c.Session.CookieName == "" {
		c.Session.CookieName = defaults.Session.CookieName
		logger.Debug("Applied default Session.CookieName")
	}

	if c.Session.DefaultTTL <= 0 {
		c.Session.DefaultTTL = defaults.Session.DefaultTTL
		logger.Debug("Applied default Session.DefaultTTL")
	}

	if c.Session.AlertTTL <= 0 {
		c.Session.AlertTTL = defaults.Session.AlertTTL
		logger.Debug("Applied default Session.AlertTTL")
	}

	if c.Session.CleanupInterval <= 0 {
		c.Session.CleanupInterval = defaults.Session.CleanupInterval
		logger.Debug("Applied default Session.CleanupInterval")
	}

	if c.Session.MaxSessions <= 0 {
		c.Session.MaxSessions = defaults.Session.MaxSessions
		logger.Debug("Applied default Session.MaxSessions")
	}

	if c.Dashboard.ProblemThreshold <= 0 {
		c.Dashboard.ProblemThreshold = defaults.Dashboard.ProblemThreshold
		logger.Debug("Applied default Dashboard.ProblemThreshold")
	}

	if c.Dashboard.ProblemPreviewLimit <= 0 {
		c.Dashboard.ProblemPreviewLimit = defaults.Dashboard.ProblemPreviewLimit
		logger.Debug("Applied default Dashboard.ProblemPreviewLimit")
	}

	if c.Export.PDFTimeout <= 0 {
		c.Export.PDFTimeout = defaults.Export.PDFTimeout
		logger.Debug("Applied default Export.PDFTimeout")
	}

	if c.Logging.Level == "" {
		c.Logging.Level = defaults.Logging.Level
		logger.Debug("Applied default Logging.Level")
	}

	if c.Logging.Format == "" {
		c.Logging.Format = defaults.Logging.Format
		logger.Debug("Applied default Logging.Format")
	}

	if c.Logging.ServiceName == "" {
		c.Logging.ServiceName = defaults.Logging.ServiceName
		logger.Debug("Applied default Logging.ServiceName")
	}
}

// ToJSON serializes the configuration to JSON
func (c *UnifiedConfiguration) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// LoadFromJSON deserializes configuration from JSON
func (c *UnifiedConfiguration) LoadFromJSON(jsonData []byte) error {
	if err := json.Unmarshal(jsonData, c); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	c.ValidateAndApplyDefaults()
	return nil
}
