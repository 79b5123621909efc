package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigFileEnv names an optional TOML, YAML or JSON file whose values sit
// between built-in defaults and environment variables.
const ConfigFileEnv = "DOMPET_CONFIG"

type Config struct {
	// HTTP Server
	Port string `mapstructure:"port"`

	// Storage
	DataBackend  string `mapstructure:"data_backend"`
	DataDir      string `mapstructure:"data_dir"`
	SQLiteDBPath string `mapstructure:"sqlite_db_path"`

	// AMQP
	AMQPURL      string `mapstructure:"amqp_url"`
	AMQPExchange string `mapstructure:"amqp_exchange"`
	AMQPQueue    string `mapstructure:"amqp_queue"`

	// AI extraction
	GeminiAPIKey string        `mapstructure:"gemini_api_key"`
	GeminiModel  string        `mapstructure:"gemini_model"`
	AITimeout    time.Duration `mapstructure:"ai_timeout"`

	// Budget alerts, in percent of target
	BudgetAlertThreshold float64 `mapstructure:"budget_alert_threshold"`

	// Google Sheets export
	GoogleSpreadsheetID      string `mapstructure:"google_spreadsheet_id"`
	GoogleSheetName          string `mapstructure:"google_sheet_name"`
	GoogleServiceAccountFile string `mapstructure:"google_service_account_file"`
	GoogleServiceAccountJSON string `mapstructure:"google_service_account_json"`

	// Cache
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	CacheSize int           `mapstructure:"cache_size"`

	LogLevel string `mapstructure:"log_level"`

	loadErr error
}

var defaults = map[string]any{
	"port":                        "8081",
	"data_backend":                "memory",
	"data_dir":                    "data",
	"sqlite_db_path":              "./data/dompet.db",
	"amqp_url":                    "",
	"amqp_exchange":               "dompet",
	"amqp_queue":                  "budget_alerts",
	"gemini_api_key":              "",
	"gemini_model":                "gemini-2.5-flash",
	"ai_timeout":                  "8s",
	"budget_alert_threshold":      80.0,
	"google_spreadsheet_id":       "",
	"google_sheet_name":           "Transaksi",
	"google_service_account_file": "",
	"google_service_account_json": "",
	"cache_ttl":                   "5m",
	"cache_size":                  100,
	"log_level":                   "info",
}

// Load resolves configuration from defaults, the optional file named by
// DOMPET_CONFIG, and environment variables (PORT, DATA_BACKEND, ...), in
// increasing priority. Problems are reported by Validate.
func Load() *Config {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path := os.Getenv(ConfigFileEnv); path != "" {
		v.SetConfigFile(path)
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{}
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			cfg.loadErr = fmt.Errorf("read config file: %w", err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		cfg.loadErr = fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg
}

// AIEnabled reports whether an AI extractor should be configured.
func (c *Config) AIEnabled() bool {
	return c.GeminiAPIKey != ""
}

// SheetsEnabled reports whether transactions should be exported to Google Sheets.
func (c *Config) SheetsEnabled() bool {
	return c.GoogleSpreadsheetID != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	if c.loadErr != nil {
		errors = append(errors, c.loadErr.Error())
	}

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	if !slices.Contains(validBackends, c.DataBackend) {
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
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.AIEnabled() && strings.TrimSpace(c.GeminiModel) == "" {
		errors = append(errors, "Gemini model cannot be empty when GEMINI_API_KEY is set")
	}
	if c.AITimeout < 500*time.Millisecond || c.AITimeout > 2*time.Minute {
		errors = append(errors, fmt.Sprintf("invalid AI timeout %v: must be between 500ms and 2m", c.AITimeout))
	}

	if c.BudgetAlertThreshold <= 0 || c.BudgetAlertThreshold > 100 {
		errors = append(errors, fmt.Sprintf("invalid budget alert threshold %v: must be in (0, 100]", c.BudgetAlertThreshold))
	}

	// Google Sheets export is optional; when enabled it needs credentials
	if c.SheetsEnabled() {
		if c.GoogleSheetName == "" {
			errors = append(errors, "Google Sheet name is required when GOOGLE_SPREADSHEET_ID is set")
		}
		hasFile := c.GoogleServiceAccountFile != ""
		hasJSON := c.GoogleServiceAccountJSON != ""
		if !hasFile && !hasJSON {
			errors = append(errors, "either GOOGLE_SERVICE_ACCOUNT_FILE or GOOGLE_SERVICE_ACCOUNT_JSON must be provided for sheets export")
		}
		if hasFile {
			if _, err := os.Stat(c.GoogleServiceAccountFile); os.IsNotExist(err) {
				errors = append(errors, fmt.Sprintf("Google service account file does not exist: %s", c.GoogleServiceAccountFile))
			}
		}
	}

	// Validate cache configuration
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	}
	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}
