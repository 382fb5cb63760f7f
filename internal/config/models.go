package config

import (
	"os"
	"path/filepath"
	"strings"
)

// APIConfig represents the configuration for the prediction API
type APIConfig struct {
	BaseURL string
	Timeout string
}

// AuthConfig represents the configuration for the identity provider
type AuthConfig struct {
	BaseURL string
	Timeout string
}

// HistoryConfig represents the configuration for the history repository
type HistoryConfig struct {
	Type             string
	Enabled          bool
	Retention        string
	CleanupFrequency string
	BadgerPath       string
	SQLitePath       string
	MySQLDSN         string
}

// GetAPI returns the prediction API configuration
func (c *Config) GetAPI() APIConfig {
	return APIConfig{
		BaseURL: c.GetString("api.base_url"),
		Timeout: c.GetString("api.timeout"),
	}
}

// GetAuth returns the identity provider configuration
func (c *Config) GetAuth() AuthConfig {
	return AuthConfig{
		BaseURL: c.GetString("auth.base_url"),
		Timeout: c.GetString("auth.timeout"),
	}
}

// GetHistory returns the history repository configuration with $HOME
// expanded in filesystem paths
func (c *Config) GetHistory() HistoryConfig {
	return HistoryConfig{
		Type:             c.GetString("history.type"),
		Enabled:          c.GetBool("history.enabled"),
		Retention:        c.GetString("history.retention"),
		CleanupFrequency: c.GetString("history.cleanup_frequency"),
		BadgerPath:       expandHome(c.GetString("history.badger_path")),
		SQLitePath:       expandHome(c.GetString("history.sqlite_path")),
		MySQLDSN:         c.GetString("history.mysql_dsn"),
	}
}

// expandHome substitutes a leading $HOME with the user's home directory.
func expandHome(path string) string {
	if !strings.HasPrefix(path, "$HOME") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "$HOME"))
}
