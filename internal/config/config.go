// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Config holds the application configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	Data    DataConfig
	Auth    AuthConfig
	Locale  LocaleConfig
	Tasks   TasksConfig
	Desktop DesktopConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// DataConfig holds on-device storage configuration.
// The record store, session cache, search index, and token key all live
// under BasePath.
type DataConfig struct {
	BasePath string
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// AccessTokenDuration is the lifetime of issued tokens, e.g. 24h
	AccessTokenDuration time.Duration
	// LoginRatePerMinute caps login attempts per username
	LoginRatePerMinute int
}

// LocaleConfig holds language configuration for rendered text.
type LocaleConfig struct {
	// Language is a BCP 47 tag; ru and en are supported, others fall
	// back via language matching.
	Language string
}

// TasksConfig holds periodic task intervals.
type TasksConfig struct {
	ActivityRefreshInterval  time.Duration // default 60s
	NotificationPollInterval time.Duration // default 30s, authenticated only
	AutosaveInterval         time.Duration // default 60s
	ActiveUsersInterval      time.Duration // default 120s
}

// DesktopConfig holds desktop integration configuration.
type DesktopConfig struct {
	// Notifications mirrors unread notifications to the session D-Bus
	// when one is available (default: true)
	Notifications bool
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	// Define command-line flags.
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	dataPath := flag.String("data-path", "", "Base path for on-device storage")
	language := flag.String("language", "", "UI language (BCP 47 tag, e.g. ru, en)")

	// Auth flags
	accessTokenDuration := flag.String("access-token-duration", "", "Access token lifetime (e.g., 24h)")
	loginRate := flag.String("login-rate", "", "Max login attempts per minute per username (default: 5)")

	// Task interval flags
	activityInterval := flag.String("activity-interval", "", "Activity timestamp refresh interval (default: 60s)")
	notificationInterval := flag.String("notification-interval", "", "Notification poll interval (default: 30s)")
	autosaveInterval := flag.String("autosave-interval", "", "Settings/draft autosave interval (default: 60s)")
	activeUsersInterval := flag.String("active-users-interval", "", "Active user recompute interval (default: 120s)")

	desktopNotifications := flag.String("desktop-notifications", "", "Mirror notifications to the desktop via D-Bus (default: true)")

	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	// Build config with proper precedence.
	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Data: DataConfig{
			BasePath: getConfigValue(*dataPath, "DATA_PATH", ""),
		},
		Auth: AuthConfig{
			// The PASETO signing key is loaded from the data directory
			// by auth.LoadOrGenerateKey, not configured here.
			LoginRatePerMinute: getIntConfigValue(*loginRate, "LOGIN_RATE_PER_MINUTE", 5),
		},
		Locale: LocaleConfig{
			Language: getConfigValue(*language, "LANGUAGE", "ru"),
		},
		Desktop: DesktopConfig{
			Notifications: getBoolConfigValue(*desktopNotifications, "DESKTOP_NOTIFICATIONS", true),
		},
	}

	// Parse auth durations.
	accessDurationStr := getConfigValue(*accessTokenDuration, "ACCESS_TOKEN_DURATION", "24h")
	accessDuration, err := time.ParseDuration(accessDurationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid access token duration %q: %w", accessDurationStr, err)
	}
	cfg.Auth.AccessTokenDuration = accessDuration

	// Parse task intervals.
	cfg.Tasks.ActivityRefreshInterval, err = parseInterval(*activityInterval, "ACTIVITY_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	cfg.Tasks.NotificationPollInterval, err = parseInterval(*notificationInterval, "NOTIFICATION_INTERVAL", "30s")
	if err != nil {
		return nil, err
	}
	cfg.Tasks.AutosaveInterval, err = parseInterval(*autosaveInterval, "AUTOSAVE_INTERVAL", "60s")
	if err != nil {
		return nil, err
	}
	cfg.Tasks.ActiveUsersInterval, err = parseInterval(*activeUsersInterval, "ACTIVE_USERS_INTERVAL", "120s")
	if err != nil {
		return nil, err
	}

	// Expand and validate the data path.
	if err := cfg.expandDataPath(); err != nil {
		return nil, fmt.Errorf("invalid data path: %w", err)
	}

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Data.BasePath == "" {
		return errors.New("data base path cannot be empty after expansion")
	}

	if c.Auth.LoginRatePerMinute <= 0 {
		return fmt.Errorf("invalid login rate: %d (must be positive)", c.Auth.LoginRatePerMinute)
	}

	for name, interval := range map[string]time.Duration{
		"activity-interval":     c.Tasks.ActivityRefreshInterval,
		"notification-interval": c.Tasks.NotificationPollInterval,
		"autosave-interval":     c.Tasks.AutosaveInterval,
		"active-users-interval": c.Tasks.ActiveUsersInterval,
	} {
		if interval < time.Second {
			return fmt.Errorf("invalid %s: %s (must be at least 1s)", name, interval)
		}
	}

	return nil
}

// parseInterval resolves a duration from flag/env/default with precedence.
func parseInterval(flagValue, envKey, defaultValue string) (time.Duration, error) {
	str := getConfigValue(flagValue, envKey, defaultValue)
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), str, err)
	}
	return d, nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandDataPath expands ~ and makes the path absolute.
func (c *Config) expandDataPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, "SocialSphere", "data")

	expanded, err := expandPath(c.Data.BasePath, defaultPath)
	if err != nil {
		return err
	}
	c.Data.BasePath = expanded
	return nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	var result int
	if _, err := fmt.Sscanf(strValue, "%d", &result); err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=value.
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Remove quotes if present.
		value = strings.Trim(value, `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
