package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Key names an environment-supplied configuration value
type Key string

const (
	KeySupabaseURL        Key = "SUPABASE_URL"
	KeySupabaseAnonKey    Key = "SUPABASE_ANON_KEY"
	KeySupabaseServiceKey Key = "SUPABASE_SERVICE_ROLE_KEY"
	KeyAdminToken         Key = "ADMIN_TOKEN"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	Stage       string
	Log         LogConfig
	Supabase    SupabaseConfig
	Admin       AdminConfig
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string
	Format string // "text" or "json"
}

// SupabaseConfig holds the backend service endpoint and its two credential tiers
type SupabaseConfig struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
}

// AdminConfig holds the shared secret for administrative endpoints
type AdminConfig struct {
	Token string
}

// MissingConfigError reports required configuration values that are absent
type MissingConfigError struct {
	Keys []Key
}

func (e *MissingConfigError) Error() string {
	names := make([]string, len(e.Keys))
	for i, k := range e.Keys {
		names[i] = string(k)
	}
	return "missing " + strings.Join(names, ", ")
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8888")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("STAGE", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		Stage:       v.GetString("STAGE"),
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Supabase: SupabaseConfig{
			URL:            strings.TrimRight(strings.TrimSpace(v.GetString(string(KeySupabaseURL))), "/"),
			AnonKey:        strings.TrimSpace(v.GetString(string(KeySupabaseAnonKey))),
			ServiceRoleKey: strings.TrimSpace(v.GetString(string(KeySupabaseServiceKey))),
		},
		Admin: AdminConfig{
			Token: v.GetString(string(KeyAdminToken)),
		},
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: must be text or json", config.Log.Format)
	}

	return config, nil
}

// Value returns the configured value for key
func (c *Config) Value(key Key) string {
	switch key {
	case KeySupabaseURL:
		return c.Supabase.URL
	case KeySupabaseAnonKey:
		return c.Supabase.AnonKey
	case KeySupabaseServiceKey:
		return c.Supabase.ServiceRoleKey
	case KeyAdminToken:
		return c.Admin.Token
	}
	return ""
}

// Require returns a *MissingConfigError listing every key without a value
func (c *Config) Require(keys ...Key) error {
	var missing []Key
	for _, key := range keys {
		if c == nil || c.Value(key) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return &MissingConfigError{Keys: missing}
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsBool gets an environment variable as boolean with a fallback value
func GetEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}
