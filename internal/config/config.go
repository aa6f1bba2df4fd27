package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds the configuration for the license investigation service
type Config struct {
	Environment string           `yaml:"environment"`
	Debug       bool             `yaml:"debug"`
	Server      ServerConfig     `yaml:"server"`
	Database    DatabaseConfig   `yaml:"database"`
	LLM         LLMConfig        `yaml:"llm"`
	Compliance  ComplianceConfig `yaml:"compliance"`
	Security    SecurityConfig   `yaml:"security"`
	Storage     StorageConfig    `yaml:"storage"`
	Audit       AuditConfig      `yaml:"audit"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig contains PostgreSQL database settings
type DatabaseConfig struct {
	ConnectionString   string        `yaml:"connection_string"`
	MaxOpenConnections int           `yaml:"max_open_connections"`
	MaxIdleConnections int           `yaml:"max_idle_connections"`
	ConnectionLifetime time.Duration `yaml:"connection_lifetime"`
	ConnectionTimeout  time.Duration `yaml:"connection_timeout"`
	QueryTimeout       time.Duration `yaml:"query_timeout"`
	MigrationPath      string        `yaml:"migration_path"`
}

// LLMConfig contains text-generation backend settings
type LLMConfig struct {
	APIKey      string        `yaml:"api_key"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int           `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
}

// ComplianceConfig contains regulatory settings
type ComplianceConfig struct {
	RecordRetentionDays int `yaml:"record_retention_days"`
}

// SecurityConfig contains encryption settings
type SecurityConfig struct {
	EncryptionKey  string `yaml:"encryption_key"`
	EncryptionSalt string `yaml:"encryption_salt"`
}

// StorageConfig contains document storage settings
type StorageConfig struct {
	LocalPath   string `yaml:"local_path"`
	MaxFileSize int64  `yaml:"max_file_size"`
}

// AuditConfig contains audit trail settings
type AuditConfig struct {
	Enabled bool `yaml:"enabled"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Debug:       getBoolEnv("DEBUG", false),
		Server: ServerConfig{
			HTTPPort:        getIntEnv("HTTP_PORT", 8080),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     getDurationEnv("SERVER_IDLE_TIMEOUT", 120*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			ConnectionString:   getEnv("DATABASE_URL", "postgres://localhost:5432/license_investigation?sslmode=disable"),
			MaxOpenConnections: getIntEnv("DB_MAX_OPEN_CONNECTIONS", 25),
			MaxIdleConnections: getIntEnv("DB_MAX_IDLE_CONNECTIONS", 10),
			ConnectionLifetime: getDurationEnv("DB_CONNECTION_LIFETIME", 5*time.Minute),
			ConnectionTimeout:  getDurationEnv("DB_CONNECTION_TIMEOUT", 10*time.Second),
			QueryTimeout:       getDurationEnv("DB_QUERY_TIMEOUT", 30*time.Second),
			MigrationPath:      getEnv("DB_MIGRATION_PATH", "file://migrations"),
		},
		LLM: LLMConfig{
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Model:       getEnv("OPENAI_MODEL", "gpt-4"),
			BaseURL:     getEnv("OPENAI_BASE_URL", ""),
			Temperature: getFloatEnv("OPENAI_TEMPERATURE", 0.1),
			MaxTokens:   getIntEnv("OPENAI_MAX_TOKENS", 4000),
			Timeout:     getDurationEnv("OPENAI_TIMEOUT", 60*time.Second),
		},
		Compliance: ComplianceConfig{
			RecordRetentionDays: getIntEnv("RECORD_RETENTION_DAYS", 2555),
		},
		Security: SecurityConfig{
			EncryptionKey:  getEnv("ENCRYPTION_KEY", ""),
			EncryptionSalt: getEnv("ENCRYPTION_SALT", "license-investigation"),
		},
		Storage: StorageConfig{
			LocalPath:   getEnv("STORAGE_LOCAL_PATH", "./uploads"),
			MaxFileSize: getInt64Env("STORAGE_MAX_FILE_SIZE", 50*1024*1024),
		},
		Audit: AuditConfig{
			Enabled: getBoolEnv("AUDIT_ENABLED", true),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the configuration for invalid or missing values
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	if c.Database.ConnectionString == "" {
		return fmt.Errorf("database connection string is required")
	}

	if c.Compliance.RecordRetentionDays <= 0 {
		return fmt.Errorf("record retention days must be positive: %d", c.Compliance.RecordRetentionDays)
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("invalid LLM temperature: %f", c.LLM.Temperature)
	}

	if c.Environment == "production" && c.Security.EncryptionKey == "" {
		return fmt.Errorf("encryption key is required in production")
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
