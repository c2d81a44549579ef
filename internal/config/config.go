// ABOUTME: Configuration loading and parsing for chatrelay
// ABOUTME: YAML file with environment variable expansion plus env-only fallbacks

package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete chatrelay configuration.
type Config struct {
	Telegram TelegramConfig `yaml:"telegram"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Chat     ChatConfig     `yaml:"chat"`
	Database DatabaseConfig `yaml:"database"`
	Access   AccessConfig   `yaml:"access"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TelegramConfig holds the bot transport configuration.
type TelegramConfig struct {
	Token string `yaml:"token"`
}

// OpenAIConfig holds credentials and endpoints for the remote APIs.
type OpenAIConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // empty means the public API
}

// ChatConfig holds the conversational behavior knobs.
type ChatConfig struct {
	Model              string  `yaml:"model"`
	Temperature        float64 `yaml:"temperature"`
	HistoryLimit       int     `yaml:"history_limit"`
	TranscriptionModel string  `yaml:"transcription_model"`
}

// DatabaseConfig holds the database connection string. A postgres: URL
// selects PostgreSQL; anything else is a SQLite file path.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AccessConfig holds the initial super-admin seed list.
type AccessConfig struct {
	// AdminUserIDs is a comma-separated list of Telegram user ids seeded
	// as super-admins on every start.
	AdminUserIDs string `yaml:"admin_user_ids"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "text" or "json"
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded. If
// the file does not exist the configuration is built from environment
// variables and defaults alone, matching how the bot was originally deployed.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		expanded := expandEnvVars(string(data))
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	case os.IsNotExist(err):
		// env-only operation
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables expand to empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnv fills empty fields from the well-known environment variables so a
// bare .env deployment works without a config file.
func (c *Config) applyEnv() {
	setIfEmpty := func(dst *string, key string) {
		if *dst == "" {
			*dst = os.Getenv(key)
		}
	}
	setIfEmpty(&c.Telegram.Token, "TELEGRAM_BOT_TOKEN")
	setIfEmpty(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setIfEmpty(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setIfEmpty(&c.Database.URL, "DATABASE_URL")
	setIfEmpty(&c.Access.AdminUserIDs, "ADMIN_USER_IDS")
}

func (c *Config) applyDefaults() {
	if c.Chat.Model == "" {
		c.Chat.Model = "gpt-4o-mini"
	}
	if c.Chat.Temperature == 0 {
		c.Chat.Temperature = 0.7
	}
	if c.Chat.HistoryLimit == 0 {
		c.Chat.HistoryLimit = 10
	}
	if c.Chat.TranscriptionModel == "" {
		c.Chat.TranscriptionModel = "whisper-1"
	}
	if c.Database.URL == "" {
		c.Database.URL = "sqlite:chat_database.db"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that required configuration fields are present. Missing
// credentials are fatal at startup; the process must not proceed without them.
func (c *Config) Validate() error {
	if c.Telegram.Token == "" {
		return fmt.Errorf("telegram.token is required (or set TELEGRAM_BOT_TOKEN)")
	}
	if c.OpenAI.APIKey == "" {
		return fmt.Errorf("openai.api_key is required (or set OPENAI_API_KEY)")
	}
	if c.Chat.HistoryLimit < 0 {
		return fmt.Errorf("chat.history_limit must not be negative")
	}
	return nil
}

// ParseAdminIDs splits a comma-separated admin id list into numeric ids.
// Non-numeric entries are returned separately so the caller can log and skip
// them; they never abort startup.
func ParseAdminIDs(s string) (ids []int64, invalid []string) {
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			invalid = append(invalid, part)
			continue
		}
		ids = append(ids, id)
	}
	return ids, invalid
}
