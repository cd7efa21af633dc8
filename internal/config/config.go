// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/moddin/kichat/internal/database"
	"github.com/moddin/kichat/internal/services/ai"
	"github.com/moddin/kichat/internal/services/chat"
)

const (
	DriverSQLite   = database.DriverSQLite
	DriverPostgres = database.DriverPostgres

	ollamaDefaultURL = "http://localhost:11434"
)

type Config struct {
	Environment string
	ServerPort  string
	LogLevel    string

	DBDriver string
	DBDSN    string

	JWTSecretKey  string
	AdminUsername string

	LoginMaxAttempts   int
	LoginBlockDuration time.Duration

	AI   ai.Config
	Chat chat.Config
}

// IsProduction reports whether ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

func setDefaults(v *viper.Viper) {
	aiDefaults := ai.DefaultConfig()
	chatDefaults := chat.DefaultConfig()

	v.SetDefault("ENV", "development")
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("DB_DSN", "kichat.db")
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("ADMIN_USERNAME", "moddin123")
	v.SetDefault("LOGIN_MAX_ATTEMPTS", 3)
	v.SetDefault("LOGIN_BLOCK_DURATION", "60s")

	v.SetDefault("AI_PROVIDER", aiDefaults.Provider)
	v.SetDefault("AI_BASE_URL", "")
	v.SetDefault("AI_API_KEY", "")
	v.SetDefault("AI_TIMEOUT", aiDefaults.Timeout.String())
	v.SetDefault("AI_TEMPERATURE", aiDefaults.Temperature)

	v.SetDefault("ROUTER_DEFAULT_MODEL", chatDefaults.DefaultModel)
	v.SetDefault("ROUTER_REASONING_MODEL", chatDefaults.ReasoningModel)
	v.SetDefault("ROUTER_LENGTH_THRESHOLD", chatDefaults.LengthThreshold)
	v.SetDefault("ROUTER_KEYWORDS", strings.Join(chatDefaults.Keywords, ","))
	v.SetDefault("SYSTEM_PROMPT", chatDefaults.SystemPrompt)
	v.SetDefault("MAX_CHATS_PER_USER", chatDefaults.MaxChatsPerUser)
}

// Load reads configuration from the environment, a .env file outside
// production, and an optional file named by CONFIG_FILE.
func Load() (*Config, error) {
	if !strings.EqualFold(os.Getenv("ENV"), "production") {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}
	return load(viper.New(), os.Getenv("CONFIG_FILE"))
}

func load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &Config{
		Environment:        v.GetString("ENV"),
		ServerPort:         v.GetString("SERVER_PORT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		DBDriver:           strings.ToLower(v.GetString("DB_DRIVER")),
		DBDSN:              v.GetString("DB_DSN"),
		JWTSecretKey:       v.GetString("JWT_SECRET_KEY"),
		AdminUsername:      strings.ToLower(strings.TrimSpace(v.GetString("ADMIN_USERNAME"))),
		LoginMaxAttempts:   v.GetInt("LOGIN_MAX_ATTEMPTS"),
		LoginBlockDuration: v.GetDuration("LOGIN_BLOCK_DURATION"),
		AI: ai.Config{
			Provider:    strings.ToLower(v.GetString("AI_PROVIDER")),
			BaseURL:     v.GetString("AI_BASE_URL"),
			APIKey:      v.GetString("AI_API_KEY"),
			Timeout:     v.GetDuration("AI_TIMEOUT"),
			Temperature: float32(v.GetFloat64("AI_TEMPERATURE")),
		},
		Chat: chat.Config{
			DefaultModel:    v.GetString("ROUTER_DEFAULT_MODEL"),
			ReasoningModel:  v.GetString("ROUTER_REASONING_MODEL"),
			LengthThreshold: v.GetInt("ROUTER_LENGTH_THRESHOLD"),
			Keywords:        splitList(v.GetString("ROUTER_KEYWORDS")),
			SystemPrompt:    v.GetString("SYSTEM_PROMPT"),
			MaxChatsPerUser: v.GetInt("MAX_CHATS_PER_USER"),
			TitlePrefix:     chat.DefaultConfig().TitlePrefix,
		},
	}
	if cfg.AI.Provider == ai.ProviderOllama && cfg.AI.BaseURL == "" {
		cfg.AI.BaseURL = ollamaDefaultURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values. Production requires a JWT secret.
func (c *Config) Validate() error {
	missing := []string{}
	if c.JWTSecretKey == "" {
		if c.IsProduction() {
			missing = append(missing, "JWT_SECRET_KEY")
		} else {
			log.Println("Warning: JWT_SECRET_KEY is not set; using an insecure development secret")
			c.JWTSecretKey = "dev-insecure-secret"
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required production environment variables: %v", missing)
	}

	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.LoginMaxAttempts <= 0 {
		return fmt.Errorf("LOGIN_MAX_ATTEMPTS must be positive")
	}
	if c.LoginBlockDuration <= 0 {
		return fmt.Errorf("LOGIN_BLOCK_DURATION must be positive")
	}
	if err := c.AI.Validate(); err != nil {
		return fmt.Errorf("invalid AI config: %w", err)
	}
	if err := c.Chat.Validate(); err != nil {
		return fmt.Errorf("invalid chat config: %w", err)
	}
	return nil
}

// splitList parses a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
