package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port"`
	Env             string        `json:"env"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
	HTTPTimeout     time.Duration `json:"http_timeout"`

	// Database
	DatabasePath string `json:"database_path"`

	// Redis configuration (analyzed-media dedup cache)
	RedisURL    string        `json:"redis_url"`
	RedisPrefix string        `json:"redis_prefix"`
	CacheTTL    time.Duration `json:"cache_ttl"`

	// AI Configuration
	AIProvider      string        `json:"ai_provider"` // "anthropic" or "openai"
	AnthropicAPIKey string        `json:"anthropic_api_key"`
	OpenAIAPIKey    string        `json:"openai_api_key"`
	AIModel         string        `json:"ai_model"`
	AITimeout       time.Duration `json:"ai_timeout"`
	AIMaxTokens     int           `json:"ai_max_tokens"`

	// Twitter
	TwitterBearerToken string `json:"twitter_bearer_token"`

	// Bot behaviour
	BotEnabled          bool          `json:"bot_enabled"`
	GeneratorMode       bool          `json:"generator_mode"` // generate to queue instead of auto-posting
	PostInterval        time.Duration `json:"post_interval"`
	GenerateInterval    time.Duration `json:"generate_interval"`
	TrendScrapeInterval time.Duration `json:"trend_scrape_interval"`

	// Trend sources
	Subreddits   []string `json:"subreddits"`
	TrendsRegion string   `json:"trends_region"`

	// Content constraints
	MaxContentLength int `json:"max_content_length"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Security
	AdminAPIKey string `json:"admin_api_key"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := &Config{
		// Server configuration
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		// Database
		DatabasePath: getEnv("DATABASE_PATH", "./data/memetide.db"),

		// Redis configuration
		RedisURL:    getEnv("REDIS_URL", ""),
		RedisPrefix: getEnv("REDIS_PREFIX", "memetide:"),
		CacheTTL:    getEnvAsDuration("CACHE_TTL", 720*time.Hour), // 30 days

		// AI Configuration
		AIProvider:      getEnv("AI_PROVIDER", "anthropic"),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AIModel:         getEnv("AI_MODEL", ""),
		AITimeout:       getEnvAsDuration("AI_TIMEOUT", 60*time.Second),
		AIMaxTokens:     getEnvAsInt("AI_MAX_TOKENS", 1024),

		// Twitter
		TwitterBearerToken: getEnv("TWITTER_BEARER_TOKEN", ""),

		// Bot behaviour
		BotEnabled:          getEnvAsBool("BOT_ENABLED", true),
		GeneratorMode:       getEnvAsBool("GENERATOR_MODE", true),
		PostInterval:        getEnvAsDuration("POST_INTERVAL", 6*time.Hour),
		GenerateInterval:    getEnvAsDuration("GENERATE_INTERVAL", 4*time.Hour),
		TrendScrapeInterval: getEnvAsDuration("TREND_SCRAPE_INTERVAL", time.Hour),

		// Trend sources
		Subreddits: getEnvAsSlice("SUBREDDITS", []string{
			"memes", "dankmemes", "MemeEconomy", "okbuddyretard",
			"me_irl", "surrealmemes", "antimeme",
		}),
		TrendsRegion: getEnv("TRENDS_REGION", "US"),

		// Content constraints
		MaxContentLength: getEnvAsInt("MAX_CONTENT_LENGTH", 280),

		// Logging
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		// Security
		AdminAPIKey: getEnv("ADMIN_API_KEY", ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.AIProvider {
	case "anthropic", "openai":
	default:
		return fmt.Errorf("unknown AI provider %q", c.AIProvider)
	}
	if c.BotEnabled {
		if c.AIProvider == "anthropic" && c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required when the bot is enabled")
		}
		if c.AIProvider == "openai" && c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when the bot is enabled")
		}
		if !c.GeneratorMode && c.TwitterBearerToken == "" {
			return fmt.Errorf("TWITTER_BEARER_TOKEN is required in auto-post mode")
		}
	}
	return nil
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(name string, defaultVal int) int {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %d", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := strconv.ParseBool(strings.ToLower(valueStr))
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}

func getEnvAsSlice(name string, defaultVal []string) []string {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
