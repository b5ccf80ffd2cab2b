package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig   `toml:"logging"`
	Search      SearchConfig    `toml:"search"`
	Knowledge   KnowledgeConfig `toml:"knowledge"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Analyzer    AnalyzerConfig  `toml:"analyzer"`
	Storage     StorageConfig   `toml:"storage"`
	Scheduler   SchedulerConfig `toml:"scheduler"`
	Prompts     PromptsConfig   `toml:"prompts"`
}

type LoggingConfig struct {
	Level  string   `toml:"level" validate:"omitempty,oneof=trace debug info warn error"`
	Output []string `toml:"output"` // "stdout", "file"
}

// SearchConfig configures the external search provider client. An empty APIKey
// is a valid configuration: every call then returns a "not configured" error
// response instead of reaching the network.
type SearchConfig struct {
	APIKey         string        `toml:"api_key"`
	BaseURL        string        `toml:"base_url" validate:"omitempty,url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
	RateLimit      int           `toml:"rate_limit" validate:"gte=0"` // requests per second
	CacheTTL       time.Duration `toml:"cache_ttl"`
	CacheMaxSize   int           `toml:"cache_max_size" validate:"gte=0"`
}

// KnowledgeConfig configures the optional knowledge-base retrieval client.
type KnowledgeConfig struct {
	APIKey         string        `toml:"api_key"`
	BaseURL        string        `toml:"base_url" validate:"omitempty,url"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=1"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=0"`
}

type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	Temperature float32 `toml:"temperature" validate:"gte=0,lte=1"`
	MaxTokens   int     `toml:"max_tokens" validate:"gte=0"`
}

type LLMConfig struct {
	DefaultProvider string `toml:"default_provider" validate:"omitempty,oneof=gemini claude"`
}

// AnalyzerConfig configures website analysis behavior.
type AnalyzerConfig struct {
	FetchHomepage   bool          `toml:"fetch_homepage"`
	HomepageTimeout time.Duration `toml:"homepage_timeout"`
	MaxHomepageSize int           `toml:"max_homepage_size" validate:"gte=0"` // bytes
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

type BadgerConfig struct {
	Path     string `toml:"path"`
	InMemory bool   `toml:"in_memory"`
}

// SchedulerConfig controls the background profile-refresh loop.
type SchedulerConfig struct {
	Enabled         bool          `toml:"enabled"`
	Schedule        string        `toml:"schedule"` // cron expression
	RefreshInterval time.Duration `toml:"refresh_interval"`
}

type PromptsConfig struct {
	Dir string `toml:"dir"` // directory of YAML prompt-template overrides, optional
}

// NewDefaultConfig returns a config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Search: SearchConfig{
			BaseURL:        "https://api.tavily.com",
			RequestTimeout: 30 * time.Second,
			RateLimit:      5,
			CacheTTL:       24 * time.Hour,
			CacheMaxSize:   512,
		},
		Knowledge: KnowledgeConfig{
			RequestTimeout: 30 * time.Second,
		},
		Gemini: GeminiConfig{
			Model:       "gemini-2.0-flash",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			Temperature: 0.7,
			MaxTokens:   2000,
		},
		LLM: LLMConfig{
			DefaultProvider: "gemini",
		},
		Analyzer: AnalyzerConfig{
			FetchHomepage:   true,
			HomepageTimeout: 15 * time.Second,
			MaxHomepageSize: 2 * 1024 * 1024,
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/vestigo",
			},
		},
		Scheduler: SchedulerConfig{
			Enabled:         false,
			Schedule:        "@every 1h",
			RefreshInterval: 7 * 24 * time.Hour,
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
// Credentials are the usual override case in deployed environments.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("VESTIGO_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		config.Search.APIKey = v
	}
	if v := os.Getenv("VESTIGO_SEARCH_BASE_URL"); v != "" {
		config.Search.BaseURL = v
	}
	if v := os.Getenv("KNOWLEDGE_API_KEY"); v != "" {
		config.Knowledge.APIKey = v
	}
	if v := os.Getenv("KNOWLEDGE_BASE_URL"); v != "" {
		config.Knowledge.BaseURL = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.Gemini.APIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		config.Claude.APIKey = v
	}
	if v := os.Getenv("VESTIGO_LLM_PROVIDER"); v != "" {
		config.LLM.DefaultProvider = v
	}
	if v := os.Getenv("VESTIGO_STORAGE_PATH"); v != "" {
		config.Storage.Badger.Path = v
	}
	if v := os.Getenv("VESTIGO_SCHEDULER_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Scheduler.Enabled = enabled
		}
	}
}
