package config

import (
	"path/filepath"
	"time"
)

// Config represents the main Stargent configuration
type Config struct {
	// Model
	Model       string  `json:"model" mapstructure:"model"`
	Temperature float64 `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens"`

	// Gateway retry behavior
	MaxRetries int           `json:"max_retries" mapstructure:"max_retries"`
	RetryDelay time.Duration `json:"retry_delay" mapstructure:"retry_delay"`

	// Directories
	PromptsDir  string `json:"prompts_dir" mapstructure:"prompts_dir"`
	DataDir     string `json:"data_dir" mapstructure:"data_dir"`
	SessionsDir string `json:"sessions_dir" mapstructure:"sessions_dir"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// Upstream data sources
	News   NewsConfig   `json:"news" mapstructure:"news"`
	Market MarketConfig `json:"market" mapstructure:"market"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	File    string `json:"file" mapstructure:"file"`
	Console bool   `json:"console" mapstructure:"console"`
	Pretty  bool   `json:"pretty" mapstructure:"pretty"`
}

// NewsConfig holds the news scraping configuration
type NewsConfig struct {
	ListURL string `json:"list_url" mapstructure:"list_url"`
}

// MarketConfig holds the quote API configuration
type MarketConfig struct {
	QuoteURL string `json:"quote_url" mapstructure:"quote_url"`
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	return &Config{
		Model:       "gpt-4.1-mini",
		Temperature: 0.7,
		MaxTokens:   2000,
		MaxRetries:  2,
		RetryDelay:  time.Second,
		PromptsDir:  "prompts",
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			Pretty:  true,
		},
		News: NewsConfig{
			ListURL: "https://finance.naver.com/news/mainnews.naver",
		},
	}
}

// applyDerivedDefaults fills in paths that hang off the data directory
func (c *Config) applyDerivedDefaults() {
	if c.SessionsDir == "" {
		c.SessionsDir = filepath.Join(c.DataDir, "sessions")
	}
	if c.Logging.File == "" && !c.Logging.Console {
		c.Logging.File = filepath.Join(c.DataDir, "stargent.log")
	}
}
