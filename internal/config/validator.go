package config

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Validate checks the configuration for values that would break the
// engine at runtime.
func (c *Config) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("model cannot be empty")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max_tokens must be positive, got %d", c.MaxTokens)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries cannot be negative, got %d", c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("retry_delay cannot be negative, got %v", c.RetryDelay)
	}
	if c.PromptsDir == "" {
		return fmt.Errorf("prompts_dir cannot be empty")
	}

	if err := validateURL("news.list_url", c.News.ListURL); err != nil {
		return err
	}
	if err := validateURL("market.quote_url", c.Market.QuoteURL); err != nil {
		return err
	}

	switch c.Logging.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging level %q", c.Logging.Level)
	}

	return nil
}

// validateURL accepts empty values; the matching feature is disabled then
func validateURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("%s is not a valid URL: %q", field, raw)
	}
	return nil
}

func (c *Config) encode() ([]byte, error) {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return data, nil
}
