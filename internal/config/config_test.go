package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.applyDerivedDefaults()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "gpt-4.1-mini", cfg.Model)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, filepath.Join(cfg.DataDir, "sessions"), cfg.SessionsDir)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty model", func(c *Config) { c.Model = "" }},
		{"temperature too high", func(c *Config) { c.Temperature = 1.5 }},
		{"negative temperature", func(c *Config) { c.Temperature = -0.1 }},
		{"zero max tokens", func(c *Config) { c.MaxTokens = 0 }},
		{"negative retries", func(c *Config) { c.MaxRetries = -1 }},
		{"negative delay", func(c *Config) { c.RetryDelay = -time.Second }},
		{"empty prompts dir", func(c *Config) { c.PromptsDir = "" }},
		{"bad news url", func(c *Config) { c.News.ListURL = "not a url" }},
		{"bad quote url", func(c *Config) { c.Market.QuoteURL = "://broken" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidateAllowsEmptyURLs(t *testing.T) {
	cfg := DefaultConfig()
	cfg.News.ListURL = ""
	cfg.Market.QuoteURL = ""
	assert.NoError(t, cfg.Validate())
}

func TestLoaderMissingFileUsesDefaults(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "absent.json"))

	cfg, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Model, cfg.Model)
	assert.NotEmpty(t, cfg.DataDir)
	assert.NotEmpty(t, cfg.SessionsDir)
}

func TestLoaderReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stargent.json")
	content := `{
		"model": "gpt-4.1",
		"temperature": 0.3,
		"data_dir": "` + dir + `",
		"market": {"quote_url": "https://quotes.example.com/api"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "gpt-4.1", cfg.Model)
	assert.InDelta(t, 0.3, cfg.Temperature, 0.001)
	assert.Equal(t, "https://quotes.example.com/api", cfg.Market.QuoteURL)
	// File values merge over defaults, not replace them
	assert.Equal(t, 2000, cfg.MaxTokens)
	assert.Equal(t, filepath.Join(dir, "sessions"), cfg.SessionsDir)
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stargent.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"model": "", "data_dir": "`+dir+`"}`), 0o600))

	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stargent.json")
	loader := NewLoader(path)

	cfg := DefaultConfig()
	cfg.Model = "gpt-4.1"
	cfg.DataDir = filepath.Dir(path)
	require.NoError(t, loader.Save(cfg))

	loaded, err := loader.Load()
	require.NoError(t, err)
	assert.Equal(t, "gpt-4.1", loaded.Model)
}
