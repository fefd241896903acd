package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// unsetenv clears a variable for one test, t.Setenv registers the restore.
func unsetenv(t *testing.T, key string) {
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_NAME", "BACKEND_PORT", "LLM_PROVIDER", "OPENAI_MODEL",
		"MAX_PDF_SIZE_MB", "MAX_PDF_PAGES", "SESSION_MAX_AGE_SECONDS",
		"STREAM_STATUS_DELAY_MS", "STREAM_TOKEN_DELAY_MS",
	} {
		unsetenv(t, key)
	}

	cfg := Load()

	assert.Equal(t, "Document QA Chatbot", cfg.App.Name)
	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, 10, cfg.PDF.MaxSizeMB)
	assert.Equal(t, 100, cfg.PDF.MaxPages)
	assert.Equal(t, 86400, cfg.Session.MaxAgeSeconds)
	assert.Equal(t, 50, cfg.Stream.StatusDelayMs)
	assert.Equal(t, 20, cfg.Stream.TokenDelayMs)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_PORT", "9100")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("MAX_PDF_SIZE_MB", "2")
	t.Setenv("MAX_PDF_PAGES", "5")
	t.Setenv("STREAM_TOKEN_DELAY_MS", "0")
	t.Setenv("DEBUG", "true")

	cfg := Load()

	assert.Equal(t, "9100", cfg.App.Port)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, 2, cfg.PDF.MaxSizeMB)
	assert.Equal(t, 5, cfg.PDF.MaxPages)
	assert.Equal(t, 0, cfg.Stream.TokenDelayMs)
	assert.True(t, cfg.App.Debug)
}

func TestGetEnvAsIntIgnoresGarbage(t *testing.T) {
	t.Setenv("MAX_PDF_PAGES", "not-a-number")

	cfg := Load()

	assert.Equal(t, 100, cfg.PDF.MaxPages)
}
