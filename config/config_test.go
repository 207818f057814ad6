package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	c := NewDefaultConfig()
	assert.Equal(t, "carteira", c.Document)
	assert.Equal(t, "file", c.Store.Kind)
	assert.Equal(t, ".SA", c.Quotes.Suffix)
	assert.Equal(t, "intraday", c.Quotes.Profile)
	assert.Equal(t, "@every 60s", c.Refresh.Schedule)
	assert.Equal(t, "Geral", c.Migration.DefaultAdvisor)
	assert.Equal(t, "Carteira", c.Migration.DefaultClient)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lsdesk.toml")
	content := `
document = "mesa"

[store]
kind = "sqlite"
path = "desk.db"

[quotes]
profile = "premium"

[quotes.eodhd]
api_key = "secret"
rate_limit = 2

[targets]
precedence = "loss"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	c, err := Load("", filepath.Join(dir, "missing.toml"), path)
	require.NoError(t, err)
	assert.Equal(t, "mesa", c.Document)
	assert.Equal(t, "sqlite", c.Store.Kind)
	assert.Equal(t, "desk.db", c.Store.Path)
	assert.Equal(t, "premium", c.Quotes.Profile)
	assert.Equal(t, "secret", c.Quotes.EODHD.APIKey)
	assert.Equal(t, 2, c.Quotes.EODHD.RateLimit)
	assert.Equal(t, "loss", c.Targets.Precedence)
	// untouched defaults survive
	assert.Equal(t, ".SA", c.Quotes.Suffix)
	assert.Equal(t, "https://eodhd.com/api", c.Quotes.EODHD.BaseURL)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("document = ["), 0o644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LSDESK_STORE_KIND", "s3")
	t.Setenv("LSDESK_STORE_BUCKET", "desk")
	t.Setenv("LSDESK_EODHD_RATE_LIMIT", "5")
	t.Setenv("LSDESK_LOG_PRETTY", "true")
	t.Setenv("LSDESK_SERVER_ADDR", ":9090")

	c := NewDefaultConfig()
	applyEnvOverrides(c)

	assert.Equal(t, "s3", c.Store.Kind)
	assert.Equal(t, "desk", c.Store.Bucket)
	assert.Equal(t, 5, c.Quotes.EODHD.RateLimit)
	assert.True(t, c.Logging.Pretty)
	assert.Equal(t, ":9090", c.Server.Addr)
}

func TestApplyEnvOverrides_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("LSDESK_EODHD_RATE_LIMIT", "fast")
	t.Setenv("LSDESK_LOG_PRETTY", "maybe")

	c := NewDefaultConfig()
	applyEnvOverrides(c)

	assert.Equal(t, 10, c.Quotes.EODHD.RateLimit)
	assert.False(t, c.Logging.Pretty)
}

func TestAssistKeyFallback(t *testing.T) {
	t.Setenv("LSDESK_ASSIST_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini")

	c := NewDefaultConfig()
	applyEnvOverrides(c)
	assert.Equal(t, "gemini", c.Assist.APIKey)
}

func TestEODHDConfig_GetTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, EODHDConfig{}.GetTimeout())
	assert.Equal(t, 30*time.Second, EODHDConfig{Timeout: "soon"}.GetTimeout())
	assert.Equal(t, 5*time.Second, EODHDConfig{Timeout: "5s"}.GetTimeout())
}
