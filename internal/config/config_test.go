package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
	return dir
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chdirTemp(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leadscout.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "anthropic", cfg.AI.Provider)
	assert.Equal(t, 8192, cfg.AI.MaxTokens)
	assert.Equal(t, 180, cfg.AI.TimeoutSecs)
	assert.Equal(t, 30, cfg.AI.CacheTTLMins)
	assert.InDelta(t, 0.5, cfg.AI.RateLimit, 0.001)
	assert.True(t, cfg.AI.MapGrounding)
	assert.True(t, cfg.AI.WebGrounding)
	assert.Equal(t, 3, cfg.AI.Retry.MaxAttempts)
	assert.InDelta(t, 2.0, cfg.AI.Retry.Multiplier, 0.001)
	assert.Equal(t, 5, cfg.AI.Breaker.FailureThreshold)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, "sonar-pro", cfg.Perplexity.Model)
	assert.Equal(t, "https://api.perplexity.ai", cfg.Perplexity.BaseURL)
	assert.Equal(t, "https://places.googleapis.com/v1", cfg.Google.BaseURL)
	assert.InDelta(t, 3.0, cfg.Notion.RateLimit, 0.001)
	assert.False(t, cfg.Monitoring.Enabled)
	assert.Equal(t, 14, cfg.Monitoring.StaleLeadDays)
	assert.Empty(t, cfg.Anthropic.Key)
}

func TestLoadFromYAML(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
ai:
  provider: perplexity
  map_grounding: false
log:
  level: debug
  format: json
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, "perplexity", cfg.AI.Provider)
	assert.False(t, cfg.AI.MapGrounding)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	// Defaults still apply for unset values
	assert.Equal(t, 8192, cfg.AI.MaxTokens)
}

func TestLoadInvalidYAML(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store: [unterminated"), 0644))

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config: read file")
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := chdirTemp(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADSCOUT_STORE_DRIVER", "memory")
	t.Setenv("LEADSCOUT_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvSecrets(t *testing.T) {
	chdirTemp(t)

	t.Setenv("LEADSCOUT_ANTHROPIC_KEY", "sk-ant-test")
	t.Setenv("LEADSCOUT_GOOGLE_PLACES_KEY", "places-test")
	t.Setenv("LEADSCOUT_NOTION_TOKEN", "secret_notion")
	t.Setenv("LEADSCOUT_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
	assert.Equal(t, "places-test", cfg.Google.PlacesKey)
	assert.Equal(t, "secret_notion", cfg.Notion.Token)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadDotEnv(t *testing.T) {
	dir := chdirTemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEADSCOUT_PERPLEXITY_KEY=pplx-from-dotenv\n"), 0644))
	t.Cleanup(func() { os.Unsetenv("LEADSCOUT_PERPLEXITY_KEY") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "pplx-from-dotenv", cfg.Perplexity.Key)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "loud", Format: "json"})
	assert.Error(t, err)
}

func validDefaults() *Config {
	return &Config{
		Store:     StoreConfig{Driver: "sqlite", Path: "leads.db"},
		AI:        AIConfig{Provider: "anthropic"},
		Anthropic: AnthropicConfig{Key: "sk-ant"},
		Server:    ServerConfig{Port: 8080},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mode    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "search ok", mode: "search"},
		{name: "serve ok", mode: "serve"},
		{name: "store ok", mode: "store"},
		{
			name:    "sqlite without path",
			mode:    "store",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: "store.path is required",
		},
		{
			name:    "postgres without url",
			mode:    "store",
			mutate:  func(c *Config) { c.Store.Driver = "postgres" },
			wantErr: "store.database_url is required",
		},
		{
			name:   "memory needs nothing",
			mode:   "store",
			mutate: func(c *Config) { c.Store = StoreConfig{Driver: "memory"} },
		},
		{
			name:    "bad driver",
			mode:    "store",
			mutate:  func(c *Config) { c.Store.Driver = "mysql" },
			wantErr: "store.driver must be",
		},
		{
			name:    "missing anthropic key",
			mode:    "search",
			mutate:  func(c *Config) { c.Anthropic.Key = "" },
			wantErr: "anthropic.key is required",
		},
		{
			name:    "missing openai key",
			mode:    "search",
			mutate:  func(c *Config) { c.AI.Provider = "openai" },
			wantErr: "openai.key is required",
		},
		{
			name:    "missing perplexity key",
			mode:    "serve",
			mutate:  func(c *Config) { c.AI.Provider = "perplexity" },
			wantErr: "perplexity.key is required",
		},
		{
			name:    "unknown provider",
			mode:    "search",
			mutate:  func(c *Config) { c.AI.Provider = "bard" },
			wantErr: "ai.provider must be",
		},
		{
			name:    "bad port",
			mode:    "serve",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "server.port must be between 1 and 65535",
		},
		{
			name:    "notion missing credentials",
			mode:    "notion",
			wantErr: "notion.token is required; notion.lead_db is required",
		},
		{
			name: "notion ok",
			mode: "notion",
			mutate: func(c *Config) {
				c.Notion.Token = "secret"
				c.Notion.LeadDB = "db-id"
			},
		},
		{
			name:    "unknown mode",
			mode:    "fedsync",
			wantErr: "unknown mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validDefaults()
			if tt.mutate != nil {
				tt.mutate(cfg)
			}
			err := cfg.Validate(tt.mode)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"
	cfg.Anthropic.Key = ""
	cfg.Server.Port = -1

	err := cfg.Validate("serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url")
	assert.Contains(t, err.Error(), "anthropic.key")
	assert.Contains(t, err.Error(), "server.port")
}
