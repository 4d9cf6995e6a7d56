package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  addr: ":9000"
  timeout: 30s
search:
  provider: tavily
  tavily:
    api_key: tvly-key
llm:
  base_url: https://llm.example.org/v1
  api_key: sk-key
  model: gpt-4o-mini
queries:
  - "armed conflict"
  - "civil unrest"
fetch:
  interval: 10m
  max_results: 15
log:
  level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	require.Equal(t, ":9000", cfg.Server.Addr)
	require.Equal(t, "tavily", cfg.Search.Provider)
	require.True(t, cfg.LLM.Enabled())
	require.Len(t, cfg.Queries, 2)
	require.Equal(t, 15, cfg.Fetch.MaxResults)
	// 未显式给出的项落默认值
	require.Equal(t, 1000, cfg.Fetch.CacheCap)
	require.Equal(t, 2, cfg.Concurrency.QPS)
	require.Equal(t, 60, cfg.Research.MaxAttempts)
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
search:
  tavily:
    api_key: tvly-key
queries:
  - "global security"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	require.Equal(t, ":8000", cfg.Server.Addr)
	require.Equal(t, 20, cfg.Fetch.MaxResults)
	require.False(t, cfg.LLM.Enabled())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()
	require.Error(t, cfg.Validate(), "search provider required")

	cfg.Search.Tavily.APIKey = "tvly-key"
	require.Error(t, cfg.Validate(), "queries required")

	cfg.Queries = []string{"armed conflict"}
	require.NoError(t, cfg.Validate())
}
