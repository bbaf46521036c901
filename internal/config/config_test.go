package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "azure", cfg.APIType)
	assert.Equal(t, "2024-02-01", cfg.APIVersion)
	assert.Equal(t, "gpt-35-turbo", cfg.Deployment)
	assert.Equal(t, 1, cfg.N)
	assert.Equal(t, true, cfg.Stream)
	assert.Equal(t, true, cfg.Markdown)
}

func TestLoadFromCLIArgs(t *testing.T) {
	args := []string{
		"--deployment", "gpt-4o", "--api-key", "sk-test",
		"--max-tokens", "2048", "--n", "3", "--stop", "END,STOP",
	}
	cfg, err := Load(args)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Deployment)
	assert.Equal(t, "sk-test", cfg.APIKey)
	assert.Equal(t, 2048, cfg.MaxTokens)
	assert.Equal(t, 3, cfg.N)
	assert.Equal(t, []string{"END", "STOP"}, cfg.Stop)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://example.openai.azure.com")
	t.Setenv("AZURE_OPENAI_API_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "env-deployment")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "https://example.openai.azure.com", cfg.Endpoint)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.Equal(t, "env-deployment", cfg.Deployment)
}

func TestOpenAIEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "openai-key")
	t.Setenv("OPENAI_API_BASE", "https://api.openai.com")
	cfg, err := Load([]string{"--api-type", "openai"})
	require.NoError(t, err)
	assert.Equal(t, "openai-key", cfg.APIKey)
	assert.Equal(t, "https://api.openai.com", cfg.Endpoint)
}

func TestAzureEnvWinsOverOpenAIEnv(t *testing.T) {
	t.Setenv("AZURE_OPENAI_API_KEY", "azure-key")
	t.Setenv("OPENAI_API_KEY", "openai-key")
	cfg, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, "azure-key", cfg.APIKey)
}

func TestCLIOverridesEnv(t *testing.T) {
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "env-deployment")
	cfg, err := Load([]string{"--deployment", "cli-deployment"})
	require.NoError(t, err)
	assert.Equal(t, "cli-deployment", cfg.Deployment)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	yamlContent := []byte("deployment: yaml-deployment\napi-key: yaml-key\ntemperature: 0.2\n")
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, yamlContent, 0644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.loadYAML(path))
	assert.Equal(t, "yaml-deployment", cfg.Deployment)
	assert.Equal(t, "yaml-key", cfg.APIKey)
	assert.Equal(t, 0.2, cfg.Temperature)
}

func TestLoadKeepsPositionalArgs(t *testing.T) {
	cfg, err := Load([]string{"--deployment", "gpt-4o", "Who", "is", "Marie", "Curie?"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.Deployment)
	assert.Equal(t, []string{"Who", "is", "Marie", "Curie?"}, cfg.Args)
}

func TestLoadYAMLMissing(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.loadYAML("/nonexistent/path.yml")
	assert.Error(t, err)
}
