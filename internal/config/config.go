// Package config provides configuration management with CLI > env > file precedence.
package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration options for azurechat.
type Config struct {
	APIType     string   `yaml:"api-type"`
	Endpoint    string   `yaml:"endpoint"`
	APIKey      string   `yaml:"api-key"`
	APIVersion  string   `yaml:"api-version"`
	Deployment  string   `yaml:"deployment"`
	Temperature float64  `yaml:"temperature"`
	MaxTokens   int      `yaml:"max-tokens"`
	N           int      `yaml:"n"`
	Stop        []string `yaml:"stop"`
	Stream      bool     `yaml:"stream"`
	Markdown    bool     `yaml:"markdown"`
	System      string   `yaml:"system"`

	// Args holds the non-flag CLI arguments left after parsing.
	Args []string `yaml:"-"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIType:     "azure",
		APIVersion:  "2024-02-01",
		Deployment:  "gpt-35-turbo",
		Temperature: 0.7,
		MaxTokens:   1024,
		N:           1,
		Stream:      true,
		Markdown:    true,
	}
}

// Load builds a Config by merging CLI flags, environment variables, and config files.
// Precedence: CLI args > env vars > config files (cwd then $HOME).
func Load(args []string) (*Config, error) {
	cfg := DefaultConfig()

	// Load config files (lowest precedence first, then overwrite).
	if home, err := os.UserHomeDir(); err == nil {
		_ = cfg.loadYAML(filepath.Join(home, ".azurechat.conf.yml"))
	}
	_ = cfg.loadYAML(".azurechat.conf.yml")

	// Load .env files.
	_ = godotenv.Load()

	// Apply env vars.
	cfg.applyEnv()

	// Parse CLI flags (highest precedence).
	if err := cfg.parseFlags(args); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	if v := os.Getenv("AZURE_OPENAI_ENDPOINT"); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("AZURE_OPENAI_API_VERSION"); v != "" {
		c.APIVersion = v
	}
	if v := os.Getenv("AZURE_OPENAI_DEPLOYMENT"); v != "" {
		c.Deployment = v
	}
	// OpenAI-compatible fallbacks, used with --api-type=openai.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" && c.APIKey == "" {
		c.APIKey = v
	}
	if v := os.Getenv("OPENAI_API_BASE"); v != "" && c.Endpoint == "" {
		c.Endpoint = v
	}
}

func (c *Config) parseFlags(args []string) error {
	fs := flag.NewFlagSet("azurechat", flag.ContinueOnError)
	fs.StringVar(&c.APIType, "api-type", c.APIType, "API flavor (azure, openai)")
	fs.StringVar(&c.Endpoint, "endpoint", c.Endpoint, "API endpoint base URL")
	fs.StringVar(&c.APIKey, "api-key", c.APIKey, "API key")
	fs.StringVar(&c.APIVersion, "api-version", c.APIVersion, "Azure API version")
	fs.StringVar(&c.Deployment, "deployment", c.Deployment, "Deployment or model name")
	fs.Float64Var(&c.Temperature, "temperature", c.Temperature, "Sampling temperature (0-2)")
	fs.IntVar(&c.MaxTokens, "max-tokens", c.MaxTokens, "Maximum generated tokens")
	fs.IntVar(&c.N, "n", c.N, "Number of completions to request")
	fs.StringSliceVar(&c.Stop, "stop", c.Stop, "Stop sequences")
	fs.BoolVar(&c.Stream, "stream", c.Stream, "Enable streaming")
	fs.BoolVar(&c.Markdown, "markdown", c.Markdown, "Render responses as markdown")
	fs.StringVar(&c.System, "system", c.System, "System prompt override")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c.Args = fs.Args()
	return nil
}
