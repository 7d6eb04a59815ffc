// Package config loads exphil settings from an optional .env file, an
// optional config.yaml and EXPHIL_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/aginor/exphil/internal/catalog"
	"github.com/aginor/exphil/internal/fetch"
	"github.com/aginor/exphil/internal/llm"
)

// EnvPrefix is prepended to every environment override, e.g.
// EXPHIL_FETCH_TIMEOUT for fetch.timeout.
const EnvPrefix = "EXPHIL"

// Config holds application configuration.
type Config struct {
	Env             string             `mapstructure:"env"`              // "production" selects the production logger
	LogFile         string             `mapstructure:"log_file"`         // TUI log destination; empty means the XDG state dir
	DefaultCategory string             `mapstructure:"default_category"` // fallback for unknown category codes
	Fetch           Fetch              `mapstructure:"fetch"`
	Categories      []catalog.Category `mapstructure:"categories"`
	LLM             LLM                `mapstructure:"llm"`
}

// Fetch configures question downloads.
type Fetch struct {
	Timeout time.Duration `mapstructure:"timeout"` // 0 disables the timeout
}

// LLM configures the optional explanation provider.
type LLM struct {
	Provider   string        `mapstructure:"provider"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Anthropic  ProviderKeys  `mapstructure:"anthropic"`
	OpenAI     ProviderKeys  `mapstructure:"openai"`
	Gemini     ProviderKeys  `mapstructure:"gemini"`
	OpenRouter ProviderKeys  `mapstructure:"openrouter"`
}

// ProviderKeys are the per-provider credentials and model overrides.
type ProviderKeys struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

// Options controls where Load looks for input.
type Options struct {
	// File is an explicit config file. When set it must exist.
	File string
	// EnvFile is the dotenv file to load; empty means ".env". A missing
	// file is not an error.
	EnvFile string
	// SkipEnvFile disables dotenv loading.
	SkipEnvFile bool
}

// Load reads configuration from files and environment variables.
func Load(opts Options) (*Config, error) {
	if !opts.SkipEnvFile {
		envFile := opts.EnvFile
		if envFile == "" {
			envFile = ".env"
		}
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "exphil"))
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Fetch.Timeout < 0 {
		return nil, fmt.Errorf("fetch.timeout must not be negative, got %s", cfg.Fetch.Timeout)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	llmDefaults := llm.DefaultConfig()

	v.SetDefault("env", "local")
	v.SetDefault("log_file", "")
	v.SetDefault("default_category", catalog.DefaultCode)
	v.SetDefault("fetch.timeout", fetch.DefaultTimeout)

	defaults := catalog.Defaults()
	cats := make([]map[string]any, 0, len(defaults))
	for _, c := range defaults {
		cats = append(cats, map[string]any{
			"code":        c.Code,
			"name":        c.Name,
			"description": c.Description,
			"url":         c.URL,
			"basis":       string(c.Basis),
		})
	}
	v.SetDefault("categories", cats)

	v.SetDefault("llm.provider", llmDefaults.Provider)
	v.SetDefault("llm.timeout", llmDefaults.Timeout)
	for name, model := range map[string]string{
		llm.ProviderAnthropic:  llmDefaults.Anthropic.Model,
		llm.ProviderOpenAI:     llmDefaults.OpenAI.Model,
		llm.ProviderGemini:     llmDefaults.Gemini.Model,
		llm.ProviderOpenRouter: llmDefaults.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".base_url", "")
	}
}

// Catalog builds the validated category table.
func (c *Config) Catalog() (*catalog.Catalog, error) {
	return catalog.New(c.Categories, c.DefaultCategory)
}

// LLMConfig converts the llm section into an llm.Config. When no provider
// is set explicitly, lookup (os.Getenv when nil) is probed for the standard
// vendor API key variables.
func (c *Config) LLMConfig(lookup func(string) string) llm.Config {
	out := llm.DefaultConfig()
	if c.LLM.Provider != "" {
		out.Provider = strings.ToLower(c.LLM.Provider)
	}
	if c.LLM.Timeout > 0 {
		out.Timeout = c.LLM.Timeout
	}

	out.Anthropic.APIKey = c.LLM.Anthropic.APIKey
	out.Anthropic.BaseURL = c.LLM.Anthropic.BaseURL
	setIf(&out.Anthropic.Model, c.LLM.Anthropic.Model)

	out.OpenAI.APIKey = c.LLM.OpenAI.APIKey
	out.OpenAI.BaseURL = c.LLM.OpenAI.BaseURL
	setIf(&out.OpenAI.Model, c.LLM.OpenAI.Model)

	out.Gemini.APIKey = c.LLM.Gemini.APIKey
	out.Gemini.BaseURL = c.LLM.Gemini.BaseURL
	setIf(&out.Gemini.Model, c.LLM.Gemini.Model)

	out.OpenRouter.APIKey = c.LLM.OpenRouter.APIKey
	setIf(&out.OpenRouter.Model, c.LLM.OpenRouter.Model)
	setIf(&out.OpenRouter.BaseURL, c.LLM.OpenRouter.BaseURL)

	out.Discover(lookup)
	return out
}

func setIf(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
