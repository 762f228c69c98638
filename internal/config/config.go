package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/abhisek/syncrate/internal/llm"
	"github.com/abhisek/syncrate/internal/logger"
)

// EnvPrefix prefixes every environment override, e.g. SYNCRATE_DB.
const EnvPrefix = "SYNCRATE"

type Config struct {
	DB        string
	Log       logger.Config
	Server    ServerConfig
	LLM       llm.Config
	Dashboard DashboardConfig

	// File is the config file that was read, empty when none was found.
	File string
}

type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DashboardConfig struct {
	Refresh time.Duration
}

// Load reads configuration from an optional YAML file, SYNCRATE_*
// environment variables and defaults, in increasing order of precedence
// for env over file. An explicit path that cannot be read is an error; a
// missing default file is not.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("syncrate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DB: v.GetString("db"),
		Log: logger.Config{
			Level:  v.GetString("log.level"),
			Env:    v.GetString("log.env"),
			Output: v.GetString("log.output"),
		},
		Server: ServerConfig{
			Addr:         v.GetString("server.addr"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Dashboard: DashboardConfig{
			Refresh: v.GetDuration("dashboard.refresh"),
		},
		File: v.ConfigFileUsed(),
	}
	cfg.LLM = llmConfig(v)

	if cfg.Dashboard.Refresh <= 0 {
		cfg.Dashboard.Refresh = 5 * time.Second
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := llm.DefaultConfig()

	v.SetDefault("db", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.env", "development")
	v.SetDefault("log.output", "stderr")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("dashboard.refresh", 5*time.Second)

	v.SetDefault("llm.provider", "")
	v.SetDefault("llm.timeout", d.Timeout)
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", d.Anthropic.Model)
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", d.OpenAI.Model)
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.gemini.api_key", "")
	v.SetDefault("llm.gemini.model", d.Gemini.Model)
	v.SetDefault("llm.openrouter.api_key", "")
	v.SetDefault("llm.openrouter.model", d.OpenRouter.Model)
	v.SetDefault("llm.openrouter.base_url", "")
}

// llmConfig maps llm.* keys onto the provider config. When no provider is
// set, the well-known *_API_KEY variables are checked.
func llmConfig(v *viper.Viper) llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = v.GetString("llm.provider")
	cfg.Timeout = v.GetDuration("llm.timeout")

	cfg.Anthropic.APIKey = v.GetString("llm.anthropic.api_key")
	cfg.Anthropic.Model = v.GetString("llm.anthropic.model")
	cfg.OpenAI.APIKey = v.GetString("llm.openai.api_key")
	cfg.OpenAI.Model = v.GetString("llm.openai.model")
	cfg.OpenAI.BaseURL = v.GetString("llm.openai.base_url")
	cfg.Gemini.APIKey = v.GetString("llm.gemini.api_key")
	cfg.Gemini.Model = v.GetString("llm.gemini.model")
	cfg.OpenRouter.APIKey = v.GetString("llm.openrouter.api_key")
	cfg.OpenRouter.Model = v.GetString("llm.openrouter.model")
	cfg.OpenRouter.BaseURL = v.GetString("llm.openrouter.base_url")

	if cfg.Provider == "" {
		if discovered, ok := llm.DiscoverConfig(); ok {
			discovered.Timeout = cfg.Timeout
			return discovered
		}
	}
	return cfg
}

// LLMEnabled reports whether an LLM provider is selected.
func (c *Config) LLMEnabled() bool {
	return c.LLM.Provider != ""
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "syncrate"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "syncrate"), nil
}
