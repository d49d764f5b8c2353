package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cocowutech/placement/internal/llm"
	"github.com/cocowutech/placement/internal/store"
)

// Config is the application's resolved configuration: provider
// settings for the LLM layer plus the database path.
type Config struct {
	LLM    llm.Config
	DBPath string
}

// ForCmd binds a command's flags, the PLACEMENT_-prefixed environment,
// and an optional config file into a fresh viper instance.
func ForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PLACEMENT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("placement")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/placement")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("warning: config file: %v\n", err)
		}
	}
	return v
}

// Load resolves the full configuration for a command. Precedence:
// flags, then PLACEMENT_ environment, then config file, then defaults.
func Load(cmd *cobra.Command) (Config, error) {
	v := ForCmd(cmd)

	llmCfg := llm.DefaultConfig()
	if p := v.GetString("llm-provider"); p != "" {
		llmCfg.Provider = p
	}
	if k := v.GetString("gemini-api-key"); k != "" {
		llmCfg.Gemini.APIKey = k
	}
	if m := v.GetString("gemini-model"); m != "" {
		llmCfg.Gemini.Model = m
	}
	if k := v.GetString("openai-api-key"); k != "" {
		llmCfg.OpenAI.APIKey = k
	}
	if m := v.GetString("openai-model"); m != "" {
		llmCfg.OpenAI.Model = m
	}
	if u := v.GetString("openai-base-url"); u != "" {
		llmCfg.OpenAI.BaseURL = u
	}
	if k := v.GetString("anthropic-api-key"); k != "" {
		llmCfg.Anthropic.APIKey = k
	}
	if m := v.GetString("anthropic-model"); m != "" {
		llmCfg.Anthropic.Model = m
	}
	if d := v.GetDuration("llm-timeout"); d > 0 {
		llmCfg.Timeout = d
	}

	llmCfg, err := llm.DiscoverConfig(llmCfg)
	if err != nil {
		return Config{}, err
	}

	dbPath := v.GetString("db")
	if dbPath == "" {
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return Config{}, fmt.Errorf("resolve database path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return Config{}, fmt.Errorf("create database dir: %w", err)
	}

	return Config{LLM: llmCfg, DBPath: dbPath}, nil
}

// SessionTimeout is how long a single generation or scoring call may
// take, including retries.
func (c Config) SessionTimeout() time.Duration {
	if c.LLM.Timeout > 0 {
		return c.LLM.Timeout
	}
	return 30 * time.Second
}
