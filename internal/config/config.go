// Package config loads the run configuration from file, environment, and
// flags through viper. Precedence is flag > environment > config file >
// default.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/radtran/internal/oracle"
)

// Google holds the spreadsheet boundary settings.
type Google struct {
	Credentials   string `mapstructure:"credentials"`
	SpreadsheetID string `mapstructure:"spreadsheet_id"`
	Sheet         string `mapstructure:"sheet"`
	SpeakerCol    string `mapstructure:"speaker_col"`
	SourceCol     string `mapstructure:"source_col"`
	GlossCol      string `mapstructure:"gloss_col"`
	TargetCol     string `mapstructure:"target_col"`
	HeaderRows    int    `mapstructure:"header_rows"`
}

// Oracle extends the client config with the prompt resources read once per
// run.
type Oracle struct {
	oracle.Config `mapstructure:",squash"`
	BasePromptPath string `mapstructure:"base_prompt"`
	SynopsisPath   string `mapstructure:"synopsis"`
}

// Translation holds the context policy.
type Translation struct {
	TargetLang       string `mapstructure:"target_lang"`
	TargetCode       string `mapstructure:"target_code"`
	ContextWindow    int    `mapstructure:"context_window"`
	MaxGlossaryTerms int    `mapstructure:"max_glossary_terms"`
}

// Run holds loop behavior defaults that flags can override.
type Run struct {
	Limit       int           `mapstructure:"limit"`
	MaxAttempts int           `mapstructure:"max_attempts"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	DryRun      bool          `mapstructure:"dry_run"`
}

type Config struct {
	Google      Google      `mapstructure:"google"`
	Oracle      Oracle      `mapstructure:"oracle"`
	Translation Translation `mapstructure:"translation"`
	Run         Run         `mapstructure:"run"`
	LogLevel    string      `mapstructure:"log_level"`
}

// SetDefaults registers every configuration default on v. Column letters
// and window sizes mirror the layout this tool grew up with: speaker /
// source / gloss / target in columns A-D under one header row.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("google.speaker_col", "A")
	v.SetDefault("google.source_col", "B")
	v.SetDefault("google.gloss_col", "C")
	v.SetDefault("google.target_col", "D")
	v.SetDefault("google.header_rows", 1)

	v.SetDefault("oracle.provider", "openai")
	v.SetDefault("oracle.model", "gpt-4o-mini")
	v.SetDefault("oracle.temperature", 0.2)
	v.SetDefault("oracle.timeout", 60*time.Second)

	v.SetDefault("translation.target_lang", "Swedish")
	v.SetDefault("translation.target_code", "sv")
	v.SetDefault("translation.context_window", 4)
	v.SetDefault("translation.max_glossary_terms", 40)

	v.SetDefault("run.max_attempts", 3)
	v.SetDefault("run.retry_delay", 2*time.Second)

	v.SetDefault("log_level", "info")
}

// Load unmarshals v into a Config and fills the oracle API key from the
// environment when the file leaves it out.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if cfg.Oracle.APIKey == "" {
		cfg.Oracle.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return &cfg, nil
}

// Validate checks the settings a run cannot start without.
func (c *Config) Validate() error {
	if c.Google.SpreadsheetID == "" {
		return fmt.Errorf("google.spreadsheet_id is required")
	}
	if c.Translation.TargetLang == "" {
		return fmt.Errorf("translation.target_lang is required")
	}
	if c.Oracle.Provider == "openai" && c.Oracle.APIKey == "" {
		return fmt.Errorf("oracle API key not provided (oracle.api_key or OPENAI_API_KEY)")
	}
	return nil
}
