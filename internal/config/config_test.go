package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newLoaded(t *testing.T, set map[string]any) *Config {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	for key, val := range set {
		v.Set(key, val)
	}
	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := newLoaded(t, nil)

	if cfg.Google.SpeakerCol != "A" || cfg.Google.TargetCol != "D" {
		t.Errorf("unexpected default columns: %+v", cfg.Google)
	}
	if cfg.Google.HeaderRows != 1 {
		t.Errorf("expected 1 header row, got %d", cfg.Google.HeaderRows)
	}
	if cfg.Translation.ContextWindow != 4 {
		t.Errorf("expected context window 4, got %d", cfg.Translation.ContextWindow)
	}
	if cfg.Translation.MaxGlossaryTerms != 40 {
		t.Errorf("expected 40 glossary terms, got %d", cfg.Translation.MaxGlossaryTerms)
	}
	if cfg.Oracle.Provider != "openai" {
		t.Errorf("expected openai provider, got %q", cfg.Oracle.Provider)
	}
	if cfg.Oracle.Timeout != 60*time.Second {
		t.Errorf("expected 60s timeout, got %v", cfg.Oracle.Timeout)
	}
	if cfg.Run.MaxAttempts != 3 {
		t.Errorf("expected 3 attempts, got %d", cfg.Run.MaxAttempts)
	}
}

func TestLoad_APIKeyFallsBackToEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	cfg := newLoaded(t, nil)

	if cfg.Oracle.APIKey != "sk-from-env" {
		t.Errorf("expected API key from environment, got %q", cfg.Oracle.APIKey)
	}
}

func TestLoad_ExplicitKeyBeatsEnv(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-from-env")
	cfg := newLoaded(t, map[string]any{"oracle.api_key": "sk-explicit"})

	if cfg.Oracle.APIKey != "sk-explicit" {
		t.Errorf("expected explicit API key to win, got %q", cfg.Oracle.APIKey)
	}
}

func TestValidate(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	tests := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{
			name:    "missing spreadsheet",
			set:     map[string]any{"oracle.api_key": "sk-x"},
			wantErr: "spreadsheet_id",
		},
		{
			name:    "missing api key for openai",
			set:     map[string]any{"google.spreadsheet_id": "abc"},
			wantErr: "API key",
		},
		{
			name: "ollama needs no key",
			set: map[string]any{
				"google.spreadsheet_id": "abc",
				"oracle.provider":       "ollama",
			},
		},
		{
			name: "complete",
			set: map[string]any{
				"google.spreadsheet_id": "abc",
				"oracle.api_key":        "sk-x",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newLoaded(t, tt.set)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}
