// Package oracle wraps the text-completion service that performs the actual
// translation. A request carries the full assembled context (synopsis,
// glossary block, rolling dialogue window, current line); the response is a
// single normalized target-language line or a classified error.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Failure classes. The orchestrator retries ErrRateLimit and ErrTimeout,
// aborts the whole run on ErrAuth, and fails the single row on ErrMalformed
// or anything unclassified.
var (
	ErrAuth      = errors.New("oracle: authentication failed")
	ErrRateLimit = errors.New("oracle: rate limited")
	ErrTimeout   = errors.New("oracle: request timed out")
	ErrMalformed = errors.New("oracle: unusable response")
)

// Exchange is one previously translated line offered as precedent.
type Exchange struct {
	Speaker string
	Source  string
	Target  string
}

// Request is the ephemeral per-row prompt payload. It is assembled by the
// orchestrator and discarded after the call.
type Request struct {
	TargetLang      string
	Speaker         string
	SourcePrimary   string
	SourceSecondary string

	BasePrompt    string
	Synopsis      string
	GlossaryBlock string
	Context       []Exchange
}

// Service is a synchronous one-shot translation oracle.
type Service interface {
	Name() string
	Translate(ctx context.Context, req Request) (string, error)
}

// Config selects and parameterizes an oracle backend.
type Config struct {
	Provider    string        `mapstructure:"provider"`
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

const defaultTimeout = 60 * time.Second

// New builds the configured oracle backend.
func New(cfg Config) (Service, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	switch cfg.Provider {
	case "", "openai":
		return newOpenAIService(cfg)
	case "ollama":
		return newOllamaService(cfg), nil
	default:
		return nil, fmt.Errorf("unknown oracle provider %q (supported: openai, ollama)", cfg.Provider)
	}
}

// statusError classifies an HTTP response status into the failure taxonomy.
func statusError(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w (status %d)", ErrAuth, status)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w (status %d)", ErrRateLimit, status)
	case status == http.StatusRequestTimeout ||
		status == http.StatusBadGateway ||
		status == http.StatusServiceUnavailable ||
		status == http.StatusGatewayTimeout:
		return fmt.Errorf("%w (status %d)", ErrTimeout, status)
	default:
		return fmt.Errorf("oracle: unexpected status %d", status)
	}
}

// transportError maps a client-side failure. Deadline expiry and network
// timeouts both count as ErrTimeout so the retry policy applies.
func transportError(err error) error {
	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("oracle: request failed: %w", err)
}
