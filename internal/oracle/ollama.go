package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/valpere/radtran/internal/postprocess"
)

const defaultOllamaBaseURL = "http://localhost:11434"

// ollamaService runs the oracle against a local Ollama instance. There is no
// authentication; the single-prompt generate endpoint gets the system and
// user prompts concatenated.
type ollamaService struct {
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

func newOllamaService(cfg Config) *ollamaService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = "llama3.2"
	}
	return &ollamaService{
		baseURL:     baseURL,
		model:       model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}
}

func (s *ollamaService) Name() string {
	return "ollama"
}

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

func (s *ollamaService) Translate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   s.model,
		Prompt:  buildSystemPrompt(req) + "\n\n" + buildUserPrompt(req),
		Stream:  false,
		Options: map[string]any{"temperature": s.temperature},
	})
	if err != nil {
		return "", fmt.Errorf("oracle: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("oracle: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode)
	}

	var gen generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return "", fmt.Errorf("%w: decode failed: %v", ErrMalformed, err)
	}

	line := postprocess.SingleLine(postprocess.Clean(gen.Response), req.Speaker)
	if line == "" {
		return "", fmt.Errorf("%w: empty translation", ErrMalformed)
	}
	return line, nil
}
