package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/valpere/radtran/internal/postprocess"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// openAIService talks the chat-completions wire format. It works against
// OpenAI itself or any compatible gateway selected via BaseURL.
type openAIService struct {
	apiKey      string
	baseURL     string
	model       string
	temperature float64
	client      *http.Client
}

func newOpenAIService(cfg Config) (*openAIService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: API key not configured", ErrAuth)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("oracle model is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	return &openAIService{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

func (s *openAIService) Name() string {
	return "openai"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *openAIService) Translate(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       s.model,
		Temperature: s.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: buildSystemPrompt(req)},
			{Role: "user", Content: buildUserPrompt(req)},
		},
	})
	if err != nil {
		return "", fmt.Errorf("oracle: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("oracle: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp.StatusCode)
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return "", fmt.Errorf("%w: decode failed: %v", ErrMalformed, err)
	}
	if len(chat.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", ErrMalformed)
	}

	line := postprocess.SingleLine(postprocess.Clean(chat.Choices[0].Message.Content), req.Speaker)
	if line == "" {
		return "", fmt.Errorf("%w: empty translation after %s", ErrMalformed, time.Since(start).Round(time.Millisecond))
	}
	return line, nil
}
