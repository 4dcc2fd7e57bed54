package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *openAIService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := newOpenAIService(Config{
		APIKey:  "test-key",
		Model:   "gpt-4o-mini",
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc
}

func chatReply(content string) []byte {
	body, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	})
	return body
}

func TestOpenAI_Translate(t *testing.T) {
	var gotAuth string
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("unexpected messages: %+v", req.Messages)
		}

		w.Write(chatReply("Vad gör du här?"))
	})

	got, err := svc.Translate(context.Background(), Request{
		TargetLang:    "Swedish",
		Speaker:       "Olena",
		SourcePrimary: "Що ти тут робиш?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Vad gör du här?" {
		t.Errorf("expected translation, got %q", got)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
}

func TestOpenAI_Translate_NormalizesOutput(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(chatReply("Olena: \"Vad gör du här?\"\n\n(Translator note: informal)"))
	})

	got, err := svc.Translate(context.Background(), Request{
		TargetLang:    "Swedish",
		Speaker:       "Olena",
		SourcePrimary: "Що ти тут робиш?",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Vad gör du här?" {
		t.Errorf("expected normalized single line, got %q", got)
	}
}

func TestOpenAI_Translate_StatusClassification(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, ErrAuth},
		{"forbidden", http.StatusForbidden, ErrAuth},
		{"rate limited", http.StatusTooManyRequests, ErrRateLimit},
		{"gateway timeout", http.StatusGatewayTimeout, ErrTimeout},
		{"service unavailable", http.StatusServiceUnavailable, ErrTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := svc.Translate(context.Background(), Request{TargetLang: "Swedish", SourcePrimary: "x"})
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: expected %v, got %v", tt.status, tt.want, err)
			}
		})
	}
}

func TestOpenAI_Translate_UnexpectedStatusNotRetryable(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	_, err := svc.Translate(context.Background(), Request{TargetLang: "Swedish", SourcePrimary: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	for _, sentinel := range []error{ErrAuth, ErrRateLimit, ErrTimeout, ErrMalformed} {
		if errors.Is(err, sentinel) {
			t.Errorf("status 400 should not classify as %v", sentinel)
		}
	}
}

func TestOpenAI_Translate_EmptyOutputIsMalformed(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"no choices", []byte(`{"choices":[]}`)},
		{"blank content", chatReply("   \n  ")},
		{"not json", []byte(`<html>oops</html>`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write(tt.body)
			})

			_, err := svc.Translate(context.Background(), Request{TargetLang: "Swedish", SourcePrimary: "x"})
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestOpenAI_Translate_ContextDeadline(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write(chatReply("sen"))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := svc.Translate(ctx, Request{TargetLang: "Swedish", SourcePrimary: "x"})
	if !errors.Is(err, ErrTimeout) {
		t.Errorf("expected ErrTimeout, got %v", err)
	}
}

func TestNewOpenAIService_RequiresKey(t *testing.T) {
	_, err := New(Config{Provider: "openai", Model: "gpt-4o-mini"})
	if !errors.Is(err, ErrAuth) {
		t.Errorf("expected ErrAuth for missing key, got %v", err)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "carrier-pigeon"})
	if err == nil {
		t.Error("expected error for unknown provider")
	}
}
