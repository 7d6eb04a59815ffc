package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
)

var answerSchema = &Schema{
	Name: "test-answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "minLength": 1},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

// chatServer answers every chat completion with status and body, and
// records the decoded request.
func chatServer(t *testing.T, status int, body any) (*httptest.Server, *map[string]any) {
	t.Helper()
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func completion(content, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func apiError(kind, msg string) map[string]any {
	return map[string]any{"error": map[string]any{"type": kind, "message": msg}}
}

func testOpenAIProvider(server *httptest.Server) *OpenAIProvider {
	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: "gpt-4o-mini"}
}

func TestOpenAIProvider_Generate(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     any
		schema   *Schema
		wantErr  any
		wantStop string
	}{
		{
			name:     "structured explanation",
			status:   http.StatusOK,
			body:     completion(`{"explanation":"Kant skiller mellom fenomen og ting i seg selv."}`, "stop"),
			schema:   answerSchema,
			wantStop: "end",
		},
		{
			name:     "plain text",
			status:   http.StatusOK,
			body:     completion("Fordi Hume er empirist.", "stop"),
			wantStop: "end",
		},
		{
			name:    "schema violation",
			status:  http.StatusOK,
			body:    completion(`{"explanation":""}`, "stop"),
			schema:  answerSchema,
			wantErr: new(*ErrInvalidResponse),
		},
		{
			name:    "truncated structured output",
			status:  http.StatusOK,
			body:    completion(`{"explanation":"Descartes`, "length"),
			schema:  answerSchema,
			wantErr: new(*ErrMaxTokensExceeded),
		},
		{
			name:    "rate limit",
			status:  http.StatusTooManyRequests,
			body:    apiError("tokens", "Rate limit exceeded"),
			wantErr: new(*ErrRateLimit),
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    apiError("server_error", "Internal server error"),
			wantErr: new(*ErrProviderUnavailable),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := chatServer(t, tt.status, tt.body)
			p := testOpenAIProvider(server)

			resp, err := p.Generate(context.Background(), Request{
				System:    "Du er en filosofilærer.",
				Messages:  UserMessage("Forklar svaret."),
				Schema:    tt.schema,
				MaxTokens: 256,
			})

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.As(err, tt.wantErr) {
					t.Fatalf("error = %T (%v), want %T", err, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if resp.StopReason != tt.wantStop {
				t.Errorf("stop = %q, want %q", resp.StopReason, tt.wantStop)
			}
			if resp.Usage.InputTokens != 40 || resp.Usage.OutputTokens != 25 {
				t.Errorf("usage = %+v", resp.Usage)
			}
		})
	}
}

func TestOpenAIProvider_RequestShape(t *testing.T) {
	server, got := chatServer(t, http.StatusOK, completion(`{"explanation":"ok"}`, "stop"))
	p := testOpenAIProvider(server)

	_, err := p.Generate(context.Background(), Request{
		System:   "system",
		Messages: []Message{{Role: RoleUser, Content: "q"}, {Role: RoleAssistant, Content: "a"}},
		Schema:   answerSchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	msgs, _ := (*got)["messages"].([]any)
	if len(msgs) != 3 {
		t.Fatalf("messages = %d, want system + 2", len(msgs))
	}
	wantRoles := []string{"system", "user", "assistant"}
	for i, m := range msgs {
		if role := m.(map[string]any)["role"]; role != wantRoles[i] {
			t.Errorf("message %d role = %v, want %s", i, role, wantRoles[i])
		}
	}

	format, _ := (*got)["response_format"].(map[string]any)
	if format["type"] != "json_schema" {
		t.Errorf("response_format = %v, want json_schema", format)
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	tests := []struct {
		name      string
		cfg       OpenAIConfig
		wantModel string
		wantErr   bool
	}{
		{"short name resolved", OpenAIConfig{APIKey: "k", Model: "gpt-mini"}, "gpt-4.1-mini", false},
		{"unknown name kept", OpenAIConfig{APIKey: "k", Model: "o4-mini"}, "o4-mini", false},
		{"compatible endpoint", OpenAIConfig{APIKey: "k", Model: "gpt-4o", BaseURL: "http://localhost:11434/v1"}, "gpt-4o", false},
		{"missing key", OpenAIConfig{Model: "gpt-4o"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewOpenAIProvider(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && p.ModelID() != tt.wantModel {
				t.Errorf("model = %q, want %q", p.ModelID(), tt.wantModel)
			}
		})
	}
}
