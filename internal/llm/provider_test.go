package llm

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockJSON(map[string]string{"b": "2"}),
	)

	resp, err := mock.Generate(context.Background(), Request{Messages: UserMessage("first")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"a":1}` || resp.Usage.InputTokens != 10 || resp.StopReason != "end" {
		t.Fatalf("unexpected first response: %+v", resp)
	}

	resp, err = mock.Generate(context.Background(), Request{Messages: UserMessage("second")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != `{"b":"2"}` {
		t.Fatalf("unexpected second response: %s", resp.Content)
	}
	if mock.CallCount() != 2 || mock.Calls()[1].Messages[0].Content != "second" {
		t.Fatalf("calls not recorded: %+v", mock.Calls())
	}
}

func TestMockProvider_EmptyQueue(t *testing.T) {
	_, err := NewMockProvider().Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T", err)
	}
}

func TestMockProvider_ValidatesAgainstSchema(t *testing.T) {
	mock := NewMockProvider(MockJSON(map[string]any{"name": "Kant"}))
	_, err := mock.Generate(context.Background(), Request{Schema: philosopherSchema()})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}
	ctx = WithPurpose(ctx, PurposeExplain)
	if p := PurposeFrom(ctx); p != PurposeExplain {
		t.Fatalf("expected %q, got %q", PurposeExplain, p)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"none", Config{Provider: ProviderNone}, false},
		{"anthropic without key", Config{Provider: ProviderAnthropic}, true},
		{"anthropic with key", Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "sk"}}, false},
		{"openai without key", Config{Provider: ProviderOpenAI}, true},
		{"gemini with key", Config{Provider: ProviderGemini, Gemini: GeminiConfig{APIKey: "g"}}, false},
		{"openrouter without key", Config{Provider: ProviderOpenRouter}, true},
		{"mock needs no key", Config{Provider: ProviderMock}, false},
		{"unknown provider", Config{Provider: "llama"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Discover(t *testing.T) {
	env := map[string]string{
		"OPENAI_API_KEY": "sk-openai",
		"GEMINI_API_KEY": "g-key",
	}
	lookup := func(k string) string { return env[k] }

	cfg := DefaultConfig()
	if !cfg.Discover(lookup) {
		t.Fatal("expected a provider to be discovered")
	}
	if cfg.Provider != ProviderOpenAI || cfg.OpenAI.APIKey != "sk-openai" {
		t.Errorf("discovered %s, want openai", cfg.Provider)
	}

	// An explicit provider is left alone.
	cfg = DefaultConfig()
	cfg.Provider = ProviderGemini
	if cfg.Discover(lookup) {
		t.Error("Discover must not override an explicit provider")
	}

	cfg = DefaultConfig()
	if cfg.Discover(func(string) string { return "" }) || cfg.Enabled() {
		t.Error("nothing should be discovered from an empty environment")
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(context.Background(), DefaultConfig(), nil); !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}

	cfg := DefaultConfig()
	cfg.Provider = ProviderOpenAI
	if _, err := NewProvider(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected validation error without api key")
	}

	cfg.OpenAI.APIKey = "sk-test"
	p, err := NewProvider(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewProvider: %v", err)
	}
	if p.ModelID() != "gpt-4o-mini" {
		t.Errorf("ModelID = %q", p.ModelID())
	}

	cfg.Provider = ProviderMock
	p, err = NewProvider(context.Background(), cfg, nil)
	if err != nil || p.ModelID() != "mock" {
		t.Fatalf("mock provider = (%v, %v)", p, err)
	}
}

func TestLoggingProvider(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`), Usage: Usage{InputTokens: 1000, OutputTokens: 100}},
		MockResponse{Err: &ErrProviderUnavailable{}},
	)
	p := WithLogging(mock, zap.New(core))
	ctx := WithPurpose(context.Background(), PurposeExplain)

	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := p.Generate(ctx, Request{}); err == nil {
		t.Fatal("expected error")
	}

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["purpose"] != PurposeExplain {
		t.Errorf("unexpected success entry: %+v", entries[0])
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["success"] != false {
		t.Errorf("unexpected failure entry: %+v", entries[1])
	}
}

func TestLookupCost(t *testing.T) {
	c := LookupCost("gpt-4o-mini")
	if c == nil {
		t.Fatal("expected pricing for gpt-4o-mini")
	}
	if got := c.Cost(1_000_000, 1_000_000); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("Cost = %v, want 0.75", got)
	}
	if LookupCost("mock") != nil {
		t.Error("mock has no pricing")
	}
}
