// Package explain produces AI explanations for questions whose source
// carries none.
package explain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/llm"
	"github.com/aginor/exphil/internal/question"
)

// ErrUnavailable is returned when no LLM provider is configured.
var ErrUnavailable = errors.New("AI explanations are not configured")

// Config tunes explanation requests.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns the default request settings.
func DefaultConfig() Config {
	return Config{MaxTokens: 400, Temperature: 0.2}
}

// Service generates explanations and caches them per question for the
// lifetime of the process. Safe for concurrent use.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string]string
}

// NewService creates an explanation service. A nil provider yields a
// service whose Explain always returns ErrUnavailable.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		logger:   logger,
		cache:    make(map[string]string),
	}
}

// Available reports whether a provider is configured.
func (s *Service) Available() bool {
	return s != nil && s.provider != nil
}

// Cached returns a previously generated explanation.
func (s *Service) Cached(q question.Question) (string, bool) {
	if s == nil {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.cache[cacheKey(q)]
	return text, ok
}

// cacheKey identifies a question by everything the prompt is built from,
// so equal prompts with different options or answers do not collide.
func cacheKey(q question.Question) string {
	parts := append([]string{q.Category, q.Text, strconv.Itoa(q.CorrectIndex)}, q.Options...)
	return strings.Join(parts, "\x1f")
}

type output struct {
	Explanation string `json:"explanation"`
}

// Explain returns an explanation for q, from cache when possible.
func (s *Service) Explain(ctx context.Context, q question.Question) (string, error) {
	if !s.Available() {
		return "", ErrUnavailable
	}
	if text, ok := s.Cached(q); ok {
		return text, nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeExplain)
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Messages:    llm.UserMessage(userMessage(q)),
		Schema:      Schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("explain question: %w", err)
	}

	var out output
	if err := json.Unmarshal(resp.Content, &out); err != nil {
		return "", fmt.Errorf("parse explanation: %w", err)
	}
	text := strings.TrimSpace(out.Explanation)
	if text == "" {
		return "", errors.New("parse explanation: empty text")
	}

	s.mu.Lock()
	s.cache[cacheKey(q)] = text
	s.mu.Unlock()

	s.logger.Debug("explanation generated",
		zap.String("category", q.Category),
		zap.Int("chars", len(text)))
	return text, nil
}
