package cmd

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/app"
	"github.com/aginor/exphil/internal/catalog"
	"github.com/aginor/exphil/internal/explain"
	"github.com/aginor/exphil/internal/fetch"
	"github.com/aginor/exphil/internal/llm"
	"github.com/aginor/exphil/internal/philosophers"
	"github.com/aginor/exphil/internal/screens/quiz"
	"github.com/aginor/exphil/internal/screens/start"
	"github.com/aginor/exphil/internal/session"
	"github.com/aginor/exphil/internal/tips"
)

// runApp loads configuration, builds dependencies, and launches the TUI.
// With direct set the quiz screen opens immediately for category.
func runApp(cmd *cobra.Command, mode session.Mode, category string, direct bool) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := tuiLogger(cmd, cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	cat, err := cfg.Catalog()
	if err != nil {
		return fmt.Errorf("category table: %w", err)
	}
	selected, err := resolveCategory(cat, category)
	if err != nil {
		return err
	}
	category = selected.Code

	client := fetch.NewClient(
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithLogger(logger.Named("fetch")),
	)
	loader := fetch.NewLoader(client, cat, logger.Named("loader"))

	llmCfg := cfg.LLMConfig(nil)
	explainer := newExplainer(cmd, llmCfg, logger)

	seed := uint64(time.Now().UnixNano())
	opts := app.Options{
		Deps: start.Deps{
			Quiz: quiz.Deps{
				Catalog:        cat,
				Loader:         loader,
				Explainer:      explainer,
				Logger:         logger.Named("quiz"),
				Rand:           rand.New(rand.NewPCG(seed, seed>>1|1)),
				ExplainTimeout: llmCfg.Timeout,
			},
			Philosophers: philosophers.Default(),
			Tips:         tips.Default(),
			Rand:         rand.New(rand.NewPCG(seed>>2, seed|1)),
			Category:     category,
		},
		Direct: direct,
		Mode:   mode,
		Logger: logger,
	}

	logger.Info("starting",
		zap.String("version", version),
		zap.String("mode", mode.String()),
		zap.String("category", category),
		zap.Bool("ai", explainer.Available()))
	return app.Run(ctx, opts)
}

// newExplainer builds the optional explanation service. The app works
// without it; a misconfigured provider is reported and disabled.
func newExplainer(cmd *cobra.Command, cfg llm.Config, logger *zap.Logger) *explain.Service {
	provider, err := llm.NewProvider(cmd.Context(), cfg, logger.Named("llm"))
	switch {
	case errors.Is(err, llm.ErrDisabled):
		logger.Info("AI explanations disabled: no provider configured")
		return explain.NewService(nil, explain.DefaultConfig(), logger)
	case err != nil:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "AI-forklaringer er ikke tilgjengelige.")
		logger.Warn("LLM provider unavailable", zap.Error(err))
		return explain.NewService(nil, explain.DefaultConfig(), logger)
	}
	return explain.NewService(provider, explain.DefaultConfig(), logger.Named("explain"))
}

// resolveCategory validates an explicit --category against the table.
func resolveCategory(cat *catalog.Catalog, code string) (catalog.Category, error) {
	if code == "" {
		return cat.Resolve(""), nil
	}
	return cat.Lookup(code)
}
