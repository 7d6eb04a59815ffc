package fetch

import (
	"context"

	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/catalog"
	"github.com/aginor/exphil/internal/question"
)

// Loader resolves a category code through a catalog, fetches its payload
// and normalizes it. It satisfies session.Loader.
type Loader struct {
	client  *Client
	catalog *catalog.Catalog
	logger  *zap.Logger
}

// NewLoader creates a Loader. A nil logger discards output.
func NewLoader(client *Client, cat *catalog.Catalog, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{client: client, catalog: cat, logger: logger}
}

// Load fetches and normalizes the questions of code. Unknown codes use the
// catalog's default category.
func (l *Loader) Load(ctx context.Context, code string) ([]question.Question, error) {
	qs, _, err := l.LoadWithReport(ctx, code, "")
	return qs, err
}

// LoadWithReport is Load with an optional basis override. An empty basis
// uses the category's configured basis.
func (l *Loader) LoadWithReport(ctx context.Context, code string, basis question.Basis) ([]question.Question, question.Report, error) {
	cat := l.catalog.Resolve(code)
	if basis == "" {
		basis = cat.Basis
	}

	records, err := l.client.Fetch(ctx, cat.URL)
	if err != nil {
		return nil, question.Report{}, err
	}

	qs, report := question.NormalizeWithReport(records, question.Options{Basis: basis})
	l.logger.Info("normalized category",
		zap.String("category", cat.Code),
		zap.String("basis", string(report.Applied)),
		zap.Bool("basis_detected", report.Detected()),
		zap.Int("count", report.Kept),
		zap.Int("dropped", report.Dropped),
		zap.Int("repaired", report.Repaired),
		zap.Int("clamped", report.Clamped))
	return qs, report, nil
}
