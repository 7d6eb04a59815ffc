package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aginor/exphil/internal/fetch"
	"github.com/aginor/exphil/internal/question"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <code>",
	Short: "Fetch and normalize a category, printing the normalization report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		basisFlag, _ := cmd.Flags().GetString("basis")
		limit, _ := cmd.Flags().GetInt("limit")

		basis, err := question.ParseBasis(basisFlag)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("basis") {
			basis = ""
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger, err := cliLogger(cfg)
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		cat, err := cfg.Catalog()
		if err != nil {
			return fmt.Errorf("category table: %w", err)
		}
		category, err := resolveCategory(cat, args[0])
		if err != nil {
			return err
		}

		client := fetch.NewClient(fetch.WithTimeout(cfg.Fetch.Timeout), fetch.WithLogger(logger))
		loader := fetch.NewLoader(client, cat, logger)

		qs, report, err := loader.LoadWithReport(cmd.Context(), category.Code, basis)
		if err != nil {
			logger.Error("fetch failed", zap.String("category", category.Code), zap.Error(err))
			return fmt.Errorf("fetch %s: %w", category.Code, err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s\n%s\n\n%s\n", category.Label(), category.URL, report)

		for i, q := range qs {
			if limit >= 0 && i >= limit {
				fmt.Fprintf(out, "\n… %d til\n", len(qs)-i)
				break
			}
			fmt.Fprintf(out, "\n%d. %s\n", i+1, q.Text)
			for j, opt := range q.Options {
				mark := " "
				if q.IsCorrect(j) {
					mark = "✓"
				}
				fmt.Fprintf(out, "   %s %d) %s\n", mark, j+1, opt)
			}
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().String("basis", "auto", "Index basis: auto, zero or one (default: the category's configured basis)")
	inspectCmd.Flags().Int("limit", 5, "Number of questions to print (-1 for all)")
}
