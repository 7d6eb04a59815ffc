package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List the configured question categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		cat, err := cfg.Catalog()
		if err != nil {
			return fmt.Errorf("category table: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "  %-4s  %-28s  %-5s  %s\n", "Kode", "Navn", "Basis", "URL")
		fmt.Fprintln(out, strings.Repeat("─", 100))
		for _, c := range cat.All() {
			marker := " "
			if c.Code == cat.DefaultCode() {
				marker = "*"
			}
			basis := string(c.Basis)
			if basis == "" {
				basis = "auto"
			}
			fmt.Fprintf(out, "%s %-4s  %-28s  %-5s  %s\n", marker, c.Code, c.Name, basis, c.URL)
		}
		fmt.Fprintln(out, "\n* standardkategori")
		return nil
	},
}
