package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/aginor/exphil/internal/selfupdate"
)

const updateTimeout = 2 * time.Minute

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update exphil to the latest version",
	RunE: func(cmd *cobra.Command, args []string) error {
		checkOnly, _ := cmd.Flags().GetBool("check")
		target, _ := cmd.Flags().GetString("version")

		ctx, cancel := context.WithTimeout(cmd.Context(), updateTimeout)
		defer cancel()

		checker := selfupdate.NewChecker(selfupdate.WithTimeout(updateTimeout))
		if checkOnly {
			return runCheck(ctx, cmd.OutOrStdout(), checker)
		}
		return runUpdate(ctx, cmd.OutOrStdout(), checker, target)
	},
}

func init() {
	updateCmd.Flags().Bool("check", false, "Only check whether a newer release exists")
	updateCmd.Flags().String("version", "", "Install this release tag instead of the latest")
}

func runCheck(ctx context.Context, out io.Writer, checker *selfupdate.Checker) error {
	res, err := checker.Check(ctx, &selfupdate.CheckInput{Version: version})
	if err != nil {
		return err
	}
	if res.UpdateAvailable {
		fmt.Fprintf(out, "Ny versjon %s er tilgjengelig: %s\n", res.LatestVersion, res.ReleaseURL)
	} else {
		fmt.Fprintln(out, "Du har siste versjon:", version)
	}
	return nil
}

func runUpdate(ctx context.Context, out io.Writer, checker *selfupdate.Checker, target string) error {
	err := checker.Update(ctx, &selfupdate.UpdateInput{
		CurrentVersion: version,
		TargetVersion:  target,
	}, func(p selfupdate.UpdateProgress) {
		fmt.Fprintln(out, p.Message)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, selfupdate.ErrDevBuild):
		fmt.Fprintln(out, "Kan ikke oppdatere en utviklingsversjon. Installer en release først.")
		return nil
	case errors.Is(err, selfupdate.ErrAlreadyLatest):
		fmt.Fprintln(out, "Du har allerede siste versjon.")
		return nil
	case errors.Is(err, os.ErrPermission):
		return fmt.Errorf("%w\n\nPrøv: sudo exphil update", err)
	}
	return err
}
