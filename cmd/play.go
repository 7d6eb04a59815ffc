package cmd

import (
	"github.com/spf13/cobra"

	"github.com/aginor/exphil/internal/session"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz or learn session directly",
	RunE: func(cmd *cobra.Command, args []string) error {
		modeFlag, _ := cmd.Flags().GetString("mode")
		category, _ := cmd.Flags().GetString("category")

		mode, err := session.ParseMode(modeFlag)
		if err != nil {
			return err
		}
		return runApp(cmd, mode, category, true)
	},
}

func init() {
	playCmd.Flags().String("mode", "quiz", "Session mode: quiz or learn")
	playCmd.Flags().String("category", "", "Category code (default: the configured default category)")
}
