package cmd

import (
	"github.com/spf13/cobra"
)

var takeCmd = &cobra.Command{
	Use:   "take [code]",
	Short: "Start a test immediately",
	Long:  "Fetch the questions for a test code and open the test screen. The code argument overrides --code, JOKICBT_CODE and the saved code.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			if err := cmd.Flags().Set("code", args[0]); err != nil {
				return err
			}
		}
		return runApp(cmd, true)
	},
}
