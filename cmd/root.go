package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jokicbt",
	Short: "Computer-based test client",
	Long:  "JokiCBT: take multiple-choice tests from the terminal and submit them for scoring.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, false)
	},
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to YAML config file (overrides JOKICBT_CONFIG env var)")
	pf.String("db", "", "Path to SQLite database file (overrides JOKICBT_DB env var)")
	pf.String("base-url", "", "Test service base URL (overrides JOKICBT_BASE_URL env var)")
	pf.String("token", "", "Bearer token (overrides JOKICBT_TOKEN and the saved token)")
	pf.String("code", "", "Test code (overrides JOKICBT_CODE and the saved code)")
	pf.String("user-id", "", "User id (overrides JOKICBT_USER_ID and the token claims)")

	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(serveDevCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)
}
