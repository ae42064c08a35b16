package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for promptmeter.
var rootCmd = &cobra.Command{
	Use:   "promptmeter",
	Short: "Run predictive prompts and account for their latency and cost",
	Long: `promptmeter sends a prompt together with a predicted output to an LLM
completion API, measures the round-trip time of the call and prices the
reported token usage in USD.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// versionCmd prints the promptmeter version.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "promptmeter %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(promptCmd)
	rootCmd.AddCommand(versionCmd)
}
