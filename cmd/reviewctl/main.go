package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/cmd/reviewctl/commands"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/observability/logging"
)

var (
	// Version information (set by build flags)
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	// Initialize logging
	if _, err := logging.InitLoggerFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
	}

	rootCmd := &cobra.Command{
		Use:   "reviewctl",
		Short: "Product review classifier CLI",
		Long: `reviewctl classifies product reviews from the command line using the
same artifacts the daemon serves.

Common workflows:
  reviewctl classify "Loved this dress!"   # Classify one review
  cat reviews.txt | reviewctl classify     # Classify piped text
  reviewctl artifacts                      # Show artifact load status

For detailed help on any command, use:
  reviewctl <command> --help`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	}

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "table", "Output format: table, json, yaml")

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			os.Setenv("LOG_LEVEL", "debug")
			if _, err := logging.InitLoggerFromEnv(); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to enable verbose logging: %v\n", err)
			}
		}
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewClassifyCmd())
	rootCmd.AddCommand(commands.NewArtifactsCmd())

	// Execute
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
