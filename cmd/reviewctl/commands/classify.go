package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/classification"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/cli"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/config"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/services"
)

// NewClassifyCmd creates the classify command
func NewClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [text]",
		Short: "Classify a product review",
		Long: `Classify a product review without a running server.

This command loads the configured artifacts, runs the review through the
classifier, and displays:
  - Sentiment, review type, and product category with confidence
  - Keywords that explain the review type
  - The numeric topic id for the product category

Review text comes from the arguments, or from stdin when piped:
  reviewctl classify "Runs small, ordered a size up"
  cat review.txt | reviewctl classify`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := reviewTextFrom(args)
			if err != nil {
				return err
			}

			configPath := cmd.Parent().Flag("config").Value.String()
			outputFormat := cmd.Parent().Flag("output").Value.String()

			service := services.NewReviewServiceFromConfig(loadConfigOrDefault(configPath))
			response, err := service.Analyze(services.ReviewRequest{Text: text})
			if err != nil {
				return fmt.Errorf("failed to classify review: %w", err)
			}

			return displayAnalysis(response, outputFormat)
		},
	}
}

// reviewTextFrom joins the arguments, or reads stdin when the command has no
// arguments and input is piped in.
func reviewTextFrom(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if cli.IsTerminal() {
		return "", fmt.Errorf("no review text given (pass it as an argument or pipe it on stdin)")
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read review from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// loadConfigOrDefault degrades to default settings when the config file is
// absent, so the CLI stays usable on a fresh checkout.
func loadConfigOrDefault(configPath string) *config.ClassifierConfig {
	cfg, err := config.Load(configPath)
	if err != nil {
		cli.Warning(fmt.Sprintf("Could not load config %s: %v", configPath, err))
		cli.Info("Falling back to default artifact paths")
		return config.Default()
	}
	return cfg
}

func displayAnalysis(response *services.ReviewResponse, format string) error {
	switch format {
	case "json":
		return cli.PrintJSON(response)
	case "yaml":
		return cli.PrintYAML(response)
	}

	// Table format
	fmt.Println("\nReview Analysis:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	cli.PrintTable(
		[]string{"AXIS", "LABEL", "CONFIDENCE"},
		[][]string{
			axisRow("Sentiment", response.Sentiment),
			axisRow("Review type", response.ReviewType),
			axisRow("Product category", response.ProductCategory),
		},
	)
	fmt.Println()

	if len(response.MatchedKeywords) > 0 {
		fmt.Printf("Matched keywords: %s\n", strings.Join(response.MatchedKeywords, ", "))
	}
	if response.TopicID != nil {
		fmt.Printf("Topic ID:         %d\n", *response.TopicID)
	}
	fmt.Printf("Cleaned text:     %s\n", response.CleanedText)
	fmt.Printf("Processing time:  %dms\n", response.ProcessingTimeMs)

	if !response.Sentiment.Available || !response.ReviewType.Available || !response.ProductCategory.Available {
		cli.Warning("Some axes are unavailable")
		cli.Info("Check artifact paths with: reviewctl artifacts")
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	return nil
}

func axisRow(name string, result classification.AxisResult) []string {
	if !result.Available {
		return []string{name, "unavailable", "-"}
	}
	return []string{name, result.Label, fmt.Sprintf("%.2f", result.Confidence)}
}
