package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/classification"
	"github.com/SUDARSHANJADHAV2/Smart-Review-Classifer/pkg/cli"
)

// NewArtifactsCmd creates the artifacts command
func NewArtifactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "artifacts",
		Short: "Show classifier artifact status",
		Long: `Display which model artifacts loaded and where they were read from.

Each classification axis degrades independently, so a missing artifact
means one unavailable axis, not a broken classifier.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := cmd.Parent().Flag("config").Value.String()
			outputFormat := cmd.Parent().Flag("output").Value.String()

			cfg := loadConfigOrDefault(configPath)
			snapshot := classification.LoadSnapshot(cfg.Artifacts)

			return displayArtifactStatus(snapshot.Status(), outputFormat)
		},
	}
}

func displayArtifactStatus(statuses []classification.ArtifactStatus, format string) error {
	switch format {
	case "json":
		return cli.PrintJSON(statuses)
	case "yaml":
		return cli.PrintYAML(statuses)
	}

	// Table format
	rows := make([][]string, 0, len(statuses))
	loaded := 0
	for _, status := range statuses {
		state := "missing"
		if status.Loaded {
			state = "loaded"
			loaded++
		}
		path := status.Path
		if path == "" {
			path = "-"
		}
		rows = append(rows, []string{status.Name, state, path})
	}

	fmt.Println("\nArtifact Status:")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	cli.PrintTable([]string{"ARTIFACT", "STATE", "PATH"}, rows)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	switch {
	case loaded == len(statuses):
		cli.Success(fmt.Sprintf("All %d artifacts loaded", loaded))
	case loaded == 0:
		cli.Error("No artifacts loaded, every axis is unavailable")
		cli.Info("Configure artifact paths in the config file")
	default:
		cli.Warning(fmt.Sprintf("%d of %d artifacts loaded", loaded, len(statuses)))
		cli.Info("Missing artifacts leave their axis unavailable")
	}

	return nil
}
