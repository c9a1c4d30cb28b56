package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/carbon/internal/client"
	"github.com/alfredjeanlab/carbon/internal/config"
	"github.com/alfredjeanlab/carbon/internal/ui"
)

var (
	httpURL    string
	jsonOutput bool

	carbonClient client.EmissionsClient
)

func defaultHTTPURL() string {
	if s := os.Getenv("CARBON_HTTP_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return config.DefaultHTTPURL
}

var rootCmd = &cobra.Command{
	Use:          "carbon <command>",
	Short:        "CI/CD carbon-emission ledger",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !ui.ShouldUseColor() {
			ui.ForceNoColor()
		}
		carbonClient = client.NewHTTPClient(httpURL)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if carbonClient != nil {
			carbonClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&httpURL, "http-url", defaultHTTPURL(), "ledger server URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "ledger", Title: "Ledger:"},
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Ledger
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(badgeCmd)
	rootCmd.AddCommand(simulateCmd)

	// Views
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(watchCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
