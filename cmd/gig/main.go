package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gigboard/gigboard/internal/client"
	"github.com/gigboard/gigboard/internal/ui"
)

var (
	serverURL  string
	authToken  string
	adminToken string
	jsonOutput bool

	gig client.GigClient
)

func defaultServerURL() string {
	if s := os.Getenv("GIG_URL"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultToken() string {
	if s := os.Getenv("GIG_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

func defaultAdminToken() string {
	if s := os.Getenv("GIG_ADMIN_TOKEN"); s != "" {
		return s
	}
	return activeRemoteAdminToken()
}

var rootCmd = &cobra.Command{
	Use:   "gig <command>",
	Short: "CLI client for the gigboard marketplace",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		gig = client.NewHTTPClient(serverURL, authToken, adminToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if gig != nil {
			gig.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", defaultServerURL(), "server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultToken(), "bearer token for authentication")
	rootCmd.PersistentFlags().StringVar(&adminToken, "admin-token", defaultAdminToken(), "admin token for the activity feed")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "tasks", Title: "Tasks:"},
		&cobra.Group{ID: "accounts", Title: "Accounts:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false
	rootCmd.SetHelpFunc(colorizedHelpFunc())

	// Tasks
	rootCmd.AddCommand(taskCreateCmd)
	rootCmd.AddCommand(taskShowCmd)
	rootCmd.AddCommand(taskListCmd)
	rootCmd.AddCommand(taskUpdateCmd)
	rootCmd.AddCommand(taskCloseCmd)
	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(applicationsCmd)
	rootCmd.AddCommand(inviteCmd)
	rootCmd.AddCommand(participationsCmd)
	rootCmd.AddCommand(respondCmd)

	// Accounts
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(accountShowCmd)
	rootCmd.AddCommand(accountListCmd)
	rootCmd.AddCommand(connectCmd)

	// System
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
