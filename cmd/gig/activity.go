package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigboard/gigboard/internal/client"
)

var activityCmd = &cobra.Command{
	Use:     "activity",
	Short:   "Show the activity feed (requires the admin token)",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		verb, _ := cmd.Flags().GetString("verb")
		actorKind, _ := cmd.Flags().GetString("actor-kind")
		actorID, _ := cmd.Flags().GetString("actor")
		full, _ := cmd.Flags().GetBool("full")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		resp, err := gig.ListActivity(context.Background(), &client.ListActivityRequest{
			Verb:      verb,
			ActorKind: actorKind,
			ActorID:   actorID,
			Full:      full,
			Limit:     limit,
			Offset:    offset,
		})
		if err != nil {
			return fmt.Errorf("listing activity: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printActivityTable(resp.Activity, resp.Total)
		}
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the gigboard service",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := gig.Health(context.Background())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]string{"status": status})
		} else {
			fmt.Printf("Health: %s\n", status)
		}

		if status != "ok" {
			return fmt.Errorf("unhealthy: %s", status)
		}
		return nil
	},
}

func init() {
	activityCmd.Flags().String("verb", "", "filter by verb")
	activityCmd.Flags().String("actor-kind", "", "filter by actor kind")
	activityCmd.Flags().String("actor", "", "filter by actor ID")
	activityCmd.Flags().Bool("full", false, "include actor and target summaries")
	activityCmd.Flags().Int("limit", 50, "maximum number of entries to return")
	activityCmd.Flags().Int("offset", 0, "offset for pagination")
}
