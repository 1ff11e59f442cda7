package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigboard/gigboard/internal/client"
)

var applyCmd = &cobra.Command{
	Use:     "apply <task-id>",
	Short:   "Bid on a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, _ := cmd.Flags().GetString("account")
		pitch, _ := cmd.Flags().GetString("pitch")

		app, err := gig.CreateApplication(context.Background(), args[0], &client.CreateApplicationRequest{
			AccountID: account,
			Pitch:     pitch,
		})
		if err != nil {
			return fmt.Errorf("applying: %w", err)
		}

		if jsonOutput {
			printJSON(app)
		} else {
			fmt.Printf("application %s filed on %s\n", app.ID, app.TaskID)
		}
		return nil
	},
}

var applicationsCmd = &cobra.Command{
	Use:     "applications <task-id>",
	Short:   "List applications on a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		apps, err := gig.ListApplications(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing applications: %w", err)
		}

		if jsonOutput {
			printJSON(apps)
		} else {
			printApplicationListTable(apps)
		}
		return nil
	},
}

var inviteCmd = &cobra.Command{
	Use:     "invite <task-id> <account-id>",
	Short:   "Invite a developer to a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		createdBy, _ := cmd.Flags().GetString("by")
		assignee, _ := cmd.Flags().GetBool("assignee")
		share, _ := cmd.Flags().GetInt("share")

		part, err := gig.CreateParticipation(context.Background(), args[0], &client.CreateParticipationRequest{
			AccountID:   args[1],
			CreatedByID: createdBy,
			Assignee:    assignee,
			Share:       share,
		})
		if err != nil {
			return fmt.Errorf("inviting: %w", err)
		}

		if jsonOutput {
			printJSON(part)
		} else {
			fmt.Printf("participation %s created on %s\n", part.ID, part.TaskID)
		}
		return nil
	},
}

var participationsCmd = &cobra.Command{
	Use:     "participations <task-id>",
	Short:   "List participations on a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parts, err := gig.ListParticipations(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing participations: %w", err)
		}

		if jsonOutput {
			printJSON(parts)
		} else {
			printParticipationListTable(parts)
		}
		return nil
	},
}

var respondCmd = &cobra.Command{
	Use:     "respond <application-id|participation-id>",
	Short:   "Accept or reject an application or invitation",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		accept, _ := cmd.Flags().GetBool("accept")
		reject, _ := cmd.Flags().GetBool("reject")
		invitation, _ := cmd.Flags().GetBool("invitation")

		if accept == reject {
			return fmt.Errorf("pass exactly one of --accept or --reject")
		}

		if invitation {
			part, err := gig.RespondParticipation(context.Background(), args[0], accept)
			if err != nil {
				return fmt.Errorf("responding: %w", err)
			}
			if jsonOutput {
				printJSON(part)
			} else {
				fmt.Printf("participation %s: accepted=%t\n", part.ID, part.Accepted)
			}
			return nil
		}

		app, err := gig.RespondApplication(context.Background(), args[0], accept)
		if err != nil {
			return fmt.Errorf("responding: %w", err)
		}
		if jsonOutput {
			printJSON(app)
		} else {
			fmt.Printf("application %s: accepted=%t\n", app.ID, app.Accepted)
		}
		return nil
	},
}

func init() {
	applyCmd.Flags().String("account", "", "applying account ID (required)")
	applyCmd.Flags().String("pitch", "", "application pitch")
	applyCmd.MarkFlagRequired("account")

	inviteCmd.Flags().String("by", "", "inviting account ID (required)")
	inviteCmd.Flags().Bool("assignee", false, "mark the developer as the assignee")
	inviteCmd.Flags().Int("share", 0, "fee share percentage")
	inviteCmd.MarkFlagRequired("by")

	respondCmd.Flags().Bool("accept", false, "accept")
	respondCmd.Flags().Bool("reject", false, "reject")
	respondCmd.Flags().Bool("invitation", false, "the ID is a participation, not an application")
}
