package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigboard/gigboard/internal/client"
)

var taskCreateCmd = &cobra.Command{
	Use:     "create <title>",
	Short:   "Post a new task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		description, _ := cmd.Flags().GetString("description")
		visibility, _ := cmd.Flags().GetString("visibility")
		skills, _ := cmd.Flags().GetStringSlice("skills")
		fee, _ := cmd.Flags().GetFloat64("fee")
		noApply, _ := cmd.Flags().GetBool("no-apply")

		req := &client.CreateTaskRequest{
			OwnerID:     owner,
			Title:       args[0],
			Description: description,
			Visibility:  visibility,
			Skills:      skills,
			Fee:         fee,
		}
		if noApply {
			apply := false
			req.Apply = &apply
		}

		task, err := gig.CreateTask(context.Background(), req)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		if jsonOutput {
			printJSON(task)
		} else {
			printTaskTable(task)
		}
		return nil
	},
}

var taskShowCmd = &cobra.Command{
	Use:     "show <task-id>",
	Short:   "Show a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := gig.GetTask(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching task: %w", err)
		}

		if jsonOutput {
			printJSON(task)
		} else {
			printTaskTable(task)
		}
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	GroupID: "tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		skills, _ := cmd.Flags().GetStringSlice("skills")
		search, _ := cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")
		all, _ := cmd.Flags().GetBool("all")

		req := &client.ListTasksRequest{
			OwnerID: owner,
			Skills:  skills,
			Search:  search,
			Sort:    sort,
			Limit:   limit,
			Offset:  offset,
		}
		if !all {
			closed := false
			req.Closed = &closed
		}

		resp, err := gig.ListTasks(context.Background(), req)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
		}

		if jsonOutput {
			printJSON(resp)
		} else {
			printTaskListTable(resp.Tasks, resp.Total)
		}
		return nil
	},
}

var taskUpdateCmd = &cobra.Command{
	Use:     "update <task-id>",
	Short:   "Update a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req := &client.UpdateTaskRequest{}
		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			req.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("visibility") {
			v, _ := cmd.Flags().GetString("visibility")
			req.Visibility = &v
		}
		if cmd.Flags().Changed("skills") {
			v, _ := cmd.Flags().GetStringSlice("skills")
			req.Skills = &v
		}
		if cmd.Flags().Changed("fee") {
			v, _ := cmd.Flags().GetFloat64("fee")
			req.Fee = &v
		}
		if cmd.Flags().Changed("apply") {
			v, _ := cmd.Flags().GetBool("apply")
			req.Apply = &v
		}

		task, err := gig.UpdateTask(context.Background(), args[0], req)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
		}

		if jsonOutput {
			printJSON(task)
		} else {
			printTaskTable(task)
		}
		return nil
	},
}

var taskCloseCmd = &cobra.Command{
	Use:     "close <task-id>",
	Short:   "Close a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := gig.CloseTask(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("closing task: %w", err)
		}

		if jsonOutput {
			printJSON(task)
		} else {
			printTaskTable(task)
		}
		return nil
	},
}

func init() {
	taskCreateCmd.Flags().String("owner", "", "owner account ID (required)")
	taskCreateCmd.Flags().StringP("description", "d", "", "task description")
	taskCreateCmd.Flags().String("visibility", "", "who may be notified (developers, my_team, custom, only_me)")
	taskCreateCmd.Flags().StringSlice("skills", nil, "required skills (comma-separated)")
	taskCreateCmd.Flags().Float64("fee", 0, "task fee")
	taskCreateCmd.Flags().Bool("no-apply", false, "do not accept applications")
	taskCreateCmd.MarkFlagRequired("owner")

	taskListCmd.Flags().String("owner", "", "filter by owner account ID")
	taskListCmd.Flags().StringSlice("skills", nil, "filter by skills (comma-separated)")
	taskListCmd.Flags().String("search", "", "full-text search on title and description")
	taskListCmd.Flags().String("sort", "-created_at", "sort order (prefix - for descending)")
	taskListCmd.Flags().Int("limit", 20, "maximum number of tasks to return")
	taskListCmd.Flags().Int("offset", 0, "offset for pagination")
	taskListCmd.Flags().Bool("all", false, "include closed tasks")

	taskUpdateCmd.Flags().String("title", "", "new title")
	taskUpdateCmd.Flags().StringP("description", "d", "", "new description")
	taskUpdateCmd.Flags().String("visibility", "", "new visibility")
	taskUpdateCmd.Flags().StringSlice("skills", nil, "new skills (comma-separated)")
	taskUpdateCmd.Flags().Float64("fee", 0, "new fee")
	taskUpdateCmd.Flags().Bool("apply", true, "whether applications are accepted")
}
