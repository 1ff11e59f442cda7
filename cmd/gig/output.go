package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/gigboard/gigboard/internal/client"
	"github.com/gigboard/gigboard/internal/model"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printTaskTable(task *model.Task) {
	fmt.Printf("ID:          %s\n", task.ID)
	fmt.Printf("Owner:       %s\n", task.OwnerID)
	fmt.Printf("Title:       %s\n", task.Title)
	fmt.Printf("Visibility:  %s\n", task.Visibility)
	status := "open"
	if task.Closed {
		status = "closed"
	}
	fmt.Printf("Status:      %s\n", status)
	fmt.Printf("Accepting:   %t\n", task.Apply)
	if task.Fee > 0 {
		fmt.Printf("Fee:         %.2f\n", task.Fee)
	}
	if task.Description != "" {
		fmt.Printf("Description: %s\n", task.Description)
	}
	if len(task.Skills) > 0 {
		fmt.Printf("Skills:      %s\n", strings.Join(task.Skills, ", "))
	}
	if !task.CreatedAt.IsZero() {
		fmt.Printf("Created At:  %s\n", task.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	if task.ClosedAt != nil {
		fmt.Printf("Closed At:   %s\n", task.ClosedAt.Format("2006-01-02 15:04:05"))
	}
}

func printTaskListTable(tasks []*model.Task, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tVISIBILITY\tFEE\tTITLE\tSKILLS")
	for _, t := range tasks {
		status := "open"
		if t.Closed {
			status = "closed"
		}
		title := t.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			t.ID,
			status,
			t.Visibility,
			t.Fee,
			title,
			strings.Join(t.Skills, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d tasks (%d total)\n", len(tasks), total)
}

func printAccountTable(a *model.Account) {
	fmt.Printf("ID:        %s\n", a.ID)
	fmt.Printf("Username:  %s\n", a.Username)
	fmt.Printf("Email:     %s\n", a.Email)
	fmt.Printf("Type:      %s\n", a.Type)
	if a.FirstName != "" || a.LastName != "" {
		fmt.Printf("Name:      %s %s\n", a.FirstName, a.LastName)
	}
	if len(a.Skills) > 0 {
		fmt.Printf("Skills:    %s\n", strings.Join(a.Skills, ", "))
	}
	if !a.CreatedAt.IsZero() {
		fmt.Printf("Created:   %s\n", a.CreatedAt.Format("2006-01-02 15:04:05"))
	}
}

func printAccountListTable(accounts []*model.Account) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tTYPE\tEMAIL\tSKILLS")
	for _, a := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			a.ID,
			a.Username,
			a.Type,
			a.Email,
			strings.Join(a.Skills, ","),
		)
	}
	w.Flush()
	fmt.Printf("\n%d accounts\n", len(accounts))
}

func printApplicationListTable(apps []*model.Application) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tRESPONDED\tACCEPTED\tPITCH")
	for _, a := range apps {
		pitch := a.Pitch
		if len(pitch) > 40 {
			pitch = pitch[:37] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%s\n", a.ID, a.AccountID, a.Responded, a.Accepted, pitch)
	}
	w.Flush()
	fmt.Printf("\n%d applications\n", len(apps))
}

func printParticipationListTable(parts []*model.Participation) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACCOUNT\tASSIGNEE\tRESPONDED\tACCEPTED")
	for _, p := range parts {
		fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%t\n", p.ID, p.AccountID, p.Assignee, p.Responded, p.Accepted)
	}
	w.Flush()
	fmt.Printf("\n%d participations\n", len(parts))
}

func printActivityTable(entries []*client.ActivityEntry, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tACTION\tTYPE\tCREATED")
	for _, e := range entries {
		activityType := ""
		if e.ActivityType != nil {
			activityType = *e.ActivityType
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.ID,
			e.Action,
			activityType,
			e.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()
	fmt.Printf("\n%d entries (%d total)\n", len(entries), total)
}
