package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gigboard/gigboard/internal/client"
)

var registerCmd = &cobra.Command{
	Use:     "register <username>",
	Short:   "Register an account",
	GroupID: "accounts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		accountType, _ := cmd.Flags().GetString("type")
		password, _ := cmd.Flags().GetString("password")
		skills, _ := cmd.Flags().GetStringSlice("skills")
		key, _ := cmd.Flags().GetString("key")

		account, err := gig.RegisterAccount(context.Background(), &client.RegisterAccountRequest{
			Username:        args[0],
			Email:           email,
			Type:            accountType,
			Password:        password,
			Skills:          skills,
			ConfirmationKey: key,
		})
		if err != nil {
			return fmt.Errorf("registering: %w", err)
		}

		if jsonOutput {
			printJSON(account)
		} else {
			printAccountTable(account)
		}
		return nil
	},
}

var accountShowCmd = &cobra.Command{
	Use:     "account <account-id>",
	Short:   "Show an account",
	GroupID: "accounts",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		account, err := gig.GetAccount(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching account: %w", err)
		}

		if jsonOutput {
			printJSON(account)
		} else {
			printAccountTable(account)
		}
		return nil
	},
}

var accountListCmd = &cobra.Command{
	Use:     "accounts",
	Short:   "List accounts",
	GroupID: "accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		accountType, _ := cmd.Flags().GetString("type")
		skill, _ := cmd.Flags().GetString("skill")
		search, _ := cmd.Flags().GetString("search")
		connectedTo, _ := cmd.Flags().GetString("connected-to")
		limit, _ := cmd.Flags().GetInt("limit")

		accounts, err := gig.ListAccounts(context.Background(), &client.ListAccountsRequest{
			Type:        accountType,
			Skill:       skill,
			Search:      search,
			ConnectedTo: connectedTo,
			Limit:       limit,
		})
		if err != nil {
			return fmt.Errorf("listing accounts: %w", err)
		}

		if jsonOutput {
			printJSON(accounts)
		} else {
			printAccountListTable(accounts)
		}
		return nil
	},
}

var connectCmd = &cobra.Command{
	Use:     "connect <from-id> <to-id>",
	Short:   "Request a connection between two accounts",
	GroupID: "accounts",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := gig.CreateConnection(context.Background(), args[0], args[1])
		if err != nil {
			return fmt.Errorf("connecting: %w", err)
		}

		if jsonOutput {
			printJSON(conn)
		} else {
			fmt.Printf("connection %s requested (%s -> %s)\n", conn.ID, conn.FromID, conn.ToID)
		}
		return nil
	},
}

func init() {
	registerCmd.Flags().String("email", "", "email address (required)")
	registerCmd.Flags().String("type", "project_owner", "account type (developer or project_owner)")
	registerCmd.Flags().String("password", "", "password (required)")
	registerCmd.Flags().StringSlice("skills", nil, "skills (comma-separated)")
	registerCmd.Flags().String("key", "", "confirmation key (required for developers)")
	registerCmd.MarkFlagRequired("email")
	registerCmd.MarkFlagRequired("password")

	accountListCmd.Flags().String("type", "", "filter by account type")
	accountListCmd.Flags().String("skill", "", "filter by skill")
	accountListCmd.Flags().String("search", "", "substring search on username, name, email")
	accountListCmd.Flags().String("connected-to", "", "filter by accepted connection to this account")
	accountListCmd.Flags().Int("limit", 20, "maximum number of accounts to return")
}
