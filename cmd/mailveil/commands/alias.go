package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailveil/internal/domain"
)

func aliasCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alias",
		Short: "Manage disposable email aliases",
	}
	cmd.AddCommand(aliasCreateCmd(), aliasListCmd(), aliasShowCmd(), aliasDeleteCmd())
	return cmd
}

func aliasCreateCmd() *cobra.Command {
	var name, domainPart, group string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an alias with a generated password",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appCtx.Broker.CreateAlias(cmd.Context(), name, domainPart, group)
			if err != nil {
				return err
			}
			fmt.Printf("Alias created.\nID:       %s\nAddress:  %s\nPassword: %s\n", a.ID, a.Local(), a.Password)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "local part (defaults when empty)")
	cmd.Flags().StringVar(&domainPart, "domain", "", "domain part (defaults when empty)")
	cmd.Flags().StringVar(&group, "group", "", "free-form classification tag")
	return cmd
}

func aliasListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List aliases, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			aliases := appCtx.Broker.ListAliases(cmd.Context())
			if len(aliases) == 0 {
				fmt.Println("No aliases.")
				return nil
			}
			for _, a := range aliases {
				group := a.Group
				if group == "" {
					group = "-"
				}
				fmt.Printf("%s  %-30s  %-12s  %s\n", a.ID, a.Local(), group, a.Created.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func aliasShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [id]",
		Short: "Show one alias including its password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appCtx.Broker.GetAlias(cmd.Context(), domain.AliasID(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("ID:       %s\nAddress:  %s\nGroup:    %s\nPassword: %s\nCreated:  %s\n",
				a.ID, a.Local(), a.Group, a.Password, a.Created.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}

func aliasDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete an alias (sessions keep their address snapshot)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Broker.DeleteAlias(cmd.Context(), domain.AliasID(args[0])); err != nil {
				return err
			}
			fmt.Println("Alias deleted.")
			return nil
		},
	}
}
