package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailveil/internal/domain"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage virtual sessions",
	}
	cmd.AddCommand(sessionCreateCmd(), sessionListCmd(), sessionDestroyCmd(), sessionOpenCmd())
	return cmd
}

func sessionCreateCmd() *cobra.Command {
	var aliasID string

	cmd := &cobra.Command{
		Use:   "create [site]",
		Short: "Record a virtual session against a site",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := appCtx.Broker.CreateSession(cmd.Context(), args[0], domain.AliasID(aliasID))
			if err != nil {
				return err
			}
			fmt.Printf("Session created.\nID:    %s\nSite:  %s\nAlias: %s\n", sess.ID, sess.Site, sess.AliasLocal)
			return nil
		},
	}
	cmd.Flags().StringVar(&aliasID, "alias", "", "alias id to bind (unresolvable ids create an ephemeral session)")
	return cmd
}

func sessionListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions := appCtx.Broker.ListSessions(cmd.Context())
			if len(sessions) == 0 {
				fmt.Println("No sessions.")
				return nil
			}
			for _, s := range sessions {
				fmt.Printf("%s  %-25s  %-30s  %s\n", s.ID, s.Site, s.AliasLocal, s.Created.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func sessionDestroyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "destroy [id]",
		Short: "Destroy a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appCtx.Broker.DestroySession(cmd.Context(), domain.SessionID(args[0])); err != nil {
				return err
			}
			fmt.Println("Session destroyed.")
			return nil
		},
	}
}

func sessionOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open [id]",
		Short: "Issue an open token for a session",
		Long: "Issue an opaque open token for a session. Nothing is launched; a real\n" +
			"deployment exchanges the token for an isolated browsing context.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tok, err := appCtx.Broker.OpenSession(cmd.Context(), domain.SessionID(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("Token:  %s\nSite:   %s\nIssued: %s\n", tok.Token, tok.Site, tok.IssuedAt.Format("2006-01-02 15:04:05"))
			return nil
		},
	}
}
