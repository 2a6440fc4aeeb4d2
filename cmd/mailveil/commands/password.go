package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"mailveil/internal/credential"
)

func passwordCmd() *cobra.Command {
	var length int

	cmd := &cobra.Command{
		Use:   "password",
		Short: "Generate a standalone password",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := appCtx.Broker.GeneratePassword(cmd.Context(), length)
			if err != nil {
				return err
			}
			fmt.Println(pw)
			return nil
		},
	}
	cmd.Flags().IntVar(&length, "length", credential.DefaultPasswordLength, "password length (clamped to 4-128)")
	return cmd
}
