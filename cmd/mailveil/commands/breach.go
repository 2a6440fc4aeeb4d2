package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"mailveil/internal/domain"
)

func breachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breach [email]",
		Short: "Check whether an email appears in a breach corpus",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := appCtx.Broker.CheckEmailBreach(cmd.Context(), args[0])
			if err != nil && !errors.Is(err, domain.ErrTransient) {
				return err
			}

			switch report.Status {
			case domain.BreachFound:
				fmt.Printf("%s appears in a breach corpus (source: %s).\n", report.Email, report.Source)
			case domain.BreachClear:
				fmt.Printf("%s was not found in the corpus.\n", report.Email)
			default:
				fmt.Printf("Could not determine breach status for %s: %v\n", report.Email, err)
			}
			return nil
		},
	}
}
