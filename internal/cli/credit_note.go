package cli

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newCreditNoteCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:     "credit-note <invoice-number> <amount>",
		Short:   "Apply a credit note to an invoice",
		Example: `  flowinvoice credit-note 1001 250.00`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[1])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[1], err)
			}

			a, err := open()
			if err != nil {
				return err
			}

			result, err := a.Invoices.AddCreditNote(cmd.Context(), args[0], amount)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("credit note rejected: %s", result.ErrorMessage)
			}
			return nil
		},
	}
}
