package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	reportOverdue       = "overdue"
	reportPaymentStatus = "payment-status"
	reportInconsistent  = "inconsistent"
)

func newReportCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "report <overdue|payment-status|inconsistent>",
		Short: "Print a receivables report as JSON",
		Long: `Print one of the receivables reports:

  overdue         consistent invoices overdue past the threshold without credit notes
  payment-status  invoice counts and percentages per payment status
  inconsistent    invoices whose declared total differs from their items`,
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{reportOverdue, reportPaymentStatus, reportInconsistent},
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}

			var out interface{}
			switch args[0] {
			case reportOverdue:
				out, err = a.Reports.OverdueWithoutCreditNotes(cmd.Context())
			case reportPaymentStatus:
				out, err = a.Reports.PaymentStatusSummary(cmd.Context())
			case reportInconsistent:
				out, err = a.Reports.InconsistentInvoices(cmd.Context())
			default:
				return fmt.Errorf("unknown report %q", args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
}
