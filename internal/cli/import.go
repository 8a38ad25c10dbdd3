package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"flowinvoice/internal/service"

	"github.com/spf13/cobra"
)

func newImportCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import invoices from a JSON file",
		Long: `Import invoices from a JSON document of the form {"invoices": [...]}.

Duplicate invoice numbers are skipped, invoices whose total does not match
their items are stored but flagged. Both are written to the import error log.`,
		Example: `  flowinvoice import bd_exam.json`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var req service.ImportRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return fmt.Errorf("invalid import document: %w", err)
			}

			a, err := open()
			if err != nil {
				return err
			}

			result, err := a.Imports.ImportBatch(cmd.Context(), req.Invoices)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}
