// Package cli implements the flowinvoice command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"flowinvoice/internal/app"
	"flowinvoice/internal/config"
	"flowinvoice/internal/database"
	"flowinvoice/internal/logger"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

// Opener builds the application the commands run against.
type Opener func() (*app.App, error)

// OpenFromEnv loads configuration from the environment and opens the
// configured database.
func OpenFromEnv() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, err
	}
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return app.New(cfg, db), nil
}

// NewRootCmd assembles the command tree. open is called lazily by the
// subcommands that need storage.
func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "flowinvoice",
		Short: "Import invoices, apply credit notes and print receivables reports",
		Long: `flowinvoice works directly against the configured database (DB_DRIVER,
SQLITE_PATH or DB_* variables, read from configs/.env or .env when present).

It shares the import rules, credit note checks and reports with the HTTP API.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newImportCmd(open),
		newCreditNoteCmd(open),
		newReportCmd(open),
	)
	return root
}

// Execute runs the CLI against the environment configuration.
func Execute() {
	if err := NewRootCmd(OpenFromEnv).Execute(); err != nil {
		log := logger.WithComponent("cli")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
