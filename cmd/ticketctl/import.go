package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/core/ports"
)

func importCmd(opts *globalOptions) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV or XLSX ticket export",
		Long: `Normalize a ticket export and replace the stored tickets with it.

Examples:
  # Replace the stored tickets
  ticketctl import ~/Downloads/tickets.xlsx

  # Check an export without touching the store
  ticketctl import --dry-run ~/Downloads/tickets.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			f, err := openFile(args[0])
			if err != nil {
				return err
			}
			defer func() { _ = f.Close() }()

			result, err := s.ingest.Import(ctx, ports.ImportParams{
				Filename: filepath.Base(args[0]),
				Content:  f,
				Persist:  !dryRun,
			})
			if err != nil {
				return fmt.Errorf("import failed: %w", err)
			}

			printImport(cmd, result)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "normalize and report without saving")
	return cmd
}

func printImport(cmd *cobra.Command, result *ports.ImportResult) {
	w := cmd.OutOrStdout()
	r := result.Report

	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render("Source"), result.Dataset.Source)
	fmt.Fprintf(tw, "%s\t%d of %d rows\n", headerStyle.Render("Imported"), r.ImportedRows, r.SourceRows)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Blank rows"), r.BlankRows)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Skipped rows"), r.SkippedRows)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Unparsed dates"), r.UnparsedDates)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Unparsed numbers"), r.UnparsedInts)
	if result.Persisted {
		fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render("Stored"), "yes")
	} else {
		fmt.Fprintf(tw, "%s\t%s\n", headerStyle.Render("Stored"), mutedStyle.Render("no (dry run)"))
	}
	_ = tw.Flush()

	if len(r.DuplicateIDs) > 0 {
		fmt.Fprintln(w, warnStyle.Render("Duplicate ticket IDs: "+strings.Join(r.DuplicateIDs, ", ")))
	}
	if len(r.DroppedColumns) > 0 {
		fmt.Fprintln(w, mutedStyle.Render("Ignored columns: "+strings.Join(r.DroppedColumns, ", ")))
	}
}
