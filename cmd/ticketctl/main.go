// Command ticketctl imports ticket exports into the record store and prints
// summaries without running the API server.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "ticketctl",
		Short: "Load ticket exports and summarize them from the command line",
		Long: `ticketctl reads service desk ticket exports (CSV or XLSX), stores the
normalized tickets and reports on what is stored.

The record store is selected the same way as for the API server, through
STORE_DRIVER, SQLITE_PATH and DATABASE_URL, or with the flags below.`,
		SilenceUsage:      true,
		PersistentPreRunE: opts.load,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.driver, "driver", "", "record store driver (sqlite, postgres)")
	flags.StringVar(&opts.sqlitePath, "sqlite-path", "", "SQLite database file")
	flags.StringVar(&opts.databaseURL, "database-url", "", "PostgreSQL connection URL")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(importCmd(opts))
	rootCmd.AddCommand(statsCmd(opts))
	rootCmd.AddCommand(clearCmd(opts))
	rootCmd.AddCommand(summaryCmd(opts))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		// Skip config loading
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "ticketctl %s\n", version)
		},
	}
}
