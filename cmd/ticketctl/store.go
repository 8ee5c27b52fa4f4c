package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func statsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show counts of the stored tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.ingest.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}

			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}

func clearCmd(opts *globalOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every stored ticket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !yes {
				return errors.New("refusing to clear the record store without --yes")
			}
			ctx := cmd.Context()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ingest.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear store: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Record store cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm deletion")
	return cmd
}
