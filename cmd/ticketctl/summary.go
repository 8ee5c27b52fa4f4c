package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/adapters/primary/validation"
	"github.com/lorrc/ticket-insights/internal/core/domain"
)

func summaryCmd(opts *globalOptions) *cobra.Command {
	var (
		in  validation.FilterValues
		top int
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Summarize the stored tickets",
		Long: `Print headline metrics and breakdowns for the stored tickets.

Examples:
  ticketctl summary
  ticketctl summary --company Acme --from 2024-01-01 --to 2024-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			filter, err := validation.ParseFilter(in)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			s, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer s.Close()

			ds, err := s.ingest.LoadFromStore(ctx)
			if err != nil {
				return fmt.Errorf("failed to load tickets: %w", err)
			}

			dash, err := s.dashboards.Overview(ctx, ds, filter)
			if err != nil {
				return err
			}

			printSummary(cmd, dash, top)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&in.From, "from", "", "first creation day (YYYY-MM-DD)")
	flags.StringVar(&in.To, "to", "", "last creation day (YYYY-MM-DD)")
	flags.StringVar(&in.Company, "company", "", "only this company")
	flags.StringVar(&in.Branch, "branch", "", "only this branch")
	flags.StringVar(&in.Status, "status", "", "only this status")
	flags.IntVar(&top, "top", 10, "rows per breakdown (0 for all)")
	return cmd
}

func printSummary(cmd *cobra.Command, dash *domain.Dashboard, top int) {
	w := cmd.OutOrStdout()
	if dash.NoMatch {
		fmt.Fprintln(w, warnStyle.Render("No tickets match the filter"))
		return
	}

	m := dash.Metrics
	printStats(w, domain.StoreStats{
		Total:     m.Total,
		Resolved:  m.Resolved,
		Pending:   m.Pending,
		Discarded: m.Discarded,
	})
	fmt.Fprintf(w, "%s  %.1f%%\n", headerStyle.Render("Resolution rate"), m.ResolutionRate)

	if r := dash.Resolution; r.Count > 0 {
		fmt.Fprintf(w, "%s  mean %.1f, median %.1f, min %d, max %d (%d tickets)\n",
			headerStyle.Render("Days to resolve"), r.Mean, r.Median, r.Min, r.Max, r.Count)
	}

	printCounts(w, "By status", dash.Distributions.Status, top)
	printCounts(w, "By priority", dash.Distributions.Priority, top)
	printCounts(w, "By company", dash.Distributions.Company, top)
	printCounts(w, "Pending by assignee", dash.Distributions.PendingByAssignee, top)
	printCounts(w, "Resolved by user", dash.Distributions.ResolvedByUser, top)
}
