package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lorrc/ticket-insights/internal/adapters/secondary/tabular"
	"github.com/lorrc/ticket-insights/internal/config"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
	"github.com/lorrc/ticket-insights/internal/core/services"
	"github.com/lorrc/ticket-insights/internal/infrastructure/logging"
	"github.com/lorrc/ticket-insights/internal/infrastructure/storage"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type globalOptions struct {
	driver      string
	sqlitePath  string
	databaseURL string
	logLevel    string
	logFormat   string

	cfg    *config.Config
	logger *slog.Logger
}

// load reads the environment (and .env when present), applies flag
// overrides and validates.
func (o *globalOptions) load(cmd *cobra.Command, _ []string) error {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	if o.driver != "" {
		cfg.Store.Driver = strings.ToLower(o.driver)
	}
	if o.sqlitePath != "" {
		cfg.Store.SQLitePath = o.sqlitePath
	}
	if o.databaseURL != "" {
		cfg.Store.PostgresURL = o.databaseURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	o.cfg = cfg
	o.logger = logging.NewLogger(logging.Config{
		Level:       o.logLevel,
		Format:      o.logFormat,
		Output:      cmd.ErrOrStderr(),
		ServiceName: "ticketctl",
		Environment: cfg.App.Environment,
	})
	return nil
}

type backend struct {
	store      *storage.Store
	ingest     ports.IngestService
	dashboards ports.DashboardService
}

func (o *globalOptions) open(ctx context.Context) (*backend, error) {
	store, err := storage.Open(ctx, o.cfg.Store, o.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return &backend{
		store:      store,
		ingest:     services.NewIngestService(tabular.NewReader(), store, o.logger),
		dashboards: services.NewDashboardService(nil, o.logger),
	}, nil
}

func (s *backend) Close() {
	_ = s.store.Close()
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printCounts(w io.Writer, title string, items []domain.CountItem, limit int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render(title))
	if len(items) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (none)"))
		return
	}

	tw := newTable(w)
	for i, it := range items {
		if limit > 0 && i == limit {
			fmt.Fprintf(tw, "  %s\t\n", mutedStyle.Render(fmt.Sprintf("... %d more", len(items)-limit)))
			break
		}
		fmt.Fprintf(tw, "  %s\t%d\n", it.Value, it.Count)
	}
	_ = tw.Flush()
}

func printStats(w io.Writer, stats domain.StoreStats) {
	tw := newTable(w)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Total"), stats.Total)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Resolved"), stats.Resolved)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Pending"), stats.Pending)
	fmt.Fprintf(tw, "%s\t%d\n", headerStyle.Render("Discarded"), stats.Discarded)
	_ = tw.Flush()
}
