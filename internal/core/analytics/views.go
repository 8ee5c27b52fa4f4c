package analytics

import (
	"sort"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// PendingRows builds the pending tickets table.
func PendingRows(tickets []domain.Ticket) []domain.PendingRow {
	pending := Pending(tickets)
	rows := make([]domain.PendingRow, 0, len(pending))
	for _, t := range pending {
		rows = append(rows, domain.PendingRow{
			TicketID:     t.ID,
			Status:       t.Status,
			AssignedUser: t.AssignedUser,
			Priority:     t.Priority,
			CreatedDate:  formatDay(t.CreatedDate),
			Company:      t.Company,
		})
	}
	return rows
}

// ResolvedRows builds the resolved tickets table.
func ResolvedRows(tickets []domain.Ticket) []domain.ResolvedRow {
	resolved := Resolved(tickets)
	rows := make([]domain.ResolvedRow, 0, len(resolved))
	for _, t := range resolved {
		rows = append(rows, domain.ResolvedRow{
			TicketID:     t.ID,
			Status:       t.Status,
			Resolver:     t.Resolver,
			Priority:     t.Priority,
			CreatedDate:  formatDay(t.CreatedDate),
			ResolvedDate: formatDay(t.ResolvedDate),
			Company:      t.Company,
		})
	}
	return rows
}

func formatDay(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return domain.Day(*ts).Format(domain.DayLayout)
}

// FilterOptions lists sorted distinct filter values and the created-date span
// of the unfiltered set.
func FilterOptions(tickets []domain.Ticket) domain.FilterOptions {
	var opts domain.FilterOptions
	companies := make(map[string]struct{})
	branches := make(map[string]struct{})
	statuses := make(map[string]struct{})

	for _, t := range tickets {
		if t.Company != nil {
			companies[*t.Company] = struct{}{}
		}
		if t.Branch != nil {
			branches[*t.Branch] = struct{}{}
		}
		if t.Status != "" {
			statuses[t.Status] = struct{}{}
		}
		if t.CreatedDate != nil {
			day := domain.Day(*t.CreatedDate)
			if opts.CreatedFrom == nil || day.Before(*opts.CreatedFrom) {
				from := day
				opts.CreatedFrom = &from
			}
			if opts.CreatedTo == nil || day.After(*opts.CreatedTo) {
				to := day
				opts.CreatedTo = &to
			}
		}
	}

	opts.Companies = sortedKeys(companies)
	opts.Branches = sortedKeys(branches)
	opts.Statuses = sortedKeys(statuses)
	return opts
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// BuildDashboard composes every view for one ticket set.
func BuildDashboard(tickets []domain.Ticket) domain.Dashboard {
	pending := Pending(tickets)
	resolved := Resolved(tickets)
	days := ResolutionDays(tickets)

	return domain.Dashboard{
		NoMatch: len(tickets) == 0,
		Metrics: Summarize(tickets),
		Distributions: domain.Distributions{
			Status:            Distribution(tickets, domain.FieldStatus),
			Priority:          Distribution(tickets, domain.FieldPriority),
			Company:           Distribution(tickets, domain.FieldCompany),
			PendingByAssignee: Distribution(pending, domain.FieldAssignedUser),
			PendingByStatus:   Distribution(pending, domain.FieldStatus),
			ResolvedByUser:    Distribution(resolved, domain.FieldResolver),
			ResolvedByStatus:  Distribution(resolved, domain.FieldStatus),
		},
		Timelines: domain.Timelines{
			Created:            DailyTimeline(tickets, domain.DateCreated),
			Resolved:           DailyTimeline(resolved, domain.DateResolved),
			Composite:          DailyComposite(tickets),
			PendingCumulative:  PendingCumulative(tickets),
			ResolvedCumulative: ResolvedCumulative(tickets),
		},
		ResolutionDays: days,
		Resolution:     SummarizeResolution(days),
	}
}
