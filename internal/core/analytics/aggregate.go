// Package analytics derives dashboard views from a ticket set. Every function
// is a pure transform of its input; callers filter before aggregating.
package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

// Pending returns the tickets classified as pending, in input order.
func Pending(tickets []domain.Ticket) []domain.Ticket {
	return byClass(tickets, domain.ClassPending)
}

// Resolved returns the tickets classified as resolved, in input order.
func Resolved(tickets []domain.Ticket) []domain.Ticket {
	return byClass(tickets, domain.ClassResolved)
}

func byClass(tickets []domain.Ticket, class domain.Classification) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(tickets))
	for _, t := range tickets {
		if t.Classification() == class {
			out = append(out, t)
		}
	}
	return out
}

// Distribution counts tickets per distinct value of field. Nulls are
// excluded. Order is descending count, ties in first-seen order.
func Distribution(tickets []domain.Ticket, field domain.TicketField) []domain.CountItem {
	index := make(map[string]int)
	items := make([]domain.CountItem, 0)

	for _, t := range tickets {
		v := t.Value(field)
		if v == nil {
			continue
		}
		if i, ok := index[*v]; ok {
			items[i].Count++
			continue
		}
		index[*v] = len(items)
		items = append(items, domain.CountItem{Value: *v, Count: 1})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Count > items[j].Count
	})
	return items
}

// DailyTimeline counts tickets per calendar day of the selected date,
// ascending. Tickets without that date are excluded.
func DailyTimeline(tickets []domain.Ticket, field domain.DateField) []domain.DailyCount {
	counts := make(map[time.Time]int64)
	for _, t := range tickets {
		ts := t.Date(field)
		if ts == nil {
			continue
		}
		counts[domain.Day(*ts)]++
	}

	out := make([]domain.DailyCount, 0, len(counts))
	for day, n := range counts {
		out = append(out, domain.DailyCount{Day: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// DailyComposite aligns created, resolved and pending counts per created day.
// Discarded tickets count toward the total only.
func DailyComposite(tickets []domain.Ticket) []domain.DailyComposite {
	byDay := make(map[time.Time]*domain.DailyComposite)
	for _, t := range tickets {
		if t.CreatedDate == nil {
			continue
		}
		day := domain.Day(*t.CreatedDate)
		row, ok := byDay[day]
		if !ok {
			row = &domain.DailyComposite{Day: day}
			byDay[day] = row
		}
		row.Total++
		switch t.Classification() {
		case domain.ClassResolved:
			row.Resolved++
		case domain.ClassPending:
			row.Pending++
		}
	}

	out := make([]domain.DailyComposite, 0, len(byDay))
	for _, row := range byDay {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out
}

// Cumulative turns daily counts into a running total. The input must be in
// ascending day order, as DailyTimeline returns it.
func Cumulative(points []domain.DailyCount) []domain.DailyCount {
	out := make([]domain.DailyCount, len(points))
	var sum int64
	for i, p := range points {
		sum += p.Count
		out[i] = domain.DailyCount{Day: p.Day, Count: sum}
	}
	return out
}

// PendingCumulative is the running count of pending tickets by created day.
func PendingCumulative(tickets []domain.Ticket) []domain.DailyCount {
	return Cumulative(DailyTimeline(Pending(tickets), domain.DateCreated))
}

// ResolvedCumulative is the running count of resolved tickets by resolved day.
func ResolvedCumulative(tickets []domain.Ticket) []domain.DailyCount {
	return Cumulative(DailyTimeline(Resolved(tickets), domain.DateResolved))
}

// ResolutionDays returns whole elapsed days between creation and resolution
// for resolved tickets carrying both dates, in input order. Partial days are
// floored.
func ResolutionDays(tickets []domain.Ticket) []int {
	out := make([]int, 0)
	for _, t := range tickets {
		if !t.IsResolved() || t.CreatedDate == nil || t.ResolvedDate == nil {
			continue
		}
		elapsed := t.ResolvedDate.Sub(*t.CreatedDate)
		out = append(out, int(math.Floor(elapsed.Hours()/24)))
	}
	return out
}

// SummarizeResolution computes count, mean, median and range of days.
func SummarizeResolution(days []int) domain.ResolutionSummary {
	if len(days) == 0 {
		return domain.ResolutionSummary{}
	}

	sorted := append([]int(nil), days...)
	sort.Ints(sorted)

	var sum int
	for _, d := range sorted {
		sum += d
	}

	n := len(sorted)
	median := float64(sorted[n/2])
	if n%2 == 0 {
		median = float64(sorted[n/2-1]+sorted[n/2]) / 2
	}

	return domain.ResolutionSummary{
		Count:  n,
		Mean:   float64(sum) / float64(n),
		Median: median,
		Min:    sorted[0],
		Max:    sorted[n-1],
	}
}

// Summarize computes the headline metrics. The rate is a percentage and is
// zero for an empty set.
func Summarize(tickets []domain.Ticket) domain.Metrics {
	m := domain.Metrics{Total: int64(len(tickets))}
	for _, t := range tickets {
		switch t.Classification() {
		case domain.ClassResolved:
			m.Resolved++
		case domain.ClassPending:
			m.Pending++
		case domain.ClassDiscarded:
			m.Discarded++
		}
	}
	if m.Total > 0 {
		m.ResolutionRate = float64(m.Resolved) / float64(m.Total) * 100
	}
	return m
}
