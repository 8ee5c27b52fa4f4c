package analytics_test

import (
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/analytics"
	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func at(y int, m time.Month, d, h int) *time.Time {
	ts := time.Date(y, m, d, h, 0, 0, 0, time.UTC)
	return &ts
}

// sampleTickets covers every bucket plus missing dates and values.
func sampleTickets() []domain.Ticket {
	return []domain.Ticket{
		{ID: "T1", Status: "Closed", AssignedUser: strPtr("alice"), Resolver: strPtr("bob"), Priority: strPtr("High"), Company: strPtr("Acme"),
			CreatedDate: at(2024, 1, 1, 9), ResolvedDate: at(2024, 1, 3, 8)},
		{ID: "T2", Status: "Open", AssignedUser: strPtr("alice"), Priority: strPtr("Low"), Company: strPtr("Acme"),
			CreatedDate: at(2024, 1, 2, 10)},
		{ID: "T3", Status: "Discard", AssignedUser: strPtr("carol"), Company: strPtr("Globex"),
			CreatedDate: at(2024, 1, 2, 11), ResolvedDate: at(2024, 1, 2, 12)},
		{ID: "T4", Status: "Auto Completed", Resolver: strPtr("bob"), Priority: strPtr("High"), Company: strPtr("Globex"),
			CreatedDate: at(2024, 1, 2, 12), ResolvedDate: at(2024, 1, 5, 13)},
		{ID: "T5", Status: "In Progress", AssignedUser: strPtr("dave"), Priority: strPtr("Low"),
			CreatedDate: at(2024, 1, 4, 8)},
		{ID: "T6", Status: "Completed", Resolver: strPtr("erin"),
			CreatedDate: at(2024, 1, 4, 9)},
		{ID: "T7", Status: "Open", AssignedUser: strPtr("alice"), ResolvedDate: at(2024, 1, 9, 9)},
	}
}

func TestSummarize_Scenario(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T1", Status: "Closed", CreatedDate: at(2024, 1, 1, 0), ResolvedDate: at(2024, 1, 3, 0)},
		{ID: "T2", Status: "Open", CreatedDate: at(2024, 1, 2, 0)},
	}

	m := analytics.Summarize(tickets)

	assert.Equal(t, domain.Metrics{Total: 2, Pending: 1, Resolved: 1, ResolutionRate: 50.0}, m)
	assert.Equal(t, []int{2}, analytics.ResolutionDays(tickets))
}

func TestSummarize_EmptyHasZeroRate(t *testing.T) {
	m := analytics.Summarize(nil)

	assert.Equal(t, domain.Metrics{}, m)
	assert.Zero(t, m.ResolutionRate)
}

func TestSummarize_DiscardCountsInTotalOnly(t *testing.T) {
	m := analytics.Summarize(sampleTickets())

	assert.Equal(t, int64(7), m.Total)
	assert.Equal(t, int64(3), m.Resolved)
	assert.Equal(t, int64(3), m.Pending)
	assert.Equal(t, int64(1), m.Discarded)
	assert.InDelta(t, 300.0/7.0, m.ResolutionRate, 1e-9)
}

func TestPendingResolved_AreDisjointAndExcludeDiscard(t *testing.T) {
	tickets := sampleTickets()
	pending := analytics.Pending(tickets)
	resolved := analytics.Resolved(tickets)

	ids := map[string]int{}
	for _, tk := range pending {
		ids[tk.ID]++
		assert.NotEqual(t, "Discard", tk.Status)
	}
	for _, tk := range resolved {
		ids[tk.ID]++
		assert.NotEqual(t, "Discard", tk.Status)
	}
	for id, n := range ids {
		assert.Equal(t, 1, n, "ticket %s in both buckets", id)
	}
	assert.Len(t, ids, 6)
}

func TestDistribution(t *testing.T) {
	tickets := sampleTickets()

	t.Run("descending with first-seen ties", func(t *testing.T) {
		got := analytics.Distribution(tickets, domain.FieldStatus)
		assert.Equal(t, []domain.CountItem{
			{Value: "Open", Count: 2},
			{Value: "Closed", Count: 1},
			{Value: "Discard", Count: 1},
			{Value: "Auto Completed", Count: 1},
			{Value: "In Progress", Count: 1},
			{Value: "Completed", Count: 1},
		}, got)
	})

	t.Run("nulls excluded", func(t *testing.T) {
		got := analytics.Distribution(tickets, domain.FieldPriority)
		assert.Equal(t, []domain.CountItem{{Value: "High", Count: 2}, {Value: "Low", Count: 2}}, got)
	})

	t.Run("discard absent from bucket distributions", func(t *testing.T) {
		for _, item := range analytics.Distribution(analytics.Pending(tickets), domain.FieldStatus) {
			assert.NotEqual(t, "Discard", item.Value)
		}
		for _, item := range analytics.Distribution(analytics.Resolved(tickets), domain.FieldStatus) {
			assert.NotEqual(t, "Discard", item.Value)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		got := analytics.Distribution(nil, domain.FieldCompany)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestDailyTimeline(t *testing.T) {
	tickets := sampleTickets()

	created := analytics.DailyTimeline(tickets, domain.DateCreated)
	assert.Equal(t, []domain.DailyCount{
		{Day: day(2024, 1, 1), Count: 1},
		{Day: day(2024, 1, 2), Count: 3},
		{Day: day(2024, 1, 4), Count: 2},
	}, created)

	resolved := analytics.DailyTimeline(analytics.Resolved(tickets), domain.DateResolved)
	assert.Equal(t, []domain.DailyCount{
		{Day: day(2024, 1, 3), Count: 1},
		{Day: day(2024, 1, 5), Count: 1},
	}, resolved)
}

func TestDailyComposite(t *testing.T) {
	got := analytics.DailyComposite(sampleTickets())

	assert.Equal(t, []domain.DailyComposite{
		{Day: day(2024, 1, 1), Total: 1, Resolved: 1, Pending: 0},
		{Day: day(2024, 1, 2), Total: 3, Resolved: 1, Pending: 1},
		{Day: day(2024, 1, 4), Total: 2, Resolved: 1, Pending: 1},
	}, got)
}

func TestCumulative(t *testing.T) {
	t.Run("running sum", func(t *testing.T) {
		got := analytics.Cumulative([]domain.DailyCount{
			{Day: day(2024, 1, 1), Count: 2},
			{Day: day(2024, 1, 2), Count: 0},
			{Day: day(2024, 1, 5), Count: 3},
		})
		assert.Equal(t, []int64{2, 2, 5}, counts(got))
	})

	t.Run("monotonic on sample", func(t *testing.T) {
		for _, series := range [][]domain.DailyCount{
			analytics.PendingCumulative(sampleTickets()),
			analytics.ResolvedCumulative(sampleTickets()),
		} {
			for i := 1; i < len(series); i++ {
				assert.GreaterOrEqual(t, series[i].Count, series[i-1].Count)
				assert.True(t, series[i].Day.After(series[i-1].Day))
			}
		}
	})

	t.Run("pending by created, resolved by resolved day", func(t *testing.T) {
		assert.Equal(t, []domain.DailyCount{
			{Day: day(2024, 1, 2), Count: 1},
			{Day: day(2024, 1, 4), Count: 2},
		}, analytics.PendingCumulative(sampleTickets()))
		assert.Equal(t, []domain.DailyCount{
			{Day: day(2024, 1, 3), Count: 1},
			{Day: day(2024, 1, 5), Count: 2},
		}, analytics.ResolvedCumulative(sampleTickets()))
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, analytics.Cumulative(nil))
	})
}

func counts(points []domain.DailyCount) []int64 {
	out := make([]int64, len(points))
	for i, p := range points {
		out[i] = p.Count
	}
	return out
}

func TestResolutionDays(t *testing.T) {
	got := analytics.ResolutionDays(sampleTickets())

	// T1: 47h floors to 1 day, T4: 3d1h floors to 3, T6 lacks a resolved
	// date, T3 is discarded and T7 is pending despite its resolved date.
	assert.Equal(t, []int{1, 3}, got)

	t.Run("negative spans floor down", func(t *testing.T) {
		tk := domain.Ticket{ID: "X", Status: "Closed", CreatedDate: at(2024, 1, 2, 12), ResolvedDate: at(2024, 1, 2, 6)}
		assert.Equal(t, []int{-1}, analytics.ResolutionDays([]domain.Ticket{tk}))
	})
}

func TestSummarizeResolution(t *testing.T) {
	assert.Equal(t, domain.ResolutionSummary{}, analytics.SummarizeResolution(nil))

	odd := analytics.SummarizeResolution([]int{5, 1, 3})
	assert.Equal(t, domain.ResolutionSummary{Count: 3, Mean: 3, Median: 3, Min: 1, Max: 5}, odd)

	even := analytics.SummarizeResolution([]int{4, 1, 2, 7})
	assert.Equal(t, 4, even.Count)
	assert.InDelta(t, 3.5, even.Mean, 1e-9)
	assert.InDelta(t, 3.0, even.Median, 1e-9)
}

func TestFilteredAggregation_NoMatchIsNotAnError(t *testing.T) {
	filter := domain.TicketFilter{Company: strPtr("Initech")}
	filtered := filter.Apply(sampleTickets())
	require.Empty(t, filtered)

	dash := analytics.BuildDashboard(filtered)

	assert.True(t, dash.NoMatch)
	assert.Equal(t, domain.Metrics{}, dash.Metrics)
	assert.Empty(t, dash.Timelines.Created)
	assert.Empty(t, dash.ResolutionDays)
}
