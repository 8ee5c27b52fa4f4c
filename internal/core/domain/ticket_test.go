package domain_test

import (
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		status string
		want   domain.Classification
	}{
		{"Closed is resolved", "Closed", domain.ClassResolved},
		{"Completed is resolved", "Completed", domain.ClassResolved},
		{"Auto Completed is resolved", "Auto Completed", domain.ClassResolved},
		{"Discard is discarded", "Discard", domain.ClassDiscarded},
		{"Open is pending", "Open", domain.ClassPending},
		{"In Progress is pending", "In Progress", domain.ClassPending},
		{"lowercase closed is pending", "closed", domain.ClassPending},
		{"padded Closed is pending", " Closed", domain.ClassPending},
		{"empty is pending", "", domain.ClassPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.Classify(tt.status))
		})
	}
}

func TestTicket_BucketsAreExclusive(t *testing.T) {
	for _, status := range []string{"Closed", "Completed", "Auto Completed", "Discard", "Open", "Hold", ""} {
		tk := domain.Ticket{ID: "T", Status: status}
		n := 0
		for _, b := range []bool{tk.IsPending(), tk.IsResolved(), tk.IsDiscarded()} {
			if b {
				n++
			}
		}
		assert.Equal(t, 1, n, "status %q", status)
	}
}

func TestResolvedStatuses_ReturnsCopy(t *testing.T) {
	got := domain.ResolvedStatuses()
	got[0] = "Mutated"

	assert.Equal(t, domain.ClassResolved, domain.Classify("Closed"))
	assert.Equal(t, []string{"Discard"}, domain.DiscardedStatuses())
}

func TestTicket_Value(t *testing.T) {
	tk := domain.Ticket{
		ID:           "T1",
		Status:       "Open",
		Company:      strPtr("Acme"),
		AssignedUser: strPtr("alice"),
	}

	assert.Equal(t, "Open", *tk.Value(domain.FieldStatus))
	assert.Equal(t, "Acme", *tk.Value(domain.FieldCompany))
	assert.Equal(t, "alice", *tk.Value(domain.FieldAssignedUser))
	assert.Nil(t, tk.Value(domain.FieldResolver))
	assert.Nil(t, tk.Value(domain.TicketField("unknown")))
	assert.False(t, domain.TicketField("unknown").IsValid())
	assert.True(t, domain.FieldPriority.IsValid())
}

func TestTicketFilter_Matches(t *testing.T) {
	jan2 := time.Date(2024, 1, 2, 15, 30, 0, 0, time.UTC)
	tk := domain.Ticket{
		ID:          "T1",
		Status:      "Open",
		CreatedDate: &jan2,
		Company:     strPtr("Acme"),
		Branch:      strPtr("North"),
	}

	tests := []struct {
		name   string
		filter domain.TicketFilter
		want   bool
	}{
		{"empty filter matches", domain.TicketFilter{}, true},
		{"inclusive lower bound", domain.TicketFilter{CreatedFrom: timePtr(time.Date(2024, 1, 2, 23, 0, 0, 0, time.UTC))}, true},
		{"inclusive upper bound", domain.TicketFilter{CreatedTo: timePtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))}, true},
		{"before range", domain.TicketFilter{CreatedFrom: timePtr(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))}, false},
		{"after range", domain.TicketFilter{CreatedTo: timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))}, false},
		{"company match", domain.TicketFilter{Company: strPtr("Acme")}, true},
		{"company mismatch", domain.TicketFilter{Company: strPtr("Globex")}, false},
		{"branch and status", domain.TicketFilter{Branch: strPtr("North"), Status: strPtr("Open")}, true},
		{"conjunctive mismatch", domain.TicketFilter{Company: strPtr("Acme"), Status: strPtr("Closed")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(tk))
		})
	}

	t.Run("missing created date fails date bound", func(t *testing.T) {
		f := domain.TicketFilter{CreatedFrom: timePtr(jan2)}
		assert.False(t, f.Matches(domain.Ticket{ID: "T2", Status: "Open"}))
	})

	t.Run("missing company fails company criterion", func(t *testing.T) {
		f := domain.TicketFilter{Company: strPtr("Acme")}
		assert.False(t, f.Matches(domain.Ticket{ID: "T2", Status: "Open"}))
	})
}

func TestTicketFilter_ApplyAndKey(t *testing.T) {
	tickets := []domain.Ticket{
		{ID: "T1", Status: "Open"},
		{ID: "T2", Status: "Closed"},
		{ID: "T3", Status: "Open"},
	}

	f := domain.TicketFilter{Status: strPtr("Open")}
	got := f.Apply(tickets)

	assert.Len(t, got, 2)
	assert.Equal(t, "T1", got[0].ID)
	assert.Equal(t, "T3", got[1].ID)
	assert.Empty(t, domain.TicketFilter{Status: strPtr("Hold")}.Apply(tickets))

	assert.Equal(t, "status=Open", f.Key())
	from := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "from=2024-01-05", domain.TicketFilter{CreatedFrom: &from}.Key())
	assert.Empty(t, domain.TicketFilter{}.Key())
}

func TestTicketFilter_KeyIsUnambiguous(t *testing.T) {
	a := domain.TicketFilter{Company: strPtr("a"), Branch: strPtr("b&branch=")}
	b := domain.TicketFilter{Company: strPtr("a&branch=b"), Branch: strPtr("")}
	c := domain.TicketFilter{Company: strPtr("a&branch=b")}

	assert.NotEqual(t, a.Key(), b.Key())
	assert.NotEqual(t, b.Key(), c.Key(), "an empty value differs from an unset one")
	assert.Equal(t, "branch=b%26branch%3D&company=a", a.Key())
}

func TestNewDataset(t *testing.T) {
	ds := domain.NewDataset("export.csv", nil)

	assert.NotEmpty(t, ds.ID)
	assert.Equal(t, "export.csv", ds.Source)
	assert.NotNil(t, ds.Tickets)
	assert.Equal(t, 0, ds.Len())

	var nilDS *domain.Dataset
	assert.Equal(t, 0, nilDS.Len())
}
