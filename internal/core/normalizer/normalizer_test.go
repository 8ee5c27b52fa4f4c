package normalizer_test

import (
	"errors"
	"testing"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
	"github.com/lorrc/ticket-insights/internal/core/normalizer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exportTable(rows ...[]string) domain.RawTable {
	return domain.RawTable{
		Headers: []string{"Ticket ID", "Current Status", "AssignedTo", "Requested Date", "Resolved By", "Resolved Date", "Company Name", "Priority"},
		Rows:    rows,
	}
}

func TestNormalize_ExportHeaders(t *testing.T) {
	raw := exportTable(
		[]string{" T1 ", "Closed", "alice", "01-Jan-24", "bob", "03-Jan-24", "Acme", "High"},
		[]string{"T2", "Open", "carol", "02-Jan-24", "", "", "nan", ""},
	)

	res, err := normalizer.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 2)

	t1 := res.Tickets[0]
	assert.Equal(t, "T1", t1.ID)
	assert.Equal(t, "Closed", t1.Status)
	assert.Equal(t, "alice", *t1.AssignedUser)
	assert.Equal(t, "bob", *t1.Resolver)
	assert.Equal(t, "Acme", *t1.Company)
	assert.Equal(t, "High", *t1.Priority)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *t1.CreatedDate)
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), *t1.ResolvedDate)

	t2 := res.Tickets[1]
	assert.Nil(t, t2.Resolver)
	assert.Nil(t, t2.ResolvedDate)
	assert.Nil(t, t2.Company, "nan placeholder should become null")
	assert.Nil(t, t2.Priority)

	assert.Equal(t, 2, res.Report.SourceRows)
	assert.Equal(t, 2, res.Report.ImportedRows)
	assert.Equal(t, "Status", res.Report.ColumnMapping["Current Status"])
	assert.Equal(t, "Assigned User", res.Report.ColumnMapping["AssignedTo"])
	assert.Equal(t, "Created Date", res.Report.ColumnMapping["Requested Date"])
	assert.Equal(t, "Company", res.Report.ColumnMapping["Company Name"])
	assert.False(t, res.Report.HasWarnings())
}

func TestNormalize_HeaderMatchingIsCaseAndSpaceInsensitive(t *testing.T) {
	for _, header := range []string{"current status", "Current Status", " Current Status ", "CURRENT STATUS", "status", " Status"} {
		t.Run(header, func(t *testing.T) {
			raw := domain.RawTable{
				Headers: []string{"ticket id", header, "assignedto", "REQUESTED DATE"},
				Rows:    [][]string{{"T1", "Open", "alice", "05/02/2024"}},
			}

			res, err := normalizer.Normalize(raw)
			require.NoError(t, err)
			require.Len(t, res.Tickets, 1)
			assert.Equal(t, "Open", res.Tickets[0].Status)
			assert.Equal(t, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC), *res.Tickets[0].CreatedDate, "dates are day-first")
		})
	}
}

func TestNormalize_MissingColumns(t *testing.T) {
	t.Run("missing ticket id", func(t *testing.T) {
		raw := domain.RawTable{
			Headers: []string{"Current Status", "AssignedTo", "Requested Date"},
			Rows:    [][]string{{"Open", "alice", "01-Jan-24"}},
		}

		res, err := normalizer.Normalize(raw)

		assert.Nil(t, res)
		assert.ErrorIs(t, err, apperrors.ErrMissingColumns)
		var mc *apperrors.MissingColumnsError
		require.True(t, errors.As(err, &mc))
		assert.Equal(t, []string{"Ticket ID"}, mc.Columns)
	})

	t.Run("lists every missing column", func(t *testing.T) {
		raw := domain.RawTable{
			Headers: []string{"Subject", "Priority"},
			Rows:    [][]string{{"Printer jam", "Low"}},
		}

		_, err := normalizer.Normalize(raw)

		var mc *apperrors.MissingColumnsError
		require.True(t, errors.As(err, &mc))
		assert.Equal(t, normalizer.RequiredColumns(), mc.Columns)
	})
}

func TestNormalize_EmptyInput(t *testing.T) {
	tests := []struct {
		name string
		raw  domain.RawTable
	}{
		{"no headers", domain.RawTable{}},
		{"headers only", domain.RawTable{Headers: []string{"Ticket ID", "Current Status", "AssignedTo", "Requested Date"}}},
		{"only blank rows", exportTable([]string{"", " ", "", "", "", "", "", ""})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := normalizer.Normalize(tt.raw)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, apperrors.ErrEmptyInput)
		})
	}
}

func TestNormalize_RowHandling(t *testing.T) {
	raw := exportTable(
		[]string{"T1", "Open", "alice", "01-Jan-24", "", "", "", ""},
		[]string{"", "", "", "", "", "", "", ""},
		[]string{"NaN", "null", "None", "NaT", "", "", "", ""},
		[]string{"", "Open", "bob", "02-Jan-24", "", "", "", ""},
		[]string{"T3", "", "bob", "02-Jan-24", "", "", "", ""},
		[]string{"T1", "Closed", "alice", "not a date", "", "31-02-2024", "", ""},
		[]string{"T4", "Open"},
	)

	res, err := normalizer.Normalize(raw)
	require.NoError(t, err)

	assert.Len(t, res.Tickets, 3)
	assert.Equal(t, 7, res.Report.SourceRows)
	assert.Equal(t, 3, res.Report.ImportedRows)
	assert.Equal(t, 2, res.Report.BlankRows)
	assert.Equal(t, 2, res.Report.SkippedRows)
	assert.Equal(t, []string{"T1"}, res.Report.DuplicateIDs)
	assert.Equal(t, 2, res.Report.UnparsedDates)
	assert.True(t, res.Report.HasWarnings())

	dup := res.Tickets[1]
	assert.Equal(t, "T1", dup.ID)
	assert.Nil(t, dup.CreatedDate)
	assert.Nil(t, dup.ResolvedDate)

	short := res.Tickets[2]
	assert.Equal(t, "T4", short.ID)
	assert.Nil(t, short.AssignedUser)
}

func TestNormalize_DropsUnmappedAndDuplicateColumns(t *testing.T) {
	raw := domain.RawTable{
		Headers: []string{"Ticket ID", "Status", "Current Status", "Assigned User", "Created Date", "Internal Notes", "Department Name", "No Of Days"},
		Rows:    [][]string{{"T1", "Hold", "Open", "alice", "2024-01-05", "secret", "IT", "3.0"}},
	}

	res, err := normalizer.Normalize(raw)
	require.NoError(t, err)
	require.Len(t, res.Tickets, 1)

	tk := res.Tickets[0]
	assert.Equal(t, "Hold", tk.Status, "first header resolving to a column wins")
	assert.Equal(t, "IT", *tk.Department)
	require.NotNil(t, tk.NoOfDays)
	assert.Equal(t, 3, *tk.NoOfDays)
	assert.Equal(t, []string{"Current Status", "Internal Notes"}, res.Report.DroppedColumns)
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := domain.RawTable{
		Headers: []string{"Ticket ID", "Current Status", "AssignedTo", "Requested Date", "Resolved Date", "Subject", "Branch Name", "Ticket Category", "No Of Working Days"},
		Rows: [][]string{
			{"T1", "Closed", "alice", "1-Jan-24 9:15:00 am", "03-Jan-24 5:00 PM", "VPN down", "North", "Network", "2"},
			{"T2", "Open", "", "45293", "", "", "", "", ""},
			{"T3", "Discard", "bob", "2024-01-04T08:00:00+02:00", "", "Dup", "South", "", "x"},
		},
	}

	first, err := normalizer.Normalize(raw)
	require.NoError(t, err)

	second, err := normalizer.Normalize(normalizer.ToRawTable(first.Tickets))
	require.NoError(t, err)

	assert.Equal(t, first.Tickets, second.Tickets)
	for _, name := range normalizer.CanonicalHeaders() {
		assert.Equal(t, name, second.Report.ColumnMapping[name])
	}
	assert.Empty(t, second.Report.DroppedColumns)

	assert.Equal(t, time.Date(2024, 1, 1, 9, 15, 0, 0, time.UTC), *first.Tickets[0].CreatedDate)
	assert.Equal(t, time.Date(2024, 1, 3, 17, 0, 0, 0, time.UTC), *first.Tickets[0].ResolvedDate)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), *first.Tickets[1].CreatedDate)
	assert.Equal(t, time.Date(2024, 1, 4, 6, 0, 0, 0, time.UTC), *first.Tickets[2].CreatedDate)
	assert.Equal(t, 1, first.Report.UnparsedInts)
}
