// Package normalizer maps uploaded ticket tables onto the canonical ticket
// record. Header matching is case and whitespace insensitive, unknown columns
// are dropped, and bad cell values degrade to null instead of failing.
package normalizer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// placeholders are cell values treated as empty.
var placeholders = map[string]struct{}{
	"":     {},
	"nan":  {},
	"none": {},
	"null": {},
	"nat":  {},
}

// Result is the outcome of a successful normalization.
type Result struct {
	Tickets []domain.Ticket
	Report  domain.ImportReport
}

// boundColumn ties a canonical column to its position in the input.
type boundColumn struct {
	col   *column
	index int
}

// Normalize converts a raw table into canonical tickets. It fails with
// ErrEmptyInput when there is nothing to read and with a MissingColumnsError
// when a required column cannot be resolved. Rows lacking an ID or status
// after cleaning are skipped and counted in the report.
func Normalize(raw domain.RawTable) (*Result, error) {
	if len(raw.Headers) == 0 || !hasData(raw.Rows) {
		return nil, apperrors.ErrEmptyInput
	}

	bound, report := bindHeaders(raw.Headers)

	if missing := missingRequired(bound); len(missing) > 0 {
		return nil, apperrors.NewMissingColumnsError(missing)
	}

	report.SourceRows = len(raw.Rows)
	tickets := make([]domain.Ticket, 0, len(raw.Rows))
	seen := make(map[string]struct{}, len(raw.Rows))
	dupes := make(map[string]struct{})

	for _, row := range raw.Rows {
		ticket, blank := buildTicket(row, bound, &report)
		if blank {
			report.BlankRows++
			continue
		}
		if ticket.ID == "" || ticket.Status == "" {
			report.SkippedRows++
			continue
		}
		if _, ok := seen[ticket.ID]; ok {
			if _, counted := dupes[ticket.ID]; !counted {
				dupes[ticket.ID] = struct{}{}
				report.DuplicateIDs = append(report.DuplicateIDs, ticket.ID)
			}
		}
		seen[ticket.ID] = struct{}{}
		tickets = append(tickets, ticket)
	}

	report.ImportedRows = len(tickets)
	return &Result{Tickets: tickets, Report: report}, nil
}

// bindHeaders resolves every input header. The first header resolving to a
// canonical column wins; later duplicates are dropped.
func bindHeaders(headers []string) ([]boundColumn, domain.ImportReport) {
	report := domain.ImportReport{ColumnMapping: make(map[string]string)}
	var bound []boundColumn
	taken := make(map[string]bool)

	for i, h := range headers {
		name, ok := resolveHeader(h)
		if !ok || taken[name] {
			report.DroppedColumns = append(report.DroppedColumns, strings.TrimSpace(h))
			continue
		}
		taken[name] = true
		report.ColumnMapping[strings.TrimSpace(h)] = name
		bound = append(bound, boundColumn{col: byName[name], index: i})
	}
	return bound, report
}

func missingRequired(bound []boundColumn) []string {
	present := make(map[string]bool, len(bound))
	for _, b := range bound {
		present[b.col.name] = true
	}
	var missing []string
	for _, c := range columns {
		if c.required && !present[c.name] {
			missing = append(missing, c.source)
		}
	}
	return missing
}

// buildTicket reads one row. blank is true when every mapped cell is empty.
func buildTicket(row []string, bound []boundColumn, report *domain.ImportReport) (domain.Ticket, bool) {
	var t domain.Ticket
	blank := true

	for _, b := range bound {
		var raw string
		if b.index < len(row) {
			raw = row[b.index]
		}
		text := cleanText(raw)
		if text == nil {
			continue
		}
		blank = false

		switch b.col.kind {
		case kindText:
			b.col.setText(&t, text)
		case kindDate:
			if ts, ok := parseDate(*text); ok {
				b.col.setDate(&t, &ts)
			} else {
				report.UnparsedDates++
			}
		case kindInt:
			if n, ok := parseInt(*text); ok {
				b.col.setInt(&t, &n)
			} else {
				report.UnparsedInts++
			}
		}
	}
	return t, blank
}

// cleanText trims a cell and maps placeholder values to nil.
func cleanText(raw string) *string {
	s := strings.TrimSpace(raw)
	if _, ok := placeholders[strings.ToLower(s)]; ok {
		return nil
	}
	return &s
}

// parseInt accepts integers and integral floats such as "3.0".
func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func hasData(rows [][]string) bool {
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				return true
			}
		}
	}
	return false
}

// ToRawTable renders tickets back into a table with canonical headers.
// Normalizing the result yields the same tickets.
func ToRawTable(tickets []domain.Ticket) domain.RawTable {
	table := domain.RawTable{
		Headers: CanonicalHeaders(),
		Rows:    make([][]string, 0, len(tickets)),
	}
	for _, t := range tickets {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = cellValue(t, c)
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func cellValue(t domain.Ticket, c column) string {
	switch c.name {
	case "Ticket ID":
		return t.ID
	case "Status":
		return t.Status
	case "Created Date":
		return dateCell(t.CreatedDate)
	case "Resolved Date":
		return dateCell(t.ResolvedDate)
	case "No Of Days":
		return intCell(t.NoOfDays)
	case "No Of Working Days":
		return intCell(t.NoOfWorkingDays)
	}
	return textCell(textField(t, c.name))
}

func textField(t domain.Ticket, name string) *string {
	switch name {
	case "Assigned User":
		return t.AssignedUser
	case "Resolver":
		return t.Resolver
	case "Company":
		return t.Company
	case "Branch":
		return t.Branch
	case "Category":
		return t.Category
	case "Priority":
		return t.Priority
	case "Title":
		return t.Title
	case "Description":
		return t.Description
	case "Requester":
		return t.Requester
	case "Created User":
		return t.CreatedUser
	case "Ticket Type":
		return t.TicketType
	case "Ticket Sub Category":
		return t.SubCategory
	case "Department Name":
		return t.Department
	case "SLA":
		return t.SLA
	}
	return nil
}

func textCell(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func dateCell(ts *time.Time) string {
	if ts == nil {
		return ""
	}
	return formatDate(*ts)
}

func intCell(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
