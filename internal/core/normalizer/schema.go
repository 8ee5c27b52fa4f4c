package normalizer

import (
	"strings"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
)

type valueKind int

const (
	kindText valueKind = iota
	kindDate
	kindInt
)

// column describes one canonical ticket column and how it is filled.
type column struct {
	// name is the canonical output header.
	name string
	// source is the header used by the ticketing system export.
	source   string
	required bool
	kind     valueKind

	setText func(t *domain.Ticket, v *string)
	setDate func(t *domain.Ticket, v *time.Time)
	setInt  func(t *domain.Ticket, v *int)
}

// synonyms rewrites export headers to their canonical names. Names that are
// absent here already are canonical.
var synonyms = map[string]string{
	"Current Status":  "Status",
	"AssignedTo":      "Assigned User",
	"Requested Date":  "Created Date",
	"Resolved By":     "Resolver",
	"Company Name":    "Company",
	"Branch Name":     "Branch",
	"Ticket Category": "Category",
	"Subject":         "Title",
}

var columns = []column{
	{name: "Ticket ID", source: "Ticket ID", required: true, kind: kindText,
		setText: func(t *domain.Ticket, v *string) {
			if v != nil {
				t.ID = *v
			}
		}},
	{name: "Status", source: "Current Status", required: true, kind: kindText,
		setText: func(t *domain.Ticket, v *string) {
			if v != nil {
				t.Status = *v
			}
		}},
	{name: "Assigned User", source: "AssignedTo", required: true, kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.AssignedUser = v }},
	{name: "Created Date", source: "Requested Date", required: true, kind: kindDate,
		setDate: func(t *domain.Ticket, v *time.Time) { t.CreatedDate = v }},
	{name: "Resolver", source: "Resolved By", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Resolver = v }},
	{name: "Resolved Date", source: "Resolved Date", kind: kindDate,
		setDate: func(t *domain.Ticket, v *time.Time) { t.ResolvedDate = v }},
	{name: "Company", source: "Company Name", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Company = v }},
	{name: "Branch", source: "Branch Name", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Branch = v }},
	{name: "Category", source: "Ticket Category", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Category = v }},
	{name: "Priority", source: "Priority", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Priority = v }},
	{name: "Title", source: "Subject", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Title = v }},
	{name: "Description", source: "Description", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Description = v }},
	{name: "Requester", source: "Requester", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Requester = v }},
	{name: "Created User", source: "Created User", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.CreatedUser = v }},
	{name: "Ticket Type", source: "Ticket Type", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.TicketType = v }},
	{name: "Ticket Sub Category", source: "Ticket Sub Category", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.SubCategory = v }},
	{name: "Department Name", source: "Department Name", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.Department = v }},
	{name: "SLA", source: "SLA", kind: kindText,
		setText: func(t *domain.Ticket, v *string) { t.SLA = v }},
	{name: "No Of Days", source: "No Of Days", kind: kindInt,
		setInt: func(t *domain.Ticket, v *int) { t.NoOfDays = v }},
	{name: "No Of Working Days", source: "No Of Working Days", kind: kindInt,
		setInt: func(t *domain.Ticket, v *int) { t.NoOfWorkingDays = v }},
}

var (
	// recognized maps a folded header to the name stage one resolves it to.
	recognized = map[string]string{}
	// byName maps a canonical name to its column.
	byName = map[string]*column{}
)

func init() {
	for i := range columns {
		c := &columns[i]
		byName[c.name] = c
		recognized[fold(c.source)] = c.source
		recognized[fold(c.name)] = c.name
	}
}

// fold normalizes a header for comparison.
func fold(header string) string {
	return strings.ToLower(strings.TrimSpace(header))
}

// resolveHeader runs both mapping stages on a raw header. The second return
// is false for headers that map to no canonical column.
func resolveHeader(header string) (string, bool) {
	name, ok := recognized[fold(header)]
	if !ok {
		return "", false
	}
	if final, ok := synonyms[name]; ok {
		name = final
	}
	return name, true
}

// CanonicalHeaders returns the canonical column names in output order.
func CanonicalHeaders() []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.name
	}
	return out
}

// RequiredColumns returns the export headers that must be present.
func RequiredColumns() []string {
	var out []string
	for _, c := range columns {
		if c.required {
			out = append(out, c.source)
		}
	}
	return out
}
