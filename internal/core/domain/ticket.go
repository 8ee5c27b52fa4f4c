package domain

import (
	"time"
)

// Canonical status values that carry meaning for classification.
const (
	StatusClosed        = "Closed"
	StatusCompleted     = "Completed"
	StatusAutoCompleted = "Auto Completed"
	StatusDiscard       = "Discard"
)

// Classification is the bucket a ticket falls into based on its status.
type Classification string

const (
	ClassPending   Classification = "pending"
	ClassResolved  Classification = "resolved"
	ClassDiscarded Classification = "discarded"
)

var (
	resolvedStatuses  = []string{StatusClosed, StatusCompleted, StatusAutoCompleted}
	discardedStatuses = []string{StatusDiscard}
)

// Classify maps a status onto its bucket. Matching is exact and case-sensitive.
func Classify(status string) Classification {
	for _, s := range resolvedStatuses {
		if status == s {
			return ClassResolved
		}
	}
	for _, s := range discardedStatuses {
		if status == s {
			return ClassDiscarded
		}
	}
	return ClassPending
}

// ResolvedStatuses returns a copy of the statuses counted as resolved.
func ResolvedStatuses() []string {
	return append([]string(nil), resolvedStatuses...)
}

// DiscardedStatuses returns a copy of the statuses counted as discarded.
func DiscardedStatuses() []string {
	return append([]string(nil), discardedStatuses...)
}

// Ticket is the canonical ticket record produced by normalization.
type Ticket struct {
	ID     string
	Status string

	AssignedUser *string
	Resolver     *string
	CreatedDate  *time.Time
	ResolvedDate *time.Time
	Company      *string
	Branch       *string
	Category     *string
	Priority     *string
	Title        *string
	Description  *string

	Requester       *string
	CreatedUser     *string
	TicketType      *string
	SubCategory     *string
	Department      *string
	SLA             *string
	NoOfDays        *int
	NoOfWorkingDays *int
}

func (t Ticket) Classification() Classification {
	return Classify(t.Status)
}

func (t Ticket) IsPending() bool {
	return t.Classification() == ClassPending
}

func (t Ticket) IsResolved() bool {
	return t.Classification() == ClassResolved
}

func (t Ticket) IsDiscarded() bool {
	return t.Classification() == ClassDiscarded
}

// TicketField names a categorical attribute that can be grouped on.
type TicketField string

const (
	FieldStatus       TicketField = "status"
	FieldPriority     TicketField = "priority"
	FieldCompany      TicketField = "company"
	FieldBranch       TicketField = "branch"
	FieldCategory     TicketField = "category"
	FieldAssignedUser TicketField = "assignedUser"
	FieldResolver     TicketField = "resolver"
)

// IsValid reports whether the field is one Value knows how to read.
func (f TicketField) IsValid() bool {
	switch f {
	case FieldStatus, FieldPriority, FieldCompany, FieldBranch,
		FieldCategory, FieldAssignedUser, FieldResolver:
		return true
	}
	return false
}

// Value returns the ticket's value for the given field, or nil when absent.
func (t Ticket) Value(f TicketField) *string {
	switch f {
	case FieldStatus:
		if t.Status == "" {
			return nil
		}
		s := t.Status
		return &s
	case FieldPriority:
		return t.Priority
	case FieldCompany:
		return t.Company
	case FieldBranch:
		return t.Branch
	case FieldCategory:
		return t.Category
	case FieldAssignedUser:
		return t.AssignedUser
	case FieldResolver:
		return t.Resolver
	}
	return nil
}

// DateField selects which timestamp a timeline is built from.
type DateField string

const (
	DateCreated  DateField = "created"
	DateResolved DateField = "resolved"
)

// Date returns the selected timestamp, or nil when absent.
func (t Ticket) Date(f DateField) *time.Time {
	switch f {
	case DateCreated:
		return t.CreatedDate
	case DateResolved:
		return t.ResolvedDate
	}
	return nil
}

// Day truncates a timestamp to midnight UTC of the calendar date it falls on.
func Day(ts time.Time) time.Time {
	y, m, d := ts.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
