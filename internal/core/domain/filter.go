package domain

import (
	"net/url"
	"time"
)

// TicketFilter narrows a ticket set. Every criterion is optional and all set
// criteria must hold. Date bounds compare calendar days and are inclusive.
type TicketFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Company     *string
	Branch      *string
	Status      *string
}

// IsEmpty reports whether no criterion is set.
func (f TicketFilter) IsEmpty() bool {
	return f.CreatedFrom == nil && f.CreatedTo == nil &&
		f.Company == nil && f.Branch == nil && f.Status == nil
}

// Matches reports whether a ticket satisfies every set criterion. Tickets
// without a created date fail any active date bound.
func (f TicketFilter) Matches(t Ticket) bool {
	if f.CreatedFrom != nil || f.CreatedTo != nil {
		if t.CreatedDate == nil {
			return false
		}
		day := Day(*t.CreatedDate)
		if f.CreatedFrom != nil && day.Before(Day(*f.CreatedFrom)) {
			return false
		}
		if f.CreatedTo != nil && day.After(Day(*f.CreatedTo)) {
			return false
		}
	}
	if !matchesText(f.Company, t.Company) {
		return false
	}
	if !matchesText(f.Branch, t.Branch) {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	return true
}

func matchesText(want, got *string) bool {
	if want == nil {
		return true
	}
	return got != nil && *got == *want
}

// Apply returns the tickets that match the filter, preserving order.
func (f TicketFilter) Apply(tickets []Ticket) []Ticket {
	if f.IsEmpty() {
		return tickets
	}
	out := make([]Ticket, 0, len(tickets))
	for _, t := range tickets {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// Key is a stable textual form of the filter, used for cache keys and logs.
// Only set criteria appear, query-escaped and sorted by name, so distinct
// filters never share a key. The empty filter yields "".
func (f TicketFilter) Key() string {
	v := url.Values{}
	if f.CreatedFrom != nil {
		v.Set("from", Day(*f.CreatedFrom).Format(DayLayout))
	}
	if f.CreatedTo != nil {
		v.Set("to", Day(*f.CreatedTo).Format(DayLayout))
	}
	setText(v, "company", f.Company)
	setText(v, "branch", f.Branch)
	setText(v, "status", f.Status)
	return v.Encode()
}

func setText(v url.Values, key string, s *string) {
	if s != nil {
		v.Set(key, *s)
	}
}
