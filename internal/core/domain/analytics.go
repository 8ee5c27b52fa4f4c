package domain

import "time"

// DayLayout is the display format for calendar dates.
const DayLayout = "2006-01-02"

type CountItem struct {
	Value string
	Count int64
}

type DailyCount struct {
	Day   time.Time
	Count int64
}

type DailyComposite struct {
	Day      time.Time
	Total    int64
	Resolved int64
	Pending  int64
}

type Metrics struct {
	Total          int64
	Pending        int64
	Resolved       int64
	Discarded      int64
	ResolutionRate float64
}

// ResolutionSummary describes the distribution of resolution times in days.
type ResolutionSummary struct {
	Count  int
	Mean   float64
	Median float64
	Min    int
	Max    int
}

// PendingRow is one line of the pending tickets table.
type PendingRow struct {
	TicketID     string
	Status       string
	AssignedUser *string
	Priority     *string
	CreatedDate  string
	Company      *string
}

// ResolvedRow is one line of the resolved tickets table.
type ResolvedRow struct {
	TicketID     string
	Status       string
	Resolver     *string
	Priority     *string
	CreatedDate  string
	ResolvedDate string
	Company      *string
}

// FilterOptions lists the values a dashboard can offer as filter choices.
type FilterOptions struct {
	Companies   []string
	Branches    []string
	Statuses    []string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Distributions groups the categorical breakdowns of a dashboard.
type Distributions struct {
	Status            []CountItem
	Priority          []CountItem
	Company           []CountItem
	PendingByAssignee []CountItem
	PendingByStatus   []CountItem
	ResolvedByUser    []CountItem
	ResolvedByStatus  []CountItem
}

// Timelines groups the date series of a dashboard.
type Timelines struct {
	Created            []DailyCount
	Resolved           []DailyCount
	Composite          []DailyComposite
	PendingCumulative  []DailyCount
	ResolvedCumulative []DailyCount
}

// Dashboard is every view derived from one (possibly filtered) ticket set.
type Dashboard struct {
	DatasetID      string
	NoMatch        bool
	Metrics        Metrics
	Distributions  Distributions
	Timelines      Timelines
	ResolutionDays []int
	Resolution     ResolutionSummary
}
