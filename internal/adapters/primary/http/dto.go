package http

import (
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	"github.com/lorrc/ticket-insights/internal/core/ports"
)

// JSON shapes of the presentation API. Calendar days are YYYY-MM-DD strings.

type CountItemResponse struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type DailyCountResponse struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

type DailyCompositeResponse struct {
	Day      string `json:"day"`
	Total    int64  `json:"total"`
	Resolved int64  `json:"resolved"`
	Pending  int64  `json:"pending"`
}

type MetricsResponse struct {
	Total          int64   `json:"total"`
	Pending        int64   `json:"pending"`
	Resolved       int64   `json:"resolved"`
	Discarded      int64   `json:"discarded"`
	ResolutionRate float64 `json:"resolutionRate"`
}

type DistributionsResponse struct {
	Status            []CountItemResponse `json:"status"`
	Priority          []CountItemResponse `json:"priority"`
	Company           []CountItemResponse `json:"company"`
	PendingByAssignee []CountItemResponse `json:"pendingByAssignee"`
	PendingByStatus   []CountItemResponse `json:"pendingByStatus"`
	ResolvedByUser    []CountItemResponse `json:"resolvedByUser"`
	ResolvedByStatus  []CountItemResponse `json:"resolvedByStatus"`
}

type TimelinesResponse struct {
	Created            []DailyCountResponse     `json:"created"`
	Resolved           []DailyCountResponse     `json:"resolved"`
	Composite          []DailyCompositeResponse `json:"composite"`
	PendingCumulative  []DailyCountResponse     `json:"pendingCumulative"`
	ResolvedCumulative []DailyCountResponse     `json:"resolvedCumulative"`
}

type ResolutionResponse struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// DashboardResponse is the overview payload.
type DashboardResponse struct {
	DatasetID      string                `json:"datasetId"`
	NoMatch        bool                  `json:"noMatch"`
	Metrics        MetricsResponse       `json:"metrics"`
	Distributions  DistributionsResponse `json:"distributions"`
	Timelines      TimelinesResponse     `json:"timelines"`
	ResolutionDays []int                 `json:"resolutionDays"`
	Resolution     ResolutionResponse    `json:"resolution"`
}

type PendingRowResponse struct {
	TicketID     string  `json:"ticketId"`
	Status       string  `json:"status"`
	AssignedUser *string `json:"assignedUser"`
	Priority     *string `json:"priority"`
	CreatedDate  string  `json:"createdDate"`
	Company      *string `json:"company"`
}

type ResolvedRowResponse struct {
	TicketID     string  `json:"ticketId"`
	Status       string  `json:"status"`
	Resolver     *string `json:"resolver"`
	Priority     *string `json:"priority"`
	CreatedDate  string  `json:"createdDate"`
	ResolvedDate string  `json:"resolvedDate"`
	Company      *string `json:"company"`
}

type FilterOptionsResponse struct {
	Companies   []string `json:"companies"`
	Branches    []string `json:"branches"`
	Statuses    []string `json:"statuses"`
	CreatedFrom *string  `json:"createdFrom"`
	CreatedTo   *string  `json:"createdTo"`
}

type DatasetResponse struct {
	DatasetID string    `json:"datasetId"`
	Source    string    `json:"source"`
	Tickets   int       `json:"tickets"`
	LoadedAt  time.Time `json:"loadedAt"`
}

// ImportResponse is returned after an upload.
type ImportResponse struct {
	Dataset   DatasetResponse     `json:"dataset"`
	Persisted bool                `json:"persisted"`
	Warnings  bool                `json:"warnings"`
	Report    domain.ImportReport `json:"report"`
}

type StoreStatsResponse struct {
	Total     int64 `json:"total"`
	Resolved  int64 `json:"resolved"`
	Pending   int64 `json:"pending"`
	Discarded int64 `json:"discarded"`
}

func toDatasetResponse(ds *domain.Dataset) DatasetResponse {
	return DatasetResponse{
		DatasetID: ds.ID.String(),
		Source:    ds.Source,
		Tickets:   ds.Len(),
		LoadedAt:  ds.LoadedAt,
	}
}

func toImportResponse(res *ports.ImportResult) ImportResponse {
	return ImportResponse{
		Dataset:   toDatasetResponse(res.Dataset),
		Persisted: res.Persisted,
		Warnings:  res.Report.HasWarnings(),
		Report:    res.Report,
	}
}

func toStoreStatsResponse(s domain.StoreStats) StoreStatsResponse {
	return StoreStatsResponse{Total: s.Total, Resolved: s.Resolved, Pending: s.Pending, Discarded: s.Discarded}
}

func toDashboardResponse(d *domain.Dashboard) DashboardResponse {
	resolutionDays := d.ResolutionDays
	if resolutionDays == nil {
		resolutionDays = []int{}
	}
	return DashboardResponse{
		DatasetID: d.DatasetID,
		NoMatch:   d.NoMatch,
		Metrics: MetricsResponse{
			Total:          d.Metrics.Total,
			Pending:        d.Metrics.Pending,
			Resolved:       d.Metrics.Resolved,
			Discarded:      d.Metrics.Discarded,
			ResolutionRate: d.Metrics.ResolutionRate,
		},
		Distributions: DistributionsResponse{
			Status:            toCountItems(d.Distributions.Status),
			Priority:          toCountItems(d.Distributions.Priority),
			Company:           toCountItems(d.Distributions.Company),
			PendingByAssignee: toCountItems(d.Distributions.PendingByAssignee),
			PendingByStatus:   toCountItems(d.Distributions.PendingByStatus),
			ResolvedByUser:    toCountItems(d.Distributions.ResolvedByUser),
			ResolvedByStatus:  toCountItems(d.Distributions.ResolvedByStatus),
		},
		Timelines: TimelinesResponse{
			Created:            toDailyCounts(d.Timelines.Created),
			Resolved:           toDailyCounts(d.Timelines.Resolved),
			Composite:          toComposite(d.Timelines.Composite),
			PendingCumulative:  toDailyCounts(d.Timelines.PendingCumulative),
			ResolvedCumulative: toDailyCounts(d.Timelines.ResolvedCumulative),
		},
		ResolutionDays: resolutionDays,
		Resolution: ResolutionResponse{
			Count:  d.Resolution.Count,
			Mean:   d.Resolution.Mean,
			Median: d.Resolution.Median,
			Min:    d.Resolution.Min,
			Max:    d.Resolution.Max,
		},
	}
}

func toCountItems(items []domain.CountItem) []CountItemResponse {
	out := make([]CountItemResponse, len(items))
	for i, it := range items {
		out[i] = CountItemResponse{Value: it.Value, Count: it.Count}
	}
	return out
}

func toDailyCounts(items []domain.DailyCount) []DailyCountResponse {
	out := make([]DailyCountResponse, len(items))
	for i, it := range items {
		out[i] = DailyCountResponse{Day: it.Day.Format(domain.DayLayout), Count: it.Count}
	}
	return out
}

func toComposite(items []domain.DailyComposite) []DailyCompositeResponse {
	out := make([]DailyCompositeResponse, len(items))
	for i, it := range items {
		out[i] = DailyCompositeResponse{
			Day:      it.Day.Format(domain.DayLayout),
			Total:    it.Total,
			Resolved: it.Resolved,
			Pending:  it.Pending,
		}
	}
	return out
}

func toPendingRows(rows []domain.PendingRow) []PendingRowResponse {
	out := make([]PendingRowResponse, len(rows))
	for i, r := range rows {
		out[i] = PendingRowResponse{
			TicketID:     r.TicketID,
			Status:       r.Status,
			AssignedUser: r.AssignedUser,
			Priority:     r.Priority,
			CreatedDate:  r.CreatedDate,
			Company:      r.Company,
		}
	}
	return out
}

func toResolvedRows(rows []domain.ResolvedRow) []ResolvedRowResponse {
	out := make([]ResolvedRowResponse, len(rows))
	for i, r := range rows {
		out[i] = ResolvedRowResponse{
			TicketID:     r.TicketID,
			Status:       r.Status,
			Resolver:     r.Resolver,
			Priority:     r.Priority,
			CreatedDate:  r.CreatedDate,
			ResolvedDate: r.ResolvedDate,
			Company:      r.Company,
		}
	}
	return out
}

func toFilterOptionsResponse(o *domain.FilterOptions) FilterOptionsResponse {
	return FilterOptionsResponse{
		Companies:   nonNil(o.Companies),
		Branches:    nonNil(o.Branches),
		Statuses:    nonNil(o.Statuses),
		CreatedFrom: formatDay(o.CreatedFrom),
		CreatedTo:   formatDay(o.CreatedTo),
	}
}

func formatDay(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DayLayout)
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
