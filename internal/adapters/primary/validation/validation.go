// Package validation parses and checks request parameters.
package validation

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/lorrc/ticket-insights/internal/core/domain"
	apperrors "github.com/lorrc/ticket-insights/internal/core/errors"
)

// Validator accumulates field errors
type Validator struct {
	errors *apperrors.ValidationErrors
}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{
		errors: apperrors.NewValidationErrors(),
	}
}

// HasErrors returns true if there are validation errors
func (v *Validator) HasErrors() bool {
	return v.errors.HasErrors()
}

// Errors returns the validation errors
func (v *Validator) Errors() *apperrors.ValidationErrors {
	return v.errors
}

// Err returns the accumulated errors, or nil when there are none.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return v.errors
}

// Day parses value as a YYYY-MM-DD calendar day. Empty yields nil.
func (v *Validator) Day(field, value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	day, err := time.Parse(domain.DayLayout, value)
	if err != nil {
		v.errors.Add(field, "Must be a date in YYYY-MM-DD format")
		return nil
	}
	return &day
}

// NotAfter validates that from does not come after to.
func (v *Validator) NotAfter(field string, from, to *time.Time) *Validator {
	if from != nil && to != nil && from.After(*to) {
		v.errors.Add(field, "Start date must not be after end date")
	}
	return v
}

// FilterValues carries the raw filter inputs from a query string or CLI flags.
type FilterValues struct {
	From, To                string
	Company, Branch, Status string
}

// ParseFilter validates raw filter inputs. Blank text values mean "any".
func ParseFilter(in FilterValues) (domain.TicketFilter, error) {
	v := NewValidator()
	filter := domain.TicketFilter{
		CreatedFrom: v.Day("from", in.From),
		CreatedTo:   v.Day("to", in.To),
		Company:     optional(in.Company),
		Branch:      optional(in.Branch),
		Status:      optional(in.Status),
	}
	v.NotAfter("from", filter.CreatedFrom, filter.CreatedTo)
	if err := v.Err(); err != nil {
		return domain.TicketFilter{}, err
	}
	return filter, nil
}

// ParseFilterQuery reads from, to, company, branch and status query params.
func ParseFilterQuery(r *http.Request) (domain.TicketFilter, error) {
	q := r.URL.Query()
	return ParseFilter(FilterValues{
		From:    q.Get("from"),
		To:      q.Get("to"),
		Company: q.Get("company"),
		Branch:  q.Get("branch"),
		Status:  q.Get("status"),
	})
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// PaginationParams holds pagination parameters
type PaginationParams struct {
	Limit  int
	Offset int
}

// DefaultPagination returns default pagination values
func DefaultPagination() PaginationParams {
	return PaginationParams{
		Limit:  25,
		Offset: 0,
	}
}

// ParsePagination extracts and validates pagination from query parameters
func ParsePagination(r *http.Request, maxLimit int) PaginationParams {
	params := DefaultPagination()

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			params.Limit = limit
		}
	}

	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			params.Offset = offset
		}
	}

	if params.Limit > maxLimit {
		params.Limit = maxLimit
	}

	return params
}

// ParseBoolQueryParam safely parses a boolean query parameter
func ParseBoolQueryParam(r *http.Request, key string, defaultValue bool) bool {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
