package domain

import (
	"time"

	"github.com/google/uuid"
)

// Dataset is one loaded generation of tickets. It is never mutated after
// construction; a new upload produces a new Dataset.
type Dataset struct {
	ID       uuid.UUID
	Source   string
	LoadedAt time.Time
	Tickets  []Ticket
}

// NewDataset wraps a ticket slice into a fresh dataset generation.
func NewDataset(source string, tickets []Ticket) *Dataset {
	if tickets == nil {
		tickets = []Ticket{}
	}
	return &Dataset{
		ID:       uuid.New(),
		Source:   source,
		LoadedAt: time.Now().UTC(),
		Tickets:  tickets,
	}
}

func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Tickets)
}

// RawTable is an uploaded sheet before normalization. Every row is padded or
// truncated to len(Headers) by the reader.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

// ImportReport summarizes what normalization did with an input table.
type ImportReport struct {
	SourceRows     int               `json:"sourceRows"`
	ImportedRows   int               `json:"importedRows"`
	BlankRows      int               `json:"blankRows"`
	SkippedRows    int               `json:"skippedRows"`
	DuplicateIDs   []string          `json:"duplicateIds,omitempty"`
	UnparsedDates  int               `json:"unparsedDates"`
	UnparsedInts   int               `json:"unparsedInts"`
	ColumnMapping  map[string]string `json:"columnMapping"`
	DroppedColumns []string          `json:"droppedColumns,omitempty"`
}

// HasWarnings reports whether any value was dropped or coerced.
func (r ImportReport) HasWarnings() bool {
	return r.SkippedRows > 0 || r.UnparsedDates > 0 || r.UnparsedInts > 0 || len(r.DuplicateIDs) > 0
}

// StoreStats are the counts a record store reports about what it holds.
type StoreStats struct {
	Total     int64
	Resolved  int64
	Pending   int64
	Discarded int64
}
