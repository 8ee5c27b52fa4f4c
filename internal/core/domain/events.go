package domain

import "time"

// DatasetEventType identifies a dataset lifecycle transition.
type DatasetEventType string

const (
	EventDatasetReplaced DatasetEventType = "dataset.replaced"
	EventDatasetCleared  DatasetEventType = "dataset.cleared"
)

// DatasetEvent is pushed to dashboard clients when the active dataset changes.
type DatasetEvent struct {
	Type      DatasetEventType `json:"type"`
	DatasetID string           `json:"datasetId,omitempty"`
	Source    string           `json:"source,omitempty"`
	Tickets   int              `json:"tickets"`
	At        time.Time        `json:"at"`
}
