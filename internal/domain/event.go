package domain

import "time"

// EventType is the kind of a collection lifecycle event
type EventType string

const (
	// EventTypeCollectionIngested is emitted after a snapshot swap
	EventTypeCollectionIngested EventType = "collection.ingested"
	// EventTypeCollectionSynced is emitted after new market events were stored
	EventTypeCollectionSynced EventType = "collection.synced"
	// EventTypeCollectionPurged is emitted after a collection was deleted
	EventTypeCollectionPurged EventType = "collection.purged"
)

// CollectionEvent notifies readers that stored collection data changed
type CollectionEvent struct {
	Type      EventType `json:"type"`
	Slug      string    `json:"collection_slug"`
	RunID     string    `json:"run_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
