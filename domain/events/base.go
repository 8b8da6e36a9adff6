package events

import "time"

// DomainEvent is the base interface for all domain events
// Events represent something that has happened in the past
type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetTimestamp() time.Time
	GetVersion() int
}

// BaseEvent provides common event fields
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	Timestamp   time.Time `json:"timestamp"`
	Version     int       `json:"version"`
}

func (e BaseEvent) GetAggregateID() string  { return e.AggregateID }
func (e BaseEvent) GetEventType() string    { return e.EventType }
func (e BaseEvent) GetTimestamp() time.Time { return e.Timestamp }
func (e BaseEvent) GetVersion() int         { return e.Version }

// Catalog Events

// CatalogReloaded is raised after the catalog source has been re-read.
type CatalogReloaded struct {
	BaseEvent
	Source       string `json:"source"`
	ProductCount int    `json:"product_count"`
}

// NewCatalogReloaded creates a CatalogReloaded event
func NewCatalogReloaded(source string, productCount int, timestamp time.Time) CatalogReloaded {
	return CatalogReloaded{
		BaseEvent: BaseEvent{
			AggregateID: source,
			EventType:   "catalog.reloaded",
			Timestamp:   timestamp,
			Version:     1,
		},
		Source:       source,
		ProductCount: productCount,
	}
}

// Graph Events

// GraphRebuilt is raised after similarity edges and centrality scores have
// been recomputed for the current catalog.
type GraphRebuilt struct {
	BaseEvent
	NodeCount int `json:"node_count"`
	EdgeCount int `json:"edge_count"`
}

// NewGraphRebuilt creates a GraphRebuilt event
func NewGraphRebuilt(nodeCount, edgeCount int, timestamp time.Time) GraphRebuilt {
	return GraphRebuilt{
		BaseEvent: BaseEvent{
			AggregateID: "catalog-graph",
			EventType:   "graph.rebuilt",
			Timestamp:   timestamp,
			Version:     1,
		},
		NodeCount: nodeCount,
		EdgeCount: edgeCount,
	}
}
