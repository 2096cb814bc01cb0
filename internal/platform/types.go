package platform

import "time"

// Asset is a node of the plant hierarchy (site, line, machine, sensor)
type Asset struct {
	ID          string                 `json:"id"`
	ExternalID  string                 `json:"externalId,omitempty"`
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	ParentID    string                 `json:"parentId,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// AssetInput is the writable part of an asset
type AssetInput struct {
	ExternalID  string `json:"externalId,omitempty"`
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	ParentID    string `json:"parentId,omitempty"`
	// Metadata is user-defined; its keys are sent exactly as given
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Event is something that happened to one or more assets over a time span
type Event struct {
	ID          string                 `json:"id"`
	Type        string                 `json:"type"`
	Subtype     string                 `json:"subtype,omitempty"`
	Description string                 `json:"description,omitempty"`
	AssetIDs    []string               `json:"assetIds,omitempty"`
	Source      string                 `json:"source,omitempty"`
	StartTime   time.Time              `json:"startTime"`
	EndTime     *time.Time             `json:"endTime,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// EventInput is the writable part of an event
type EventInput struct {
	Type        string     `json:"type"`
	Subtype     string     `json:"subtype,omitempty"`
	Description string     `json:"description,omitempty"`
	AssetIDs    []string   `json:"assetIds,omitempty"`
	Source      string     `json:"source,omitempty"`
	StartTime   time.Time  `json:"startTime"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}

// File is a document attached to assets (manuals, drawings, exports)
type File struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Directory  string    `json:"directory,omitempty"`
	MimeType   string    `json:"mimeType,omitempty"`
	Size       int64     `json:"size"`
	AssetIDs   []string  `json:"assetIds,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// User is an identity known to the coordinator service
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Metric is a time series attached to an asset
type Metric struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit,omitempty"`
	AssetID     string `json:"assetId,omitempty"`
	Description string `json:"description,omitempty"`
}

// MetricQuery selects datapoints of a metric
type MetricQuery struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Aggregate   string    `json:"aggregate,omitempty"`   // e.g. "average", "max"
	Granularity string    `json:"granularity,omitempty"` // e.g. "1m", "1h"
	Limit       int       `json:"limit,omitempty"`
}

// Datapoint is a single metric sample
type Datapoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// MetricSeries is the result of a metric query
type MetricSeries struct {
	MetricID   string      `json:"metricId"`
	Aggregate  string      `json:"aggregate,omitempty"`
	Datapoints []Datapoint `json:"datapoints"`
}

// ListOptions selects a page of a list endpoint. A nil *ListOptions asks
// for the server defaults.
type ListOptions struct {
	Offset int `json:"offset,omitempty"`
	Limit  int `json:"limit,omitempty"`
}

// EventFilter narrows ListEvents
type EventFilter struct {
	ListOptions
	AssetID   string     `json:"assetId,omitempty"`
	Type      string     `json:"type,omitempty"`
	StartFrom *time.Time `json:"startFrom,omitempty"`
	StartTo   *time.Time `json:"startTo,omitempty"`
}

// ErrorResponse is the platform's error envelope
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
