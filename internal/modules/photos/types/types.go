package types

import "time"

// Photo is one persisted upload record. Records are append-only: never
// updated or deleted once written.
type Photo struct {
	ID           int64             `json:"id"`
	TakenAt      time.Time         `json:"takenAt"`
	Filename     string            `json:"filename"`
	ContentHash  string            `json:"contentHash"`
	Width        int               `json:"width"`
	Height       int               `json:"height"`
	CameraMeta   map[string]string `json:"cameraMeta,omitempty"`
	TemperatureC *float64          `json:"temperatureC,omitempty"`
	HumidityPct  *float64          `json:"humidityPct,omitempty"`
	DeviceModel  string            `json:"deviceModel,omitempty"`
}

// SeriesPoint is one charted reading; at least one of the two values is set.
type SeriesPoint struct {
	TakenAt      time.Time `json:"takenAt"`
	TemperatureC *float64  `json:"temperatureC,omitempty"`
	HumidityPct  *float64  `json:"humidityPct,omitempty"`
}

// Dashboard is the read-only composition the render boundary consumes.
// All three parts are empty (not an error) on an empty store.
type Dashboard struct {
	Latest *Photo
	Series []SeriesPoint
	Recent []Photo
}
