package models

import "time"

// Organization is the record supplied by the surrounding CRUD layer when an
// analysis is triggered.
type Organization struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
}

// AnalysisStatus tracks the lifecycle of a persisted analysis run.
type AnalysisStatus string

const (
	AnalysisStatusProcessing AnalysisStatus = "processing"
	AnalysisStatusCompleted  AnalysisStatus = "completed"
	AnalysisStatusFailed     AnalysisStatus = "failed"
	AnalysisStatusCancelled  AnalysisStatus = "cancelled"
)

// ResultEnvelope is the uniform status record reported back to the dispatcher
// and persistence layer for both the analysis and refresh paths.
type ResultEnvelope struct {
	Status         AnalysisStatus `json:"status"`
	Error          string         `json:"error,omitempty"`
	OrganizationID string         `json:"organization_id"`
}

// ProfileRecord is the persisted analysis entry, one per organization. The
// latest successful run supersedes the previous one.
type ProfileRecord struct {
	OrganizationID string          `json:"organization_id" badgerhold:"key"`
	Name           string          `json:"name"`
	Website        string          `json:"website"`
	Status         AnalysisStatus  `json:"status"`
	Profile        *WebsiteProfile `json:"profile,omitempty"`
	Error          string          `json:"error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
