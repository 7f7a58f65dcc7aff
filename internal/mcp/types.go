package mcp

import (
	"time"

	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/scanner"
)

type ListProjectsParams struct {
	Status string `json:"status,omitempty" jsonschema:"Status filter: TENDER, ACTIVE, ARCHIVED, CLOSED or all (default ACTIVE)"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project id, e.g. 2022-06001"`
}

type UpdateProjectStatusParams struct {
	ID     string `json:"id" jsonschema:"Project id"`
	Status string `json:"status" jsonschema:"New status: TENDER, ACTIVE, ARCHIVED or CLOSED"`
}

type ListDocumentsParams struct {
	ProjectID string `json:"project_id,omitempty" jsonschema:"Limit results to one project"`
}

// EmptyParams is the input of tools that take no arguments.
type EmptyParams struct{}

type ProjectResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type DocumentResponse struct {
	ID        int64  `json:"id"`
	ProjectID string `json:"project_id"`
	Version   string `json:"version"`
	LotNumber string `json:"lot_number"`
	Company   string `json:"company"`
	Path      string `json:"path"`
}

type ListProjectsResponse struct {
	Projects []ProjectResponse `json:"projects"`
}

type GetProjectResponse struct {
	Project ProjectResponse    `json:"project"`
	Tenders []DocumentResponse `json:"tenders"`
	Offers  []DocumentResponse `json:"offers"`
}

type UpdateProjectStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type ListTendersResponse struct {
	Tenders []DocumentResponse `json:"tenders"`
}

type ListOffersResponse struct {
	Offers []DocumentResponse `json:"offers"`
}

type StatusCountResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

type StatusCountsResponse struct {
	Counts []StatusCountResponse `json:"counts"`
	Total  int                   `json:"total"`
}

type ScanOutcomeResponse struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

type ScanProjectsResponse struct {
	RunID      string                `json:"run_id"`
	Root       string                `json:"root"`
	Persisted  int                   `json:"persisted"`
	Skipped    []ScanOutcomeResponse `json:"skipped"`
	Failed     []ScanOutcomeResponse `json:"failed"`
	DurationMS int64                 `json:"duration_ms"`
}

func toProjectResponse(p project.Project) ProjectResponse {
	return ProjectResponse{ID: p.ID, Name: p.Name, Status: string(p.Status)}
}

func toTenderResponses(records []project.TenderRecord) []DocumentResponse {
	resp := make([]DocumentResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, DocumentResponse(r))
	}
	return resp
}

func toOfferResponses(records []project.OfferRecord) []DocumentResponse {
	resp := make([]DocumentResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, DocumentResponse(r))
	}
	return resp
}

func toOutcomeResponses(outcomes []scanner.Outcome) []ScanOutcomeResponse {
	resp := make([]ScanOutcomeResponse, 0, len(outcomes))
	for _, o := range outcomes {
		resp = append(resp, ScanOutcomeResponse{Name: o.Name, Reason: o.Reason})
	}
	return resp
}

func toScanResponse(report *scanner.Report) ScanProjectsResponse {
	var duration time.Duration
	if !report.FinishedAt.IsZero() {
		duration = report.FinishedAt.Sub(report.StartedAt)
	}
	return ScanProjectsResponse{
		RunID:      report.RunID,
		Root:       report.Root,
		Persisted:  report.Persisted,
		Skipped:    toOutcomeResponses(report.Skipped),
		Failed:     toOutcomeResponses(report.Failed),
		DurationMS: duration.Milliseconds(),
	}
}
