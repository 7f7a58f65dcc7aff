// Package httpapi exposes the project index over a JSON HTTP API.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/scanner"
)

// Handler serves the project endpoints.
type Handler struct {
	projects *project.Service
	scanner  *scanner.Scanner
	root     string
	logger   *slog.Logger
}

// NewHandler creates a handler. Scans triggered over HTTP always use root.
func NewHandler(projects *project.Service, sc *scanner.Scanner, root string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{projects: projects, scanner: sc, root: root, logger: logger}
}

// UpdateStatusRequest is the body of PUT /api/projects/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatusCount is one row of GET /api/statuses.
type StatusCount struct {
	Status project.Status `json:"status"`
	Count  int            `json:"count"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	success(c, http.StatusOK, nil, "ok")
}

// ListProjects handles GET /api/projects?status=
func (h *Handler) ListProjects(c *gin.Context) {
	status, err := project.ParseStatusFilter(c.Query("status"))
	if err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid status filter")
		return
	}

	projects, err := h.projects.List(c.Request.Context(), status)
	if err != nil {
		h.logger.Error("listing projects failed", "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to list projects")
		return
	}

	success(c, http.StatusOK, projects, "Projects retrieved successfully")
}

// GetProject handles GET /api/projects/:id
func (h *Handler) GetProject(c *gin.Context) {
	id := c.Param("id")

	view, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("getting project failed", "project_id", id, "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to get project")
		return
	}
	if view == nil {
		fail(c, http.StatusNotFound, project.ErrProjectNotFound, "Project not found")
		return
	}

	success(c, http.StatusOK, view, "Project retrieved successfully")
}

// UpdateStatus handles PUT /api/projects/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	status, err := project.ParseStatus(req.Status)
	if err != nil {
		fail(c, http.StatusBadRequest, err, "Invalid status")
		return
	}

	id := c.Param("id")
	if err := h.projects.UpdateStatus(c.Request.Context(), id, status); err != nil {
		if errors.Is(err, project.ErrInvalidStatus) {
			fail(c, http.StatusBadRequest, err, "Invalid status")
			return
		}
		h.logger.Error("updating project status failed", "project_id", id, "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to update status")
		return
	}

	success(c, http.StatusOK, gin.H{"id": id, "status": status}, "Status updated successfully")
}

// ListTenders handles GET /api/tenders?projectId=
func (h *Handler) ListTenders(c *gin.Context) {
	tenders, err := h.projects.ListTenders(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		h.logger.Error("listing tenders failed", "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to list tenders")
		return
	}
	success(c, http.StatusOK, tenders, "Tenders retrieved successfully")
}

// ListOffers handles GET /api/offers?projectId=
func (h *Handler) ListOffers(c *gin.Context) {
	offers, err := h.projects.ListOffers(c.Request.Context(), c.Query("projectId"))
	if err != nil {
		h.logger.Error("listing offers failed", "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to list offers")
		return
	}
	success(c, http.StatusOK, offers, "Offers retrieved successfully")
}

// StatusCounts handles GET /api/statuses
func (h *Handler) StatusCounts(c *gin.Context) {
	counts, err := h.projects.CountByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("counting projects failed", "error", err)
		fail(c, http.StatusInternalServerError, err, "Failed to count projects")
		return
	}

	rows := make([]StatusCount, 0, len(project.Statuses))
	for _, st := range project.Statuses {
		rows = append(rows, StatusCount{Status: st, Count: counts[st]})
	}
	success(c, http.StatusOK, rows, "Status counts retrieved successfully")
}

// Scan handles POST /api/scan
func (h *Handler) Scan(c *gin.Context) {
	report, err := h.scanner.ScanAndPersist(c.Request.Context(), h.root)
	if err != nil {
		h.logger.Error("scan failed", "root", h.root, "error", err)
		fail(c, http.StatusInternalServerError, err, "Scan failed")
		return
	}
	success(c, http.StatusOK, report, "Scan completed")
}
