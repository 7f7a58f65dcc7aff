package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wiwo/tenderindex/internal/repository"
)

// Service handles project operations.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new project service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{repo: repo, logger: logger}
}

// Ingest records one observed project directory: the project row plus exactly
// one tender or offer row, chosen by the descriptor's document type.
func (s *Service) Ingest(ctx context.Context, desc Descriptor) error {
	if err := ValidateDescriptor(desc); err != nil {
		return err
	}
	if err := s.repo.Ingest(ctx, desc); err != nil {
		return fmt.Errorf("ingesting project %s: %w", desc.ID, err)
	}
	s.logger.Debug("project directory ingested",
		"project_id", desc.ID,
		"document_type", desc.DocumentType,
		"version", desc.Version,
		"lot_number", desc.LotNumber,
		"company", desc.Company,
		"path", desc.Path,
	)
	return nil
}

// UpsertProject inserts the project or overwrites its name and status.
func (s *Service) UpsertProject(ctx context.Context, proj Project) error {
	if proj.ID == "" || proj.Name == "" {
		return ErrInvalidInput
	}
	if proj.Status == "" {
		proj.Status = StatusActive
	}
	if !proj.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, proj.Status)
	}
	if err := s.repo.UpsertProject(ctx, proj); err != nil {
		return fmt.Errorf("upserting project %s: %w", proj.ID, err)
	}
	return nil
}

// UpsertTender inserts a tender record or updates its path.
func (s *Service) UpsertTender(ctx context.Context, key DocumentKey, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.mapWriteErr(key.ProjectID, s.repo.UpsertTender(ctx, key, path), "upserting tender")
}

// UpsertOffer inserts an offer record or updates its path.
func (s *Service) UpsertOffer(ctx context.Context, key DocumentKey, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return s.mapWriteErr(key.ProjectID, s.repo.UpsertOffer(ctx, key, path), "upserting offer")
}

func (s *Service) mapWriteErr(projectID string, err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrForeignKeyViolation) {
		return fmt.Errorf("%s for %s: %w", op, projectID, ErrProjectNotFound)
	}
	return fmt.Errorf("%s for %s: %w", op, projectID, err)
}

// UpdateStatus overwrites the status of a project. An unknown project is
// logged and otherwise ignored.
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	err := s.repo.UpdateStatus(ctx, id, status)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("status update for unknown project ignored", "project_id", id, "status", status)
		return nil
	}
	if err != nil {
		return fmt.Errorf("updating status of %s: %w", id, err)
	}
	s.logger.Info("project status updated", "project_id", id, "status", status)
	return nil
}

// Get returns the project with all tender and offer records, or nil when the
// project does not exist.
func (s *Service) Get(ctx context.Context, id string) (*ProjectView, error) {
	view, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return view, nil
}

// List returns projects with the given status, or all projects for "".
func (s *Service) List(ctx context.Context, status Status) ([]Project, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	projects, err := s.repo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}

// ListTenders returns tender records, limited to one project when projectID is set.
func (s *Service) ListTenders(ctx context.Context, projectID string) ([]TenderRecord, error) {
	tenders, err := s.repo.ListTenders(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing tenders: %w", err)
	}
	return tenders, nil
}

// ListOffers returns offer records, limited to one project when projectID is set.
func (s *Service) ListOffers(ctx context.Context, projectID string) ([]OfferRecord, error) {
	offers, err := s.repo.ListOffers(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("listing offers: %w", err)
	}
	return offers, nil
}

// CountByStatus returns the number of projects per status. Every known
// status is present in the result, with zero when no project has it.
func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting projects: %w", err)
	}
	out := make(map[Status]int, len(Statuses))
	for _, st := range Statuses {
		out[st] = 0
	}
	for st, n := range counts {
		out[st] = n
	}
	return out, nil
}
