package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/wiwo/tenderindex/internal/domain/project"
)

// ProjectRepository is a mock for project.Repository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) UpsertProject(ctx context.Context, proj project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) UpsertTender(ctx context.Context, key project.DocumentKey, path string) error {
	args := m.Called(ctx, key, path)
	return args.Error(0)
}

func (m *ProjectRepository) UpsertOffer(ctx context.Context, key project.DocumentKey, path string) error {
	args := m.Called(ctx, key, path)
	return args.Error(0)
}

func (m *ProjectRepository) Ingest(ctx context.Context, desc project.Descriptor) error {
	args := m.Called(ctx, desc)
	return args.Error(0)
}

func (m *ProjectRepository) UpdateStatus(ctx context.Context, id string, status project.Status) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.ProjectView, error) {
	args := m.Called(ctx, id)
	if view, ok := args.Get(0).(*project.ProjectView); ok {
		return view, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context, status project.Status) ([]project.Project, error) {
	args := m.Called(ctx, status)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListTenders(ctx context.Context, projectID string) ([]project.TenderRecord, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.TenderRecord); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) ListOffers(ctx context.Context, projectID string) ([]project.OfferRecord, error) {
	args := m.Called(ctx, projectID)
	if list, ok := args.Get(0).([]project.OfferRecord); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	args := m.Called(ctx)
	if counts, ok := args.Get(0).(map[project.Status]int); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ project.Repository = (*ProjectRepository)(nil)
