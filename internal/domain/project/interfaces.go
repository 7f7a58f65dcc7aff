package project

import "context"

// Repository provides persistence for projects and their document records.
type Repository interface {
	UpsertProject(ctx context.Context, proj Project) error
	UpsertTender(ctx context.Context, key DocumentKey, path string) error
	UpsertOffer(ctx context.Context, key DocumentKey, path string) error
	Ingest(ctx context.Context, desc Descriptor) error
	UpdateStatus(ctx context.Context, id string, status Status) error
	Get(ctx context.Context, id string) (*ProjectView, error)
	List(ctx context.Context, status Status) ([]Project, error)
	ListTenders(ctx context.Context, projectID string) ([]TenderRecord, error)
	ListOffers(ctx context.Context, projectID string) ([]OfferRecord, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}
