package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/repository"
)

// documentTable is one of the two tables keyed by project.DocumentKey.
type documentTable string

const (
	tendersTable documentTable = "tenders"
	offersTable  documentTable = "offers"
)

func tableFor(docType project.DocumentType) (documentTable, error) {
	switch docType {
	case project.DocumentTender:
		return tendersTable, nil
	case project.DocumentOffer:
		return offersTable, nil
	default:
		return "", fmt.Errorf("%w: document type %q", repository.ErrInvalidInput, docType)
	}
}

// ProjectRepository implements project.Repository for SQLite
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// UpsertProject inserts a project or overwrites name and status of an existing one
func (r *ProjectRepository) UpsertProject(ctx context.Context, proj project.Project) error {
	query := `
		INSERT INTO projects (id, name, status)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name, status = excluded.status
	`

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, proj.ID, proj.Name, proj.Status); err != nil {
			return fmt.Errorf("failed to upsert project: %w", err)
		}
		return nil
	})
}

// UpsertTender inserts a tender record or updates the path of an existing one
func (r *ProjectRepository) UpsertTender(ctx context.Context, key project.DocumentKey, path string) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		return upsertDocument(ctx, tx, tendersTable, key, path)
	})
}

// UpsertOffer inserts an offer record or updates the path of an existing one
func (r *ProjectRepository) UpsertOffer(ctx context.Context, key project.DocumentKey, path string) error {
	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		return upsertDocument(ctx, tx, offersTable, key, path)
	})
}

// Ingest writes the project row and the matching tender or offer row in one
// transaction. An existing project keeps its status and only the name follows
// the directory. Re-seeing a directory deliberately does not reset the status
// to ACTIVE, so a rescan never reopens an archived or closed project.
func (r *ProjectRepository) Ingest(ctx context.Context, desc project.Descriptor) error {
	table, err := tableFor(desc.DocumentType)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO projects (id, name, status)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name = excluded.name
	`

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, query, desc.ID, desc.Name, project.StatusActive); err != nil {
			return fmt.Errorf("failed to upsert project: %w", err)
		}
		return upsertDocument(ctx, tx, table, desc.Key(), desc.Path)
	})
}

func upsertDocument(ctx context.Context, tx *sql.Tx, table documentTable, key project.DocumentKey, path string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (project_id, version, lot_number, company, path)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(project_id, version, lot_number, company) DO UPDATE SET path = excluded.path
	`, table)

	_, err := tx.ExecContext(ctx, query, key.ProjectID, key.Version, key.LotNumber, key.Company, path)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to upsert %s record: %w", table, err)
	}
	return nil
}

// UpdateStatus overwrites the status of a project
func (r *ProjectRepository) UpdateStatus(ctx context.Context, id string, status project.Status) error {
	query := `
		UPDATE projects
		SET status = ?
		WHERE id = ?
	`

	return r.db.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, status, id)
		if err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return repository.ErrNotFound
		}
		return nil
	})
}

// Get retrieves a project with all of its tender and offer records
func (r *ProjectRepository) Get(ctx context.Context, id string) (*project.ProjectView, error) {
	var view project.ProjectView
	err := r.db.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT id, name, status FROM projects WHERE id = ?`, id).Scan(
			&view.Project.ID,
			&view.Project.Name,
			&view.Project.Status,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return repository.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get project: %w", err)
		}

		if view.Tenders, err = queryTenders(ctx, tx, id); err != nil {
			return err
		}
		if view.Offers, err = queryOffers(ctx, tx, id); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// List returns projects with the given status, or every project for an empty status
func (r *ProjectRepository) List(ctx context.Context, status project.Status) ([]project.Project, error) {
	query := `SELECT id, name, status FROM projects`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []project.Project{}
	for rows.Next() {
		var proj project.Project
		if err := rows.Scan(&proj.ID, &proj.Name, &proj.Status); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, proj)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating project rows: %w", err)
	}

	return projects, nil
}

// ListTenders returns all tender records, or those of one project
func (r *ProjectRepository) ListTenders(ctx context.Context, projectID string) ([]project.TenderRecord, error) {
	return queryTenders(ctx, r.db, projectID)
}

// ListOffers returns all offer records, or those of one project
func (r *ProjectRepository) ListOffers(ctx context.Context, projectID string) ([]project.OfferRecord, error) {
	return queryOffers(ctx, r.db, projectID)
}

// CountByStatus returns the number of projects per status
func (r *ProjectRepository) CountByStatus(ctx context.Context) (map[project.Status]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM projects GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count projects: %w", err)
	}
	defer rows.Close()

	counts := make(map[project.Status]int)
	for rows.Next() {
		var status project.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}
		counts[status] = count
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating status rows: %w", err)
	}

	return counts, nil
}

// queryer is satisfied by both *DB and *sql.Tx.
type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// documentRow holds the columns shared by the tenders and offers tables.
type documentRow struct {
	ID        int64
	ProjectID string
	Version   string
	LotNumber string
	Company   string
	Path      string
}

func queryDocuments(ctx context.Context, q queryer, table documentTable, projectID string) ([]documentRow, error) {
	query := fmt.Sprintf(`SELECT id, project_id, version, lot_number, company, path FROM %s`, table)
	var args []any
	if projectID != "" {
		query += ` WHERE project_id = ?`
		args = append(args, projectID)
	}
	query += ` ORDER BY id`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", table, err)
	}
	defer rows.Close()

	var docs []documentRow
	for rows.Next() {
		var doc documentRow
		err := rows.Scan(&doc.ID, &doc.ProjectID, &doc.Version, &doc.LotNumber, &doc.Company, &doc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		docs = append(docs, doc)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s rows: %w", table, err)
	}

	return docs, nil
}

func queryTenders(ctx context.Context, q queryer, projectID string) ([]project.TenderRecord, error) {
	docs, err := queryDocuments(ctx, q, tendersTable, projectID)
	if err != nil {
		return nil, err
	}
	tenders := make([]project.TenderRecord, 0, len(docs))
	for _, doc := range docs {
		tenders = append(tenders, project.TenderRecord(doc))
	}
	return tenders, nil
}

func queryOffers(ctx context.Context, q queryer, projectID string) ([]project.OfferRecord, error) {
	docs, err := queryDocuments(ctx, q, offersTable, projectID)
	if err != nil {
		return nil, err
	}
	offers := make([]project.OfferRecord, 0, len(docs))
	for _, doc := range docs {
		offers = append(offers, project.OfferRecord(doc))
	}
	return offers, nil
}

var _ project.Repository = (*ProjectRepository)(nil)
