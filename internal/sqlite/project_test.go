package sqlite

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/wiwo/tenderindex/internal/domain/project"
	"github.com/wiwo/tenderindex/internal/repository"
)

func descriptor(id string, docType project.DocumentType, version, lot, company, path string) project.Descriptor {
	return project.Descriptor{
		ID:           id,
		Name:         "Name-" + id,
		DocumentType: docType,
		Status:       project.StatusActive,
		Version:      version,
		LotNumber:    lot,
		Company:      company,
		Path:         path,
	}
}

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestProjectRepository_UpsertProjectIsIdempotent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	proj := project.Project{ID: "p1", Name: "Bridge", Status: project.StatusActive}
	require.NoError(t, repo.UpsertProject(ctx, proj))
	require.NoError(t, repo.UpsertProject(ctx, proj))

	require.Equal(t, 1, countRows(t, db, "projects"))
	view, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, proj, view.Project)
}

func TestProjectRepository_UpsertProjectMerges(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertProject(ctx, project.Project{ID: "p1", Name: "Bridge", Status: project.StatusActive}))
	require.NoError(t, repo.UpsertProject(ctx, project.Project{ID: "p1", Name: "Bridge North", Status: project.StatusTender}))

	require.Equal(t, 1, countRows(t, db, "projects"))
	view, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Bridge North", view.Project.Name)
	require.Equal(t, project.StatusTender, view.Project.Status)
}

func TestProjectRepository_UpsertTenderUpdatesPath(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertProject(ctx, project.Project{ID: "p1", Name: "Bridge", Status: project.StatusActive}))
	key := project.DocumentKey{ProjectID: "p1", Version: "2", LotNumber: "10", Company: "ACME"}

	require.NoError(t, repo.UpsertTender(ctx, key, "/old"))
	require.NoError(t, repo.UpsertTender(ctx, key, "/old"))
	require.Equal(t, 1, countRows(t, db, "tenders"))

	require.NoError(t, repo.UpsertTender(ctx, key, "/new"))
	tenders, err := repo.ListTenders(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, tenders, 1)
	require.Equal(t, key, tenders[0].Key())
	require.Equal(t, "/new", tenders[0].Path)
	require.Equal(t, 0, countRows(t, db, "offers"))
}

func TestProjectRepository_UpsertOfferRequiresProject(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	key := project.DocumentKey{ProjectID: "ghost", Version: "1", LotNumber: "100", Company: "WiWo"}
	err := repo.UpsertOffer(ctx, key, "/x")
	require.ErrorIs(t, err, repository.ErrForeignKeyViolation)
	require.Equal(t, 0, countRows(t, db, "offers"))
}

func TestProjectRepository_IngestRoutesByDocumentType(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ingest(ctx, descriptor("p1", project.DocumentTender, "1", "100", "WiWo", "/p1_AS")))
	require.NoError(t, repo.Ingest(ctx, descriptor("p1", project.DocumentOffer, "1", "100", "WiWo", "/p1_AN")))

	require.Equal(t, 1, countRows(t, db, "projects"))
	require.Equal(t, 1, countRows(t, db, "tenders"))
	require.Equal(t, 1, countRows(t, db, "offers"))

	view, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "/p1_AS", view.Tenders[0].Path)
	require.Equal(t, "/p1_AN", view.Offers[0].Path)
}

func TestProjectRepository_IngestKeepsStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ingest(ctx, descriptor("p1", project.DocumentOffer, "1", "100", "WiWo", "/a")))
	require.NoError(t, repo.UpdateStatus(ctx, "p1", project.StatusArchived))

	desc := descriptor("p1", project.DocumentOffer, "2", "100", "WiWo", "/b")
	desc.Name = "Renamed"
	require.NoError(t, repo.Ingest(ctx, desc))

	view, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, "Renamed", view.Project.Name)
	require.Equal(t, project.StatusArchived, view.Project.Status)
	require.Len(t, view.Offers, 2)
}

func TestProjectRepository_IngestRejectsUnknownDocumentType(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	err := repo.Ingest(context.Background(), descriptor("p1", "", "1", "100", "WiWo", "/a"))
	require.ErrorIs(t, err, repository.ErrInvalidInput)
	require.Equal(t, 0, countRows(t, db, "projects"))
}

func TestProjectRepository_IngestIsAllOrNothing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	_, err := db.Exec(`
		CREATE TRIGGER fail_tender BEFORE INSERT ON tenders WHEN NEW.path = '/boom'
		BEGIN SELECT RAISE(ABORT, 'simulated write failure'); END;
	`)
	require.NoError(t, err)

	err = repo.Ingest(ctx, descriptor("p1", project.DocumentTender, "1", "100", "WiWo", "/boom"))
	require.Error(t, err)

	_, err = repo.Get(ctx, "p1")
	require.ErrorIs(t, err, repository.ErrNotFound, "project row must roll back with the tender row")
	require.Equal(t, 0, countRows(t, db, "tenders"))

	// The next directory is unaffected.
	require.NoError(t, repo.Ingest(ctx, descriptor("p2", project.DocumentTender, "1", "100", "WiWo", "/ok")))
	view, err := repo.Get(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, view.Tenders, 1)
}

func TestProjectRepository_IngestCanceledContextWritesNothing(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := repo.Ingest(ctx, descriptor("p1", project.DocumentOffer, "1", "100", "WiWo", "/a"))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 0, countRows(t, db, "projects"))
}

func TestProjectRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.ErrorIs(t, repo.UpdateStatus(ctx, "missing", project.StatusClosed), repository.ErrNotFound)

	require.NoError(t, repo.UpsertProject(ctx, project.Project{ID: "p1", Name: "Bridge", Status: project.StatusActive}))
	require.NoError(t, repo.UpdateStatus(ctx, "p1", project.StatusClosed))
	require.NoError(t, repo.UpdateStatus(ctx, "p1", project.StatusTender))

	view, err := repo.Get(ctx, "p1")
	require.NoError(t, err)
	require.Equal(t, project.StatusTender, view.Project.Status)
}

func TestProjectRepository_GetAbsent(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)

	view, err := repo.Get(context.Background(), "never-seen")
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.Nil(t, view)
}

func TestProjectRepository_GetCollectsAllRecordsInAnyOrder(t *testing.T) {
	ctx := context.Background()
	descs := []project.Descriptor{
		descriptor("p1", project.DocumentTender, "1", "100", "WiWo", "/t1"),
		descriptor("p1", project.DocumentTender, "1", "2", "WiWo", "/t2"),
		descriptor("p1", project.DocumentOffer, "1", "2", "ACME", "/o1"),
		descriptor("p1", project.DocumentOffer, "3", "2", "ACME", "/o2"),
		descriptor("p2", project.DocumentOffer, "1", "100", "WiWo", "/other"),
	}

	collect := func(order []int) *project.ProjectView {
		db := NewTestDB(t)
		repo := NewProjectRepository(db)
		for _, i := range order {
			require.NoError(t, repo.Ingest(ctx, descs[i]))
		}
		view, err := repo.Get(ctx, "p1")
		require.NoError(t, err)
		return view
	}

	forward := collect([]int{0, 1, 2, 3, 4})
	backward := collect([]int{4, 3, 2, 1, 0})

	for _, view := range []*project.ProjectView{forward, backward} {
		require.Len(t, view.Tenders, 2)
		require.Len(t, view.Offers, 2)
		require.ElementsMatch(t, []string{"/t1", "/t2"}, []string{view.Tenders[0].Path, view.Tenders[1].Path})
		require.ElementsMatch(t, []string{"/o1", "/o2"}, []string{view.Offers[0].Path, view.Offers[1].Path})
	}
}

func TestProjectRepository_ListAndCount(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	for i, status := range []project.Status{project.StatusActive, project.StatusActive, project.StatusClosed} {
		id := fmt.Sprintf("p%d", i)
		require.NoError(t, repo.UpsertProject(ctx, project.Project{ID: id, Name: id, Status: status}))
	}

	active, err := repo.List(ctx, project.StatusActive)
	require.NoError(t, err)
	require.Len(t, active, 2)

	all, err := repo.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	archived, err := repo.List(ctx, project.StatusArchived)
	require.NoError(t, err)
	require.Empty(t, archived)

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	require.Equal(t, map[project.Status]int{project.StatusActive: 2, project.StatusClosed: 1}, counts)
}

func TestProjectRepository_ListDocumentsAcrossProjects(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Ingest(ctx, descriptor("p1", project.DocumentOffer, "1", "100", "WiWo", "/a")))
	require.NoError(t, repo.Ingest(ctx, descriptor("p2", project.DocumentOffer, "1", "100", "WiWo", "/b")))

	offers, err := repo.ListOffers(ctx, "")
	require.NoError(t, err)
	require.Len(t, offers, 2)

	offers, err = repo.ListOffers(ctx, "p2")
	require.NoError(t, err)
	require.Len(t, offers, 1)
	require.Equal(t, "/b", offers[0].Path)

	tenders, err := repo.ListTenders(ctx, "")
	require.NoError(t, err)
	require.Empty(t, tenders)
}

func TestProjectRepository_ConcurrentIngestOfDistinctKeys(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			lot := fmt.Sprintf("%d", i%5)
			errs <- repo.Ingest(ctx, descriptor("p1", project.DocumentOffer, fmt.Sprint(i), lot, "WiWo", fmt.Sprintf("/d%d", i)))
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.Equal(t, 1, countRows(t, db, "projects"))
	require.Equal(t, 20, countRows(t, db, "offers"))
}

func TestProjectRepository_ClosedDatabaseReportsFailure(t *testing.T) {
	db := NewTestDB(t)
	repo := NewProjectRepository(db)
	require.NoError(t, db.Close())

	err := repo.Ingest(context.Background(), descriptor("p1", project.DocumentOffer, "1", "100", "WiWo", "/a"))
	require.Error(t, err)
}
