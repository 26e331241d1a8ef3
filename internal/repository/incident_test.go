package repository_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/incident_reporting_service/internal/models"
	"github.com/shenikar/incident_reporting_service/internal/repository"
	"github.com/shenikar/incident_reporting_service/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openRepository подключается к TEST_DATABASE_URL и пересоздает таблицу incidents
func openRepository(t *testing.T) service.IncidentRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	down, err := os.ReadFile("../../migrations/000001_create_incidents_table.down.sql")
	require.NoError(t, err)
	up, err := os.ReadFile("../../migrations/000001_create_incidents_table.up.sql")
	require.NoError(t, err)

	_, err = pool.Exec(ctx, string(down))
	require.NoError(t, err)
	_, err = pool.Exec(ctx, string(up))
	require.NoError(t, err)

	return repository.NewIncidentRepository(pool, 5*time.Second, 1000)
}

func strPtr(s string) *string { return &s }

func sampleFields(contact *string) models.IncidentFields {
	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return models.IncidentFields{
		IncidentType:       "Fire",
		Description:        "Kitchen fire",
		Location:           "Bldg A",
		DateTime:           &ts,
		SeverityLevel:      "high",
		ContactInformation: contact,
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleFields(strPtr("a@x.com")))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
	assert.Equal(t, "Fire", got.IncidentType)
	assert.True(t, time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC).Equal(*got.DateTime))
	assert.Equal(t, "a@x.com", *got.ContactInformation)
}

func TestCreate_DuplicateContact(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleFields(strPtr("dup@x.com")))
	require.NoError(t, err)

	_, err = repo.Create(ctx, sampleFields(strPtr("dup@x.com")))
	assert.True(t, errors.Is(err, models.ErrDuplicateContact))

	// отсутствующий контакт не конфликтует
	_, err = repo.Create(ctx, sampleFields(nil))
	require.NoError(t, err)
	_, err = repo.Create(ctx, sampleFields(nil))
	require.NoError(t, err)
}

func TestCreate_ConcurrentDuplicateContact(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Create(ctx, sampleFields(strPtr("race@x.com")))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, dup int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, models.ErrDuplicateContact):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, dup)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := openRepository(t)

	_, err := repo.GetByID(context.Background(), 12345)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestUpdate_AppliesOnlyPatchFields(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleFields(strPtr("a@x.com")))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.IncidentPatch{SeverityLevel: strPtr("low")})
	require.NoError(t, err)

	assert.Equal(t, "low", updated.SeverityLevel)
	updated.SeverityLevel = created.SeverityLevel
	assert.Equal(t, created, updated)
}

func TestUpdate_ClearsContact(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleFields(strPtr("a@x.com")))
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, models.IncidentPatch{ContactInformation: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.ContactInformation)

	// освобожденный контакт можно использовать снова
	_, err = repo.Create(ctx, sampleFields(strPtr("a@x.com")))
	require.NoError(t, err)
}

func TestUpdate_DuplicateAndNotFound(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, sampleFields(strPtr("one@x.com")))
	require.NoError(t, err)
	second, err := repo.Create(ctx, sampleFields(strPtr("two@x.com")))
	require.NoError(t, err)

	_, err = repo.Update(ctx, second.ID, models.IncidentPatch{ContactInformation: strPtr("one@x.com")})
	assert.True(t, errors.Is(err, models.ErrDuplicateContact))

	got, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "two@x.com", *got.ContactInformation)

	_, err = repo.Update(ctx, 999, models.IncidentPatch{SeverityLevel: strPtr("low")})
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestDelete_Twice(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, sampleFields(nil))
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.True(t, errors.Is(repo.Delete(ctx, created.ID), models.ErrNotFound))

	// id не переиспользуется после удаления
	next, err := repo.Create(ctx, sampleFields(nil))
	require.NoError(t, err)
	assert.Greater(t, next.ID, created.ID)
}

func TestList_AscendingWithOffset(t *testing.T) {
	repo := openRepository(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := repo.Create(ctx, sampleFields(nil))
		require.NoError(t, err)
	}

	all, err := repo.List(ctx, 0, 100)
	require.NoError(t, err)
	require.Len(t, all, 5)
	for i, incident := range all {
		assert.Equal(t, int64(i+1), incident.ID)
	}

	page, err := repo.List(ctx, 3, 10)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(4), page[0].ID)
}
