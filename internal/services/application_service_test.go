package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/hiredesk/hiredesk/internal/models"
	"github.com/hiredesk/hiredesk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAppRepo is an in-memory application store that counts status
// writes, so idempotence is observable.
type fakeAppRepo struct {
	docs         map[string]*models.Application
	statusWrites int
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{docs: map[string]*models.Application{}}
}

func (f *fakeAppRepo) Insert(_ context.Context, a *models.Application) error {
	cp := *a
	f.docs[a.ID] = &cp
	return nil
}

func (f *fakeAppRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	if a, ok := f.docs[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeAppRepo) ListByUser(_ context.Context, userID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.docs {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeAppRepo) ListAll(_ context.Context) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.docs {
		out = append(out, *a)
	}
	sortNewestFirst(out)
	return out, nil
}

func (f *fakeAppRepo) SetStatus(_ context.Context, id string, status models.ApplicationStatus, updatedAt time.Time) (*models.Application, error) {
	a, ok := f.docs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	f.statusWrites++
	a.Status = status
	a.UpdatedAt = updatedAt
	cp := *a
	return &cp, nil
}

func sortNewestFirst(apps []models.Application) {
	sort.Slice(apps, func(i, j int) bool { return apps[i].CreatedAt.After(apps[j].CreatedAt) })
}

// fakeCache records hits and deletes; storage is a plain map of raw
// values, good enough for the invalidation assertions.
type fakeCache struct {
	vals map[string]any
	dels int
}

func newFakeCache() *fakeCache { return &fakeCache{vals: map[string]any{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	v, ok := f.vals[key]
	if !ok {
		return false, nil
	}
	if p, ok2 := dst.(*[]models.ApplicationWithOwner); ok2 {
		*p = v.([]models.ApplicationWithOwner)
		return true, nil
	}
	return false, nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, val any, _ time.Duration) error {
	f.vals[key] = val
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.vals, k)
	}
	f.dels += len(keys)
	return nil
}

func validContact() models.Contact {
	return models.Contact{FullName: "Alice Doe", Phone: "+1 555 0100", Email: "alice@x.com"}
}

func backendJob() models.JobSnapshot {
	return models.JobSnapshot{Title: "Backend Developer", Company: "Acme", Location: "Remote", Description: "Go services"}
}

func TestApplicationService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a pending application stamped with now", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)

		before := time.Now().UTC()
		app, err := svc.Submit(ctx, "u1", models.RoleUser, validContact(), backendJob(), "resume-1")
		require.NoError(t, err)

		assert.Equal(t, models.StatusPending, app.Status)
		assert.Equal(t, "u1", app.UserID)
		assert.Equal(t, "resume-1", app.ResumeFileID)
		assert.Equal(t, "Backend Developer", app.Job.Title)
		assert.False(t, app.CreatedAt.Before(before))
		require.Len(t, repo.docs, 1)
	})

	t.Run("admin callers are forbidden", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)

		_, err := svc.Submit(ctx, "a1", models.RoleAdmin, validContact(), backendJob(), "resume-1")
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
		assert.Empty(t, repo.docs)
	})

	t.Run("missing contact fields rejected", func(t *testing.T) {
		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), nil)

		for _, contact := range []models.Contact{
			{Phone: "+1 555 0100", Email: "alice@x.com"},
			{FullName: "Alice Doe", Email: "alice@x.com"},
			{FullName: "Alice Doe", Phone: "+1 555 0100"},
		} {
			_, err := svc.Submit(ctx, "u1", models.RoleUser, contact, backendJob(), "resume-1")
			require.Error(t, err)
			assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
		}
	})

	t.Run("empty resume reference rejected", func(t *testing.T) {
		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), nil)

		_, err := svc.Submit(ctx, "u1", models.RoleUser, validContact(), backendJob(), "")
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	})

	t.Run("invalidates the admin listing cache", func(t *testing.T) {
		c := newFakeCache()
		c.vals[adminListCacheKey] = []models.ApplicationWithOwner{}
		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), c)

		_, err := svc.Submit(ctx, "u1", models.RoleUser, validContact(), backendJob(), "resume-1")
		require.NoError(t, err)
		assert.NotContains(t, c.vals, adminListCacheKey)
	})
}

func TestApplicationService_ListOwn(t *testing.T) {
	ctx := context.Background()

	t.Run("returns only the caller's applications", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)

		_, err := svc.Submit(ctx, "u1", models.RoleUser, validContact(), backendJob(), "r1")
		require.NoError(t, err)
		_, err = svc.Submit(ctx, "u2", models.RoleUser, validContact(), backendJob(), "r2")
		require.NoError(t, err)

		apps, err := svc.ListOwn(ctx, "u1", models.RoleUser)
		require.NoError(t, err)
		require.Len(t, apps, 1)
		assert.Equal(t, "u1", apps[0].UserID)
		assert.Equal(t, models.StatusPending, apps[0].Status)
	})

	t.Run("admins are forbidden", func(t *testing.T) {
		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), nil)

		_, err := svc.ListOwn(ctx, "a1", models.RoleAdmin)
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
	})
}

func TestApplicationService_ListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("joins owner identity onto each row", func(t *testing.T) {
		users := newFakeUserRepo()
		require.NoError(t, users.Create(ctx, &models.User{ID: "u1", Name: "Alice", Email: "alice@x.com", Role: models.RoleUser}))

		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, users, nil)

		_, err := svc.Submit(ctx, "u1", models.RoleUser, validContact(), backendJob(), "r1")
		require.NoError(t, err)

		rows, err := svc.ListAll(ctx, models.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Alice", rows[0].OwnerName)
		assert.Equal(t, "alice@x.com", rows[0].OwnerEmail)
	})

	t.Run("non-admin callers are forbidden", func(t *testing.T) {
		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), nil)

		_, err := svc.ListAll(ctx, models.RoleUser)
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
	})

	t.Run("serves the cached listing when warm", func(t *testing.T) {
		c := newFakeCache()
		cached := []models.ApplicationWithOwner{{OwnerName: "Cached"}}
		c.vals[adminListCacheKey] = cached

		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), c)

		rows, err := svc.ListAll(ctx, models.RoleAdmin)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Cached", rows[0].OwnerName)
	})
}

func TestApplicationService_Decide(t *testing.T) {
	ctx := context.Background()

	submit := func(t *testing.T, svc ApplicationService) *models.Application {
		t.Helper()
		app, err := svc.Submit(ctx, "u1", models.RoleUser, validContact(), backendJob(), "r1")
		require.NoError(t, err)
		return app
	}

	t.Run("accepts a pending application", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)
		app := submit(t, svc)

		updated, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusAccepted)
		require.NoError(t, err)
		assert.Equal(t, models.StatusAccepted, updated.Status)
		assert.Equal(t, 1, repo.statusWrites)
	})

	t.Run("same decision twice writes at most once", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)
		app := submit(t, svc)

		first, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusAccepted)
		require.NoError(t, err)
		second, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusAccepted)
		require.NoError(t, err)

		assert.Equal(t, first.Status, second.Status)
		assert.Equal(t, 1, repo.statusWrites)
	})

	t.Run("reversal between accepted and rejected is permitted", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)
		app := submit(t, svc)

		_, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusAccepted)
		require.NoError(t, err)

		updated, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusRejected)
		require.NoError(t, err)
		assert.Equal(t, models.StatusRejected, updated.Status)
		assert.Equal(t, 2, repo.statusWrites)
	})

	t.Run("pending is not a valid decision target", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)
		app := submit(t, svc)

		_, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusPending)
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	})

	t.Run("unknown application is not found", func(t *testing.T) {
		svc := NewApplicationService(newFakeAppRepo(), newFakeUserRepo(), nil)

		_, err := svc.Decide(ctx, "admin1", models.RoleAdmin, "missing", models.StatusAccepted)
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})

	t.Run("non-admin callers are forbidden", func(t *testing.T) {
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), nil)
		app := submit(t, svc)

		_, err := svc.Decide(ctx, "u1", models.RoleUser, app.ID, models.StatusAccepted)
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
		assert.Equal(t, 0, repo.statusWrites)
	})

	t.Run("invalidates the admin listing cache on mutation", func(t *testing.T) {
		c := newFakeCache()
		repo := newFakeAppRepo()
		svc := NewApplicationService(repo, newFakeUserRepo(), c)
		app := submit(t, svc)

		c.vals[adminListCacheKey] = []models.ApplicationWithOwner{}
		_, err := svc.Decide(ctx, "admin1", models.RoleAdmin, app.ID, models.StatusAccepted)
		require.NoError(t, err)
		assert.NotContains(t, c.vals, adminListCacheKey)
	})
}
