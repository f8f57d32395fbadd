package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/hiredesk/hiredesk/internal/models"
	"github.com/hiredesk/hiredesk/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResumeRepo struct {
	rows map[string]*models.ResumeFile
}

func newFakeResumeRepo() *fakeResumeRepo {
	return &fakeResumeRepo{rows: map[string]*models.ResumeFile{}}
}

func (f *fakeResumeRepo) Insert(_ context.Context, r *models.ResumeFile) error {
	f.rows[r.ID] = r
	return nil
}

func (f *fakeResumeRepo) GetByID(_ context.Context, id string) (*models.ResumeFile, error) {
	if r, ok := f.rows[id]; ok {
		return r, nil
	}
	return nil, utils.ErrNotFound
}

func (f *fakeResumeRepo) LatestByUser(_ context.Context, userID string) (*models.ResumeFile, error) {
	var latest *models.ResumeFile
	for _, r := range f.rows {
		if r.UserID == userID && (latest == nil || r.UploadAt.After(latest.UploadAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, utils.ErrNotFound
	}
	return latest, nil
}

type fakeBlobStore struct {
	objects map[string][]byte
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objects: map[string][]byte{}}
}

func (f *fakeBlobStore) Upload(_ context.Context, objectName string, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.objects[objectName] = b
	return objectName, nil
}

func (f *fakeBlobStore) SignedGetURL(_ context.Context, objectName string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + objectName, nil
}

func TestResumeService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the blob and persists metadata", func(t *testing.T) {
		repo := newFakeResumeRepo()
		store := newFakeBlobStore()
		svc := NewResumeService(repo, store, store)

		content := []byte("%PDF-1.4 fake")
		row, err := svc.Upload(ctx, "u1", "cv.pdf", len(content), "application/pdf", bytes.NewReader(content))
		require.NoError(t, err)

		assert.Equal(t, "u1", row.UserID)
		assert.Equal(t, "cv.pdf", row.FileName)
		assert.True(t, strings.HasPrefix(row.FilePath, "resumes/u1/"))
		assert.False(t, row.UploadAt.IsZero())

		require.Len(t, store.objects, 1)
		assert.Equal(t, content, store.objects[row.FilePath])
		require.Contains(t, repo.rows, row.ID)
	})

	t.Run("requires a user id", func(t *testing.T) {
		store := newFakeBlobStore()
		svc := NewResumeService(newFakeResumeRepo(), store, store)

		_, err := svc.Upload(ctx, "", "cv.pdf", 1, "application/pdf", bytes.NewReader([]byte("x")))
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	})
}

func TestResumeService_SignedURL(t *testing.T) {
	ctx := context.Background()

	t.Run("admin gets a signed url for a stored resume", func(t *testing.T) {
		repo := newFakeResumeRepo()
		store := newFakeBlobStore()
		svc := NewResumeService(repo, store, store)

		row, err := svc.Upload(ctx, "u1", "cv.pdf", 1, "application/pdf", bytes.NewReader([]byte("x")))
		require.NoError(t, err)

		url, err := svc.SignedURL(ctx, models.RoleAdmin, row.ID)
		require.NoError(t, err)
		assert.Equal(t, "https://blobs.test/"+row.FilePath, url)
	})

	t.Run("non-admin is forbidden", func(t *testing.T) {
		store := newFakeBlobStore()
		svc := NewResumeService(newFakeResumeRepo(), store, store)

		_, err := svc.SignedURL(ctx, models.RoleUser, "whatever")
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeForbidden))
	})

	t.Run("unknown resume is not found", func(t *testing.T) {
		store := newFakeBlobStore()
		svc := NewResumeService(newFakeResumeRepo(), store, store)

		_, err := svc.SignedURL(ctx, models.RoleAdmin, "missing")
		require.Error(t, err)
		assert.True(t, utils.IsCode(err, utils.CodeNotFound))
	})
}
