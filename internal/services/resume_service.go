package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/hiredesk/hiredesk/internal/authz"
	"github.com/hiredesk/hiredesk/internal/models"
	pgrepo "github.com/hiredesk/hiredesk/internal/repositories/postgres"
	"github.com/hiredesk/hiredesk/internal/storage"
	"github.com/hiredesk/hiredesk/internal/utils"
)

const signedURLTTL = 15 * time.Minute

type ResumeService interface {
	Upload(ctx context.Context, userID string, fileName string, fileSize int, mimeType string, r io.Reader) (*models.ResumeFile, error)
	// SignedURL returns a short-lived download URL for a stored
	// resume. Reviewing resumes is part of deciding applications, so
	// the same admin-only rule applies.
	SignedURL(ctx context.Context, callerRole models.UserRole, resumeFileID string) (string, error)
}

type resumeService struct {
	repo   pgrepo.ResumeFileRepository
	store  storage.Uploader
	signer storage.Signer
}

func NewResumeService(repo pgrepo.ResumeFileRepository, store storage.Uploader, signer storage.Signer) ResumeService {
	return &resumeService{repo: repo, store: store, signer: signer}
}

func (s *resumeService) Upload(ctx context.Context, userID string, fileName string, fileSize int, mimeType string, r io.Reader) (*models.ResumeFile, error) {
	const op = "ResumeService.Upload"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if s.store == nil {
		return nil, utils.E(utils.CodeInternal, op, "storage is not configured", nil)
	}

	objectName := "resumes/" + userID + "/" + uuid.NewString() + ".pdf"

	storedPath, err := s.store.Upload(ctx, objectName, mimeType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload resume", err)
	}

	row := &models.ResumeFile{
		ID:       uuid.NewString(),
		UserID:   userID,
		FileName: fileName,
		FilePath: storedPath,
		FileSize: fileSize,
		MimeType: mimeType,
		UploadAt: time.Now().UTC(),
	}

	if err := s.repo.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist resume metadata", err)
	}
	return row, nil
}

func (s *resumeService) SignedURL(ctx context.Context, callerRole models.UserRole, resumeFileID string) (string, error) {
	const op = "ResumeService.SignedURL"

	if !authz.CanPerform(callerRole, authz.DecideApplication, "", "") {
		return "", utils.E(utils.CodeForbidden, op, "admin access required", nil)
	}
	if s.signer == nil {
		return "", utils.E(utils.CodeInternal, op, "storage signer is not configured", nil)
	}

	row, err := s.repo.GetByID(ctx, resumeFileID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", utils.E(utils.CodeNotFound, op, "resume not found", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to load resume metadata", err)
	}

	url, err := s.signer.SignedGetURL(ctx, row.FilePath, signedURLTTL)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to sign download url", err)
	}
	return url, nil
}
