package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hiredesk/hiredesk/internal/authz"
	"github.com/hiredesk/hiredesk/internal/cache"
	"github.com/hiredesk/hiredesk/internal/models"
	mongorepo "github.com/hiredesk/hiredesk/internal/repositories/mongo"
	pgrepo "github.com/hiredesk/hiredesk/internal/repositories/postgres"
	"github.com/hiredesk/hiredesk/internal/utils"
)

const (
	adminListCacheKey = "applications:all"
	adminListCacheTTL = 30 * time.Second
)

type ApplicationService interface {
	Submit(ctx context.Context, callerID string, callerRole models.UserRole, contact models.Contact, job models.JobSnapshot, resumeFileID string) (*models.Application, error)
	ListOwn(ctx context.Context, callerID string, callerRole models.UserRole) ([]models.Application, error)
	ListAll(ctx context.Context, callerRole models.UserRole) ([]models.ApplicationWithOwner, error)
	GetForReview(ctx context.Context, callerRole models.UserRole, applicationID string) (*models.Application, error)
	Decide(ctx context.Context, callerID string, callerRole models.UserRole, applicationID string, target models.ApplicationStatus) (*models.Application, error)
}

type applicationService struct {
	apps  mongorepo.ApplicationRepository
	users pgrepo.UserRepository
	cache cache.Cache
}

// NewApplicationService wires the application store, the user store
// (for the admin listing's owner join) and an optional cache; pass a
// nil cache to disable caching.
func NewApplicationService(apps mongorepo.ApplicationRepository, users pgrepo.UserRepository, c cache.Cache) ApplicationService {
	return &applicationService{apps: apps, users: users, cache: c}
}

func (s *applicationService) Submit(ctx context.Context, callerID string, callerRole models.UserRole, contact models.Contact, job models.JobSnapshot, resumeFileID string) (*models.Application, error) {
	const op = "ApplicationService.Submit"

	if !authz.CanPerform(callerRole, authz.SubmitApplication, callerID, callerID) {
		return nil, utils.E(utils.CodeForbidden, op, "only candidates can submit applications", nil)
	}

	contact.FullName = strings.TrimSpace(contact.FullName)
	contact.Phone = strings.TrimSpace(contact.Phone)
	contact.Email = strings.TrimSpace(contact.Email)
	if contact.FullName == "" || contact.Phone == "" || contact.Email == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "full name, phone and email are required", nil)
	}
	if resumeFileID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "a resume upload is required", nil)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:           uuid.NewString(),
		UserID:       callerID,
		Contact:      contact,
		Job:          job,
		ResumeFileID: resumeFileID,
		Status:       models.StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.apps.Insert(ctx, app); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist application", err)
	}

	s.invalidateAdminList(ctx)
	return app, nil
}

func (s *applicationService) ListOwn(ctx context.Context, callerID string, callerRole models.UserRole) ([]models.Application, error) {
	const op = "ApplicationService.ListOwn"

	if !authz.CanPerform(callerRole, authz.ListOwnApplications, callerID, callerID) {
		return nil, utils.E(utils.CodeForbidden, op, "forbidden", nil)
	}

	apps, err := s.apps.ListByUser(ctx, callerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return apps, nil
}

func (s *applicationService) ListAll(ctx context.Context, callerRole models.UserRole) ([]models.ApplicationWithOwner, error) {
	const op = "ApplicationService.ListAll"

	if !authz.CanPerform(callerRole, authz.ListAllApplications, "", "") {
		return nil, utils.E(utils.CodeForbidden, op, "admin access required", nil)
	}

	if s.cache != nil {
		var cached []models.ApplicationWithOwner
		if hit, err := s.cache.GetJSON(ctx, adminListCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	apps, err := s.apps.ListAll(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}

	joined, err := s.joinOwners(ctx, apps)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to join application owners", err)
	}

	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, adminListCacheKey, joined, adminListCacheTTL)
	}
	return joined, nil
}

func (s *applicationService) joinOwners(ctx context.Context, apps []models.Application) ([]models.ApplicationWithOwner, error) {
	ids := make([]string, 0, len(apps))
	seen := map[string]struct{}{}
	for _, a := range apps {
		if _, ok := seen[a.UserID]; !ok {
			seen[a.UserID] = struct{}{}
			ids = append(ids, a.UserID)
		}
	}

	owners, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]models.ApplicationWithOwner, 0, len(apps))
	for _, a := range apps {
		row := models.ApplicationWithOwner{Application: a}
		if u, ok := owners[a.UserID]; ok {
			row.OwnerName = u.Name
			row.OwnerEmail = u.Email
		}
		out = append(out, row)
	}
	return out, nil
}

// GetForReview loads a single application for an admin reviewer.
func (s *applicationService) GetForReview(ctx context.Context, callerRole models.UserRole, applicationID string) (*models.Application, error) {
	const op = "ApplicationService.GetForReview"

	if !authz.CanPerform(callerRole, authz.ListAllApplications, "", "") {
		return nil, utils.E(utils.CodeForbidden, op, "admin access required", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	return app, nil
}

// Decide moves an application to accepted or rejected. Deciding the
// same status twice is a no-op; flipping between accepted and rejected
// is allowed; pending is only ever the initial state.
func (s *applicationService) Decide(ctx context.Context, callerID string, callerRole models.UserRole, applicationID string, target models.ApplicationStatus) (*models.Application, error) {
	const op = "ApplicationService.Decide"

	if !authz.CanPerform(callerRole, authz.DecideApplication, "", callerID) {
		return nil, utils.E(utils.CodeForbidden, op, "admin access required", nil)
	}
	if target != models.StatusAccepted && target != models.StatusRejected {
		return nil, utils.E(utils.CodeInvalidArgument, op, "decision must be 'accepted' or 'rejected'", nil)
	}

	app, err := s.apps.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	if app.Status == target {
		return app, nil
	}

	updated, err := s.apps.SetStatus(ctx, applicationID, target, time.Now().UTC())
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update application status", err)
	}

	s.invalidateAdminList(ctx)
	return updated, nil
}

func (s *applicationService) invalidateAdminList(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, adminListCacheKey)
	}
}
