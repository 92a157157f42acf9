package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/repository"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type announcementStore interface {
	ListBySection(ctx context.Context, sectionID int64) ([]models.Announcement, error)
	FindByID(ctx context.Context, id int64) (*models.Announcement, error)
	Create(ctx context.Context, announcement *models.Announcement) error
	Update(ctx context.Context, id int64, params repository.UpdateAnnouncementParams) error
	Delete(ctx context.Context, id int64) error
}

// AnnouncementService manages section announcements. Posting and editing are
// restricted to the section's instructor or an admin; reading is open to any
// authenticated user.
type AnnouncementService struct {
	announcements announcementStore
	guard         *AccessGuard
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(announcements announcementStore, guard *AccessGuard) *AnnouncementService {
	return &AnnouncementService{announcements: announcements, guard: guard}
}

// ListBySection returns a section's announcements, newest first.
func (s *AnnouncementService) ListBySection(ctx context.Context, sectionID int64) ([]models.Announcement, error) {
	return s.announcements.ListBySection(ctx, sectionID)
}

// Create posts an announcement to a section the caller teaches.
func (s *AnnouncementService) Create(ctx context.Context, claims *models.JWTClaims, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, req.SectionID); err != nil {
		return nil, err
	}

	announcement := &models.Announcement{SectionID: req.SectionID, Title: req.Title, Body: req.Body}
	if err := s.announcements.Create(ctx, announcement); err != nil {
		return nil, err
	}
	return announcement, nil
}

// Update applies sparse announcement changes.
func (s *AnnouncementService) Update(ctx context.Context, claims *models.JWTClaims, id int64, req models.UpdateAnnouncementRequest) (*models.Announcement, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	announcement, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, announcement.SectionID); err != nil {
		return nil, err
	}

	if err := s.announcements.Update(ctx, id, repository.UpdateAnnouncementParams{Title: req.Title, Body: req.Body}); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, claims *models.JWTClaims, id int64) error {
	announcement, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.guard.RequireSectionOwner(ctx, claims, announcement.SectionID); err != nil {
		return err
	}
	return s.announcements.Delete(ctx, id)
}

func (s *AnnouncementService) find(ctx context.Context, id int64) (*models.Announcement, error) {
	announcement, err := s.announcements.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, err
	}
	return announcement, nil
}
