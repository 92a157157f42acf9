package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/opencampus/registrar-api/internal/models"
)

// AnnouncementRepository handles persistence of section announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// ListBySection returns a section's announcements, newest first.
func (r *AnnouncementRepository) ListBySection(ctx context.Context, sectionID int64) ([]models.Announcement, error) {
	const query = `SELECT id, section_id, title, body, created_at FROM announcements WHERE section_id = $1 ORDER BY created_at DESC`
	var announcements []models.Announcement
	if err := r.db.SelectContext(ctx, &announcements, query, sectionID); err != nil {
		return nil, fmt.Errorf("list announcements: %w", err)
	}
	return announcements, nil
}

// FindByID returns an announcement by its id.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id int64) (*models.Announcement, error) {
	const query = `SELECT id, section_id, title, body, created_at FROM announcements WHERE id = $1`
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create inserts an announcement and fills in the generated id.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO announcements (section_id, title, body, created_at) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &announcement.ID, query,
		announcement.SectionID, announcement.Title, announcement.Body, announcement.CreatedAt); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// UpdateAnnouncementParams defines the mutable announcement fields.
type UpdateAnnouncementParams struct {
	Title *string
	Body  *string
}

// Update persists the provided announcement changes.
func (r *AnnouncementRepository) Update(ctx context.Context, id int64, params UpdateAnnouncementParams) error {
	set := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	argPos := 1

	if params.Title != nil {
		set = append(set, fmt.Sprintf("title = $%d", argPos))
		args = append(args, *params.Title)
		argPos++
	}
	if params.Body != nil {
		set = append(set, fmt.Sprintf("body = $%d", argPos))
		args = append(args, *params.Body)
		argPos++
	}

	if len(set) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE announcements SET %s WHERE id = $%d", strings.Join(set, ", "), argPos)
	args = append(args, id)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement row.
func (r *AnnouncementRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
