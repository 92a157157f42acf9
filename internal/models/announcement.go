package models

import "time"

// Announcement is posted to a section by its instructor.
type Announcement struct {
	ID        int64     `db:"id" json:"id"`
	SectionID int64     `db:"section_id" json:"section_id"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
