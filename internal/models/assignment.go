package models

import "time"

// Assignment belongs to a section and consumes part of its weight budget.
type Assignment struct {
	ID        int64     `db:"id" json:"id"`
	SectionID int64     `db:"section_id" json:"section_id"`
	Title     string    `db:"title" json:"title"`
	Weight    float64   `db:"weight" json:"weight"`
	MaxScore  float64   `db:"max_score" json:"max_score"`
	DueAt     time.Time `db:"due_at" json:"due_at"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Submission links a student to an assignment.
type Submission struct {
	ID           int64     `db:"id" json:"id"`
	AssignmentID int64     `db:"assignment_id" json:"assignment_id"`
	StudentID    int64     `db:"student_id" json:"student_id"`
	Content      string    `db:"content" json:"content"`
	Grade        *float64  `db:"grade" json:"grade,omitempty"`
	SubmittedAt  time.Time `db:"submitted_at" json:"submitted_at"`
}

// SubmissionDetail adds assignment and student context.
type SubmissionDetail struct {
	Submission
	AssignmentTitle string  `db:"assignment_title" json:"assignment_title"`
	MaxScore        float64 `db:"max_score" json:"max_score"`
	StudentName     string  `db:"student_name" json:"student_name"`
}
