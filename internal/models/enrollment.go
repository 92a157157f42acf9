package models

import "time"

// EnrollmentStatus is the lifecycle tag of an enrollment.
type EnrollmentStatus string

const (
	EnrollmentStatusEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentStatusCompleted EnrollmentStatus = "COMPLETED"
	EnrollmentStatusDropped   EnrollmentStatus = "DROPPED"
	EnrollmentStatusFailed    EnrollmentStatus = "FAILED"
)

// Enrollment links a student to a section.
type Enrollment struct {
	ID         int64            `db:"id" json:"id"`
	StudentID  int64            `db:"student_id" json:"student_id"`
	SectionID  int64            `db:"section_id" json:"section_id"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	Grade      *float64         `db:"grade" json:"grade,omitempty"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
}

// EnrollmentDetail joins course/section context onto an enrollment.
type EnrollmentDetail struct {
	Enrollment
	CourseID    int64  `db:"course_id" json:"course_id"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseTitle string `db:"course_title" json:"course_title"`
	Semester    string `db:"semester" json:"semester"`
	Year        int    `db:"year" json:"year"`
	StudentName string `db:"student_name" json:"student_name"`
}

// EnrollmentFilter captures list criteria for enrollments.
type EnrollmentFilter struct {
	StudentID int64
	SectionID int64
	Status    EnrollmentStatus
	Page      int
	PageSize  int
}

// GradeCredit pairs a finalized grade with the course credit value.
type GradeCredit struct {
	Grade   float64 `db:"grade"`
	Credits int     `db:"credits"`
}

// Academics is the derived GPA state persisted on a student profile.
type Academics struct {
	GPA           float64 `json:"gpa"`
	CreditsEarned int     `json:"credits_earned"`
}
