package models

// StudentProfile extends a STUDENT account. GPA and credits are derived from
// graded enrollments and are only ever written by recomputation.
type StudentProfile struct {
	UserID         int64   `db:"user_id" json:"user_id"`
	DepartmentID   int64   `db:"department_id" json:"department_id"`
	EnrollmentYear int     `db:"enrollment_year" json:"enrollment_year"`
	GPA            float64 `db:"gpa" json:"gpa"`
	CreditsEarned  int     `db:"credits_earned" json:"credits_earned"`
}

// StudentDetail joins the profile with its account row.
type StudentDetail struct {
	StudentProfile
	Email          string `db:"email" json:"email"`
	FullName       string `db:"full_name" json:"full_name"`
	Active         bool   `db:"active" json:"active"`
	DepartmentName string `db:"department_name" json:"department_name"`
}

// InstructorProfile extends an INSTRUCTOR account.
type InstructorProfile struct {
	UserID       int64  `db:"user_id" json:"user_id"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
	Title        string `db:"title" json:"title"`
}

// InstructorDetail joins the profile with its account row.
type InstructorDetail struct {
	InstructorProfile
	Email          string `db:"email" json:"email"`
	FullName       string `db:"full_name" json:"full_name"`
	Active         bool   `db:"active" json:"active"`
	DepartmentName string `db:"department_name" json:"department_name"`
}
