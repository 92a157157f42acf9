package models

// InstructorWorkload is one row of the workload/performance rollup.
type InstructorWorkload struct {
	InstructorID   int64   `db:"instructor_id" json:"instructor_id"`
	InstructorName string  `db:"instructor_name" json:"instructor_name"`
	SectionsTaught int     `db:"sections_taught" json:"sections_taught"`
	TotalStudents  int     `db:"total_students" json:"total_students"`
	SuccessPct     float64 `db:"success_pct" json:"success_pct"`
}

// CourseDifficulty is one row of the difficulty rollup.
type CourseDifficulty struct {
	CourseID    int64   `db:"course_id" json:"course_id"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	CourseTitle string  `db:"course_title" json:"course_title"`
	Completed   int     `db:"completed" json:"completed"`
	Failures    int     `db:"failures" json:"failures"`
	FailureRate float64 `db:"failure_rate" json:"failure_rate"`
}

// StudentRiskAggregate holds the raw per-student counters the risk score is
// computed from. GPA is nullable: a student with no graded enrollment has no
// GPA term.
type StudentRiskAggregate struct {
	StudentID        int64    `db:"student_id"`
	StudentName      string   `db:"student_name"`
	GPA              *float64 `db:"gpa"`
	TotalClasses     int      `db:"total_classes"`
	Absences         int      `db:"absences"`
	TotalAssignments int      `db:"total_assignments"`
	Submitted        int      `db:"submitted"`
}

// AtRiskStudent is one row of the risk rollup.
type AtRiskStudent struct {
	StudentID   int64   `json:"student_id"`
	StudentName string  `json:"student_name"`
	RiskScore   float64 `json:"risk_score"`
}

// WorkloadFilter parameterizes the instructor workload rollup.
type WorkloadFilter struct {
	MinStudents int
}

// DifficultyFilter parameterizes the course difficulty rollup.
type DifficultyFilter struct {
	MinStudents int
}

// RiskFilter parameterizes the at-risk rollup.
type RiskFilter struct {
	Semester string
	Year     int
}
