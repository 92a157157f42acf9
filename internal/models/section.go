package models

// Section is one offering of a course in a semester.
type Section struct {
	ID           int64  `db:"id" json:"id"`
	CourseID     int64  `db:"course_id" json:"course_id"`
	InstructorID int64  `db:"instructor_id" json:"instructor_id"`
	Semester     string `db:"semester" json:"semester"`
	Year         int    `db:"year" json:"year"`
	DayOfWeek    string `db:"day_of_week" json:"day_of_week"`
	StartTime    string `db:"start_time" json:"start_time"`
	Classroom    string `db:"classroom" json:"classroom"`
	Capacity     int    `db:"capacity" json:"capacity"`
}

// SectionDetail joins course and instructor context onto a section.
type SectionDetail struct {
	Section
	CourseCode     string `db:"course_code" json:"course_code"`
	CourseTitle    string `db:"course_title" json:"course_title"`
	InstructorName string `db:"instructor_name" json:"instructor_name"`
	EnrolledCount  int    `db:"enrolled_count" json:"enrolled_count"`
}

// SectionSeat carries the fields the admission check locks on.
type SectionSeat struct {
	ID       int64 `db:"id"`
	CourseID int64 `db:"course_id"`
	Capacity int   `db:"capacity"`
}

// SectionFilter captures list criteria for sections.
type SectionFilter struct {
	CourseID     int64
	InstructorID int64
	Semester     string
	Year         int
	Page         int
	PageSize     int
}
