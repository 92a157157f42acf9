package models

// OfficeHour is a weekly availability slot owned by an instructor.
type OfficeHour struct {
	ID           int64  `db:"id" json:"id"`
	InstructorID int64  `db:"instructor_id" json:"instructor_id"`
	DayOfWeek    string `db:"day_of_week" json:"day_of_week"`
	StartTime    string `db:"start_time" json:"start_time"`
	EndTime      string `db:"end_time" json:"end_time"`
	Location     string `db:"location" json:"location"`
}
