package models

import "time"

// AttendanceStatus is the per-day presence tag.
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "PRESENT"
	AttendanceAbsent  AttendanceStatus = "ABSENT"
	AttendanceExcused AttendanceStatus = "EXCUSED"
)

// AttendanceRecord is one (section, student, date) presence row.
type AttendanceRecord struct {
	ID        int64            `db:"id" json:"id"`
	SectionID int64            `db:"section_id" json:"section_id"`
	StudentID int64            `db:"student_id" json:"student_id"`
	Date      time.Time        `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
}
