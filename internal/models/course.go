package models

import "time"

// Course is a catalog entry owned by a department.
type Course struct {
	ID           int64     `db:"id" json:"id"`
	Code         string    `db:"code" json:"code"`
	Title        string    `db:"title" json:"title"`
	Credits      int       `db:"credits" json:"credits"`
	DepartmentID int64     `db:"department_id" json:"department_id"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// CourseDetail includes the prerequisite edge list.
type CourseDetail struct {
	Course
	DepartmentName string  `db:"department_name" json:"department_name"`
	Prerequisites  []int64 `json:"prerequisites"`
}

// CourseFilter captures list criteria for the catalog.
type CourseFilter struct {
	DepartmentID int64
	Search       string
	Page         int
	PageSize     int
}
