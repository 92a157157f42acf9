package models

import "time"

// UpdateUserRequest carries sparse account changes.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
	Active   *bool   `json:"active"`
}

// UpdateStudentProfileRequest carries sparse student profile changes.
type UpdateStudentProfileRequest struct {
	DepartmentID   *int64 `json:"department_id" validate:"omitempty,gt=0"`
	EnrollmentYear *int   `json:"enrollment_year" validate:"omitempty,gte=1900"`
}

// UpdateInstructorProfileRequest carries sparse instructor profile changes.
type UpdateInstructorProfileRequest struct {
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
	Title        *string `json:"title"`
}

// CreateDepartmentRequest creates a department.
type CreateDepartmentRequest struct {
	Code string `json:"code" validate:"required"`
	Name string `json:"name" validate:"required"`
}

// UpdateDepartmentRequest carries sparse department changes.
type UpdateDepartmentRequest struct {
	Code *string `json:"code" validate:"omitempty,min=1"`
	Name *string `json:"name" validate:"omitempty,min=1"`
}

// CreateCourseRequest creates a catalog entry.
type CreateCourseRequest struct {
	Code         string `json:"code" validate:"required"`
	Title        string `json:"title" validate:"required"`
	Credits      int    `json:"credits" validate:"required,gte=1,lte=10"`
	DepartmentID int64  `json:"department_id" validate:"required,gt=0"`
}

// UpdateCourseRequest carries sparse course changes.
type UpdateCourseRequest struct {
	Code         *string `json:"code" validate:"omitempty,min=1"`
	Title        *string `json:"title" validate:"omitempty,min=1"`
	Credits      *int    `json:"credits" validate:"omitempty,gte=1,lte=10"`
	DepartmentID *int64  `json:"department_id" validate:"omitempty,gt=0"`
}

// AddPrerequisiteRequest records a prerequisite edge on a course.
type AddPrerequisiteRequest struct {
	PrerequisiteID int64 `json:"prerequisite_id" validate:"required,gt=0"`
}

// CreateSectionRequest creates a section of a course.
type CreateSectionRequest struct {
	CourseID     int64  `json:"course_id" validate:"required,gt=0"`
	InstructorID int64  `json:"instructor_id" validate:"required,gt=0"`
	Semester     string `json:"semester" validate:"required"`
	Year         int    `json:"year" validate:"required,gte=1900"`
	DayOfWeek    string `json:"day_of_week" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    string `json:"start_time" validate:"required"`
	Classroom    string `json:"classroom" validate:"required"`
	Capacity     int    `json:"capacity" validate:"required,gte=1"`
}

// UpdateSectionRequest carries sparse section changes.
type UpdateSectionRequest struct {
	InstructorID *int64  `json:"instructor_id" validate:"omitempty,gt=0"`
	Semester     *string `json:"semester" validate:"omitempty,min=1"`
	Year         *int    `json:"year" validate:"omitempty,gte=1900"`
	DayOfWeek    *string `json:"day_of_week" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    *string `json:"start_time" validate:"omitempty,min=1"`
	Classroom    *string `json:"classroom" validate:"omitempty,min=1"`
	Capacity     *int    `json:"capacity" validate:"omitempty,gte=1"`
}

// CreateEnrollmentRequest requests admission of a student into a section.
type CreateEnrollmentRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	SectionID int64 `json:"section_id" validate:"required,gt=0"`
}

// GradeEnrollmentRequest finalizes an enrollment with a 0.0-4.0 grade.
type GradeEnrollmentRequest struct {
	Grade float64 `json:"grade" validate:"gte=0,lte=4"`
}

// CreateAssignmentRequest creates an assignment in a section.
type CreateAssignmentRequest struct {
	SectionID int64     `json:"section_id" validate:"required,gt=0"`
	Title     string    `json:"title" validate:"required"`
	Weight    float64   `json:"weight" validate:"required,gt=0,lte=100"`
	MaxScore  float64   `json:"max_score" validate:"required,gt=0"`
	DueAt     time.Time `json:"due_at" validate:"required"`
}

// UpdateAssignmentRequest carries sparse assignment changes.
type UpdateAssignmentRequest struct {
	Title    *string    `json:"title" validate:"omitempty,min=1"`
	Weight   *float64   `json:"weight" validate:"omitempty,gt=0,lte=100"`
	MaxScore *float64   `json:"max_score" validate:"omitempty,gt=0"`
	DueAt    *time.Time `json:"due_at"`
}

// CreateSubmissionRequest hands in work for an assignment.
type CreateSubmissionRequest struct {
	AssignmentID int64  `json:"assignment_id" validate:"required,gt=0"`
	Content      string `json:"content" validate:"required"`
}

// GradeSubmissionRequest scores a submission.
type GradeSubmissionRequest struct {
	Grade float64 `json:"grade" validate:"gte=0"`
}

// CreateAttendanceRequest records presence for one student on one date.
type CreateAttendanceRequest struct {
	SectionID int64            `json:"section_id" validate:"required,gt=0"`
	StudentID int64            `json:"student_id" validate:"required,gt=0"`
	Date      string           `json:"date" validate:"required,datetime=2006-01-02"`
	Status    AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT EXCUSED"`
}

// UpdateAttendanceRequest corrects a recorded status.
type UpdateAttendanceRequest struct {
	Status AttendanceStatus `json:"status" validate:"required,oneof=PRESENT ABSENT EXCUSED"`
}

// CreateOfficeHourRequest adds a weekly availability slot.
type CreateOfficeHourRequest struct {
	InstructorID int64  `json:"instructor_id" validate:"required,gt=0"`
	DayOfWeek    string `json:"day_of_week" validate:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime    string `json:"start_time" validate:"required"`
	EndTime      string `json:"end_time" validate:"required"`
	Location     string `json:"location" validate:"required"`
}

// UpdateOfficeHourRequest carries sparse office hour changes.
type UpdateOfficeHourRequest struct {
	DayOfWeek *string `json:"day_of_week" validate:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	StartTime *string `json:"start_time" validate:"omitempty,min=1"`
	EndTime   *string `json:"end_time" validate:"omitempty,min=1"`
	Location  *string `json:"location" validate:"omitempty,min=1"`
}

// CreateAnnouncementRequest posts an announcement to a section.
type CreateAnnouncementRequest struct {
	SectionID int64  `json:"section_id" validate:"required,gt=0"`
	Title     string `json:"title" validate:"required"`
	Body      string `json:"body" validate:"required"`
}

// UpdateAnnouncementRequest carries sparse announcement changes.
type UpdateAnnouncementRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1"`
	Body  *string `json:"body" validate:"omitempty,min=1"`
}
