package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/registrar-api/internal/models"
)

func TestExportInstructorWorkloadCSV(t *testing.T) {
	store := &mockAnalyticsStore{workload: []models.InstructorWorkload{
		{InstructorID: 1, InstructorName: "Dr. Chen", SectionsTaught: 3, TotalStudents: 82, SuccessPct: 91.25},
	}}
	analytics, _ := newAnalyticsFixture(store)
	svc := NewExportService(analytics)

	file, err := svc.InstructorWorkload(context.Background(), models.WorkloadFilter{MinStudents: 1}, FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "instructor_workload.csv", file.Filename)
	assert.Equal(t, "text/csv", file.ContentType)

	body := string(file.Body)
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Instructor,Sections,Students,Success %", lines[0])
	assert.Equal(t, "Dr. Chen,3,82,91.25", lines[1])
}

func TestExportAtRiskStudentsPDF(t *testing.T) {
	store := &mockAnalyticsStore{aggregates: []models.StudentRiskAggregate{
		{StudentID: 5, StudentName: "A Student", GPA: floatPtr(1.5), TotalClasses: 10, Absences: 4},
	}}
	analytics, _ := newAnalyticsFixture(store)
	svc := NewExportService(analytics)

	file, err := svc.AtRiskStudents(context.Background(), models.RiskFilter{Semester: "FALL", Year: 2026}, FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "at_risk_students.pdf", file.Filename)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Body), "%PDF"))
}

func TestExportDefaultsToCSV(t *testing.T) {
	store := &mockAnalyticsStore{difficulty: []models.CourseDifficulty{
		{CourseID: 2, CourseCode: "CS101", CourseTitle: "Intro", Completed: 40, Failures: 6, FailureRate: 15.0},
	}}
	analytics, _ := newAnalyticsFixture(store)
	svc := NewExportService(analytics)

	file, err := svc.CourseDifficulty(context.Background(), models.DifficultyFilter{MinStudents: 1}, ExportFormat("xml"))
	require.NoError(t, err)
	assert.Equal(t, "course_difficulty.csv", file.Filename)
	assert.Contains(t, string(file.Body), "CS101,Intro,40,6,15.00")
}
