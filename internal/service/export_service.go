package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/pkg/export"
)

// ExportFormat selects the download encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the reporting rollups as CSV or PDF downloads.
type ExportService struct {
	analytics *AnalyticsService
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
}

// NewExportService constructs the service.
func NewExportService(analytics *AnalyticsService) *ExportService {
	return &ExportService{
		analytics: analytics,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
	}
}

// InstructorWorkload renders the workload rollup.
func (s *ExportService) InstructorWorkload(ctx context.Context, filter models.WorkloadFilter, format ExportFormat) (*ExportFile, error) {
	rows, err := s.analytics.InstructorWorkload(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Instructor", "Sections", "Students", "Success %"},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Instructor": row.InstructorName,
			"Sections":   strconv.Itoa(row.SectionsTaught),
			"Students":   strconv.Itoa(row.TotalStudents),
			"Success %":  formatFloat(row.SuccessPct),
		})
	}
	return s.render(data, "instructor_workload", "Instructor Workload", format)
}

// CourseDifficulty renders the difficulty rollup.
func (s *ExportService) CourseDifficulty(ctx context.Context, filter models.DifficultyFilter, format ExportFormat) (*ExportFile, error) {
	rows, err := s.analytics.CourseDifficulty(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Code", "Course", "Completed", "Failures", "Failure %"},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Code":      row.CourseCode,
			"Course":    row.CourseTitle,
			"Completed": strconv.Itoa(row.Completed),
			"Failures":  strconv.Itoa(row.Failures),
			"Failure %": formatFloat(row.FailureRate),
		})
	}
	return s.render(data, "course_difficulty", "Course Difficulty", format)
}

// AtRiskStudents renders the risk rollup.
func (s *ExportService) AtRiskStudents(ctx context.Context, filter models.RiskFilter, format ExportFormat) (*ExportFile, error) {
	rows, err := s.analytics.AtRiskStudents(ctx, filter)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Student", "Risk Score"},
	}
	for _, row := range rows {
		data.Rows = append(data.Rows, map[string]string{
			"Student":    row.StudentName,
			"Risk Score": strconv.FormatFloat(row.RiskScore, 'f', 4, 64),
		})
	}
	title := fmt.Sprintf("At-Risk Students %s %d", filter.Semester, filter.Year)
	return s.render(data, "at_risk_students", title, format)
}

func (s *ExportService) render(data export.Dataset, name, title string, format ExportFormat) (*ExportFile, error) {
	switch format {
	case FormatPDF:
		body, err := s.pdf.Render(data, title)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: name + ".pdf", ContentType: "application/pdf", Body: body}, nil
	default:
		body, err := s.csv.Render(data)
		if err != nil {
			return nil, err
		}
		return &ExportFile{Filename: name + ".csv", ContentType: "text/csv", Body: body}, nil
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
