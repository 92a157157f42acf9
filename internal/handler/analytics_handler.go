package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/internal/service"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
	"github.com/opencampus/registrar-api/pkg/response"
)

// AnalyticsHandler wires HTTP endpoints to the analytics and export services.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	exports   *service.ExportService
}

// NewAnalyticsHandler creates a new handler. exports may be nil when
// downloads are disabled.
func NewAnalyticsHandler(analytics *service.AnalyticsService, exports *service.ExportService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, exports: exports}
}

// InstructorWorkload godoc
// @Summary Instructor workload rollup
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param min_students query int false "Minimum distinct students"
// @Success 200 {object} response.Envelope
// @Router /analytics/instructor-workload [get]
func (h *AnalyticsHandler) InstructorWorkload(c *gin.Context) {
	filter := models.WorkloadFilter{MinStudents: intQuery(c, "min_students", 1)}
	rows, err := h.analytics.InstructorWorkload(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// CourseDifficulty godoc
// @Summary Course difficulty rollup
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param min_students query int false "Minimum completed enrollments"
// @Success 200 {object} response.Envelope
// @Router /analytics/course-difficulty [get]
func (h *AnalyticsHandler) CourseDifficulty(c *gin.Context) {
	filter := models.DifficultyFilter{MinStudents: intQuery(c, "min_students", 1)}
	rows, err := h.analytics.CourseDifficulty(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// AtRiskStudents godoc
// @Summary At-risk student rollup
// @Tags Analytics
// @Produce json
// @Security BearerAuth
// @Param semester query string true "Semester"
// @Param year query int true "Year"
// @Success 200 {object} response.Envelope
// @Router /analytics/at-risk-students [get]
func (h *AnalyticsHandler) AtRiskStudents(c *gin.Context) {
	filter, err := riskFilterFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.analytics.AtRiskStudents(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// ExportInstructorWorkload godoc
// @Summary Download workload rollup
// @Tags Analytics
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /analytics/instructor-workload/export [get]
func (h *AnalyticsHandler) ExportInstructorWorkload(c *gin.Context) {
	filter := models.WorkloadFilter{MinStudents: intQuery(c, "min_students", 1)}
	file, err := h.exports.InstructorWorkload(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// ExportCourseDifficulty godoc
// @Summary Download difficulty rollup
// @Tags Analytics
// @Produce octet-stream
// @Security BearerAuth
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /analytics/course-difficulty/export [get]
func (h *AnalyticsHandler) ExportCourseDifficulty(c *gin.Context) {
	filter := models.DifficultyFilter{MinStudents: intQuery(c, "min_students", 1)}
	file, err := h.exports.CourseDifficulty(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

// ExportAtRiskStudents godoc
// @Summary Download risk rollup
// @Tags Analytics
// @Produce octet-stream
// @Security BearerAuth
// @Param semester query string true "Semester"
// @Param year query int true "Year"
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Router /analytics/at-risk-students/export [get]
func (h *AnalyticsHandler) ExportAtRiskStudents(c *gin.Context) {
	filter, err := riskFilterFrom(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	file, err := h.exports.AtRiskStudents(c.Request.Context(), filter, exportFormat(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	serveFile(c, file)
}

func riskFilterFrom(c *gin.Context) (models.RiskFilter, error) {
	semester := c.Query("semester")
	year := intQuery(c, "year", 0)
	if semester == "" || year == 0 {
		return models.RiskFilter{}, appErrors.Clone(appErrors.ErrValidation, "semester and year are required")
	}
	if year < 1900 || year > time.Now().Year()+1 {
		return models.RiskFilter{}, appErrors.Clone(appErrors.ErrValidation, "year out of range")
	}
	return models.RiskFilter{Semester: semester, Year: year}, nil
}

func exportFormat(c *gin.Context) service.ExportFormat {
	if c.Query("format") == "pdf" {
		return service.FormatPDF
	}
	return service.FormatCSV
}

func serveFile(c *gin.Context, file *service.ExportFile) {
	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Body)
}
