package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/opencampus/registrar-api/internal/middleware"
	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/pkg/config"
	"github.com/opencampus/registrar-api/pkg/logger"
	"github.com/opencampus/registrar-api/pkg/middleware/cors"
	"github.com/opencampus/registrar-api/pkg/middleware/requestid"
)

// Handlers bundles every wired handler for route registration.
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Department   *DepartmentHandler
	Course       *CourseHandler
	Section      *SectionHandler
	Enrollment   *EnrollmentHandler
	Assignment   *AssignmentHandler
	Submission   *SubmissionHandler
	Attendance   *AttendanceHandler
	OfficeHour   *OfficeHourHandler
	Announcement *AnnouncementHandler
	Analytics    *AnalyticsHandler
}

// NewRouter builds the gin engine with middleware and every route group.
func NewRouter(cfg *config.Config, log *zap.Logger, h Handlers) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(log))
	r.Use(middleware.Metrics())
	r.Use(cors.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	protected := api.Group("")
	protected.Use(middleware.JWTAuth(cfg.JWT.Secret))

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleInstructor)

	protected.POST("/auth/logout", h.Auth.Logout)
	protected.POST("/auth/change-password", h.Auth.ChangePassword)
	protected.GET("/auth/me", h.Auth.Me)

	users := protected.Group("/users")
	{
		users.GET("", adminOnly, h.User.List)
		users.GET("/:id", h.User.Get)
		users.PATCH("/:id", adminOnly, h.User.Update)
		users.POST("/:id/deactivate", adminOnly, h.User.Deactivate)
		users.DELETE("/:id", adminOnly, h.User.Delete)
	}

	students := protected.Group("/students")
	{
		students.GET("", staff, h.User.ListStudents)
		students.GET("/:id", h.User.GetStudent)
		students.PATCH("/:id", adminOnly, h.User.UpdateStudent)
		students.POST("/:id/recompute-gpa", adminOnly, h.Enrollment.RecomputeAcademics)
		students.GET("/:id/submissions", h.Submission.ListByStudent)
	}

	instructors := protected.Group("/instructors")
	{
		instructors.GET("", h.User.ListInstructors)
		instructors.GET("/:id", h.User.GetInstructor)
		instructors.PATCH("/:id", adminOnly, h.User.UpdateInstructor)
		instructors.GET("/:id/office-hours", h.OfficeHour.ListByInstructor)
	}

	departments := protected.Group("/departments")
	{
		departments.GET("", h.Department.List)
		departments.GET("/:id", h.Department.Get)
		departments.POST("", adminOnly, h.Department.Create)
		departments.PATCH("/:id", adminOnly, h.Department.Update)
		departments.DELETE("/:id", adminOnly, h.Department.Delete)
	}

	courses := protected.Group("/courses")
	{
		courses.GET("", h.Course.List)
		courses.GET("/:id", h.Course.Get)
		courses.POST("", adminOnly, h.Course.Create)
		courses.PATCH("/:id", adminOnly, h.Course.Update)
		courses.DELETE("/:id", adminOnly, h.Course.Delete)
		courses.POST("/:id/prerequisites", adminOnly, h.Course.AddPrerequisite)
		courses.DELETE("/:id/prerequisites/:prereq_id", adminOnly, h.Course.RemovePrerequisite)
	}

	sections := protected.Group("/sections")
	{
		sections.GET("", h.Section.List)
		sections.GET("/:id", h.Section.Get)
		sections.POST("", adminOnly, h.Section.Create)
		sections.PATCH("/:id", adminOnly, h.Section.Update)
		sections.DELETE("/:id", adminOnly, h.Section.Delete)
		sections.GET("/:id/assignments", h.Assignment.ListBySection)
		sections.GET("/:id/attendance", h.Attendance.ListBySection)
		sections.GET("/:id/announcements", h.Announcement.ListBySection)
	}

	enrollments := protected.Group("/enrollments")
	{
		enrollments.POST("", middleware.RequireRoles(models.RoleAdmin, models.RoleStudent), h.Enrollment.Enroll)
		enrollments.GET("", h.Enrollment.List)
		enrollments.GET("/:id", h.Enrollment.Get)
		enrollments.PUT("/:id/grade", staff, h.Enrollment.UpdateGrade)
		enrollments.DELETE("/:id", middleware.RequireRoles(models.RoleAdmin, models.RoleStudent), h.Enrollment.Drop)
	}

	assignments := protected.Group("/assignments")
	{
		assignments.GET("/:id", h.Assignment.Get)
		assignments.POST("", staff, h.Assignment.Create)
		assignments.PATCH("/:id", staff, h.Assignment.Update)
		assignments.DELETE("/:id", staff, h.Assignment.Delete)
		assignments.GET("/:id/submissions", staff, h.Submission.ListByAssignment)
	}

	submissions := protected.Group("/submissions")
	{
		submissions.POST("", middleware.RequireRoles(models.RoleStudent), h.Submission.Submit)
		submissions.PUT("/:id/grade", staff, h.Submission.Grade)
		submissions.DELETE("/:id", adminOnly, h.Submission.Delete)
	}

	attendance := protected.Group("/attendance")
	{
		attendance.POST("", staff, h.Attendance.Record)
		attendance.PATCH("/:id", staff, h.Attendance.UpdateStatus)
	}

	officeHours := protected.Group("/office-hours")
	{
		officeHours.POST("", staff, h.OfficeHour.Create)
		officeHours.PATCH("/:id", staff, h.OfficeHour.Update)
		officeHours.DELETE("/:id", staff, h.OfficeHour.Delete)
	}

	announcements := protected.Group("/announcements")
	{
		announcements.POST("", staff, h.Announcement.Create)
		announcements.PATCH("/:id", staff, h.Announcement.Update)
		announcements.DELETE("/:id", staff, h.Announcement.Delete)
	}

	if cfg.Analytics.Enabled && h.Analytics != nil {
		analytics := protected.Group("/analytics", staff)
		{
			analytics.GET("/instructor-workload", h.Analytics.InstructorWorkload)
			analytics.GET("/course-difficulty", h.Analytics.CourseDifficulty)
			analytics.GET("/at-risk-students", h.Analytics.AtRiskStudents)
			if cfg.Exports.Enabled {
				analytics.GET("/instructor-workload/export", h.Analytics.ExportInstructorWorkload)
				analytics.GET("/course-difficulty/export", h.Analytics.ExportCourseDifficulty)
				analytics.GET("/at-risk-students/export", h.Analytics.ExportAtRiskStudents)
			}
		}
	}

	return r
}
