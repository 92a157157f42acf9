package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/opencampus/registrar-api/api/swagger"
	"github.com/opencampus/registrar-api/internal/handler"
	"github.com/opencampus/registrar-api/internal/repository"
	"github.com/opencampus/registrar-api/internal/service"
	"github.com/opencampus/registrar-api/pkg/cache"
	"github.com/opencampus/registrar-api/pkg/config"
	"github.com/opencampus/registrar-api/pkg/database"
	"github.com/opencampus/registrar-api/pkg/logger"
)

// @title Registrar API
// @version 1.0
// @description University records service: accounts, catalog, scheduling, enrollment, grading and reporting.
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer db.Close()

	cacheRepo := repository.NewCacheRepository(nil)
	if cfg.Analytics.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient)
		}
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	sectionRepo := repository.NewSectionRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	officeHourRepo := repository.NewOfficeHourRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	guard := service.NewAccessGuard(sectionRepo)
	analyticsSvc := service.NewAnalyticsService(analyticsRepo, cacheRepo, cfg.Analytics, log)

	authSvc := service.NewAuthService(userRepo, cfg.JWT, log)
	userSvc := service.NewUserService(userRepo, profileRepo, guard, log)
	departmentSvc := service.NewDepartmentService(departmentRepo)
	courseSvc := service.NewCourseService(courseRepo, departmentRepo)
	sectionSvc := service.NewSectionService(sectionRepo, courseRepo, userRepo)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, userRepo, guard, analyticsSvc, log)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, guard)
	submissionSvc := service.NewSubmissionService(submissionRepo, assignmentRepo, enrollmentRepo, guard)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, enrollmentRepo, guard)
	officeHourSvc := service.NewOfficeHourService(officeHourRepo, guard)
	announcementSvc := service.NewAnnouncementService(announcementRepo, guard)

	var exportSvc *service.ExportService
	if cfg.Exports.Enabled {
		exportSvc = service.NewExportService(analyticsSvc)
	}

	handlers := handler.Handlers{
		Auth:         handler.NewAuthHandler(authSvc),
		User:         handler.NewUserHandler(userSvc),
		Department:   handler.NewDepartmentHandler(departmentSvc),
		Course:       handler.NewCourseHandler(courseSvc),
		Section:      handler.NewSectionHandler(sectionSvc),
		Enrollment:   handler.NewEnrollmentHandler(enrollmentSvc),
		Assignment:   handler.NewAssignmentHandler(assignmentSvc),
		Submission:   handler.NewSubmissionHandler(submissionSvc),
		Attendance:   handler.NewAttendanceHandler(attendanceSvc),
		OfficeHour:   handler.NewOfficeHourHandler(officeHourSvc),
		Announcement: handler.NewAnnouncementHandler(announcementSvc),
		Analytics:    handler.NewAnalyticsHandler(analyticsSvc, exportSvc),
	}

	router := handler.NewRouter(cfg, log, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.Port), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown", zap.Error(err))
	}
}
