package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/smart-college/college-api/api/swagger"
	"github.com/smart-college/college-api/internal/handler"
	"github.com/smart-college/college-api/internal/middleware"
	"github.com/smart-college/college-api/internal/models"
	"github.com/smart-college/college-api/internal/repository"
	"github.com/smart-college/college-api/internal/service"
	"github.com/smart-college/college-api/pkg/cache"
	"github.com/smart-college/college-api/pkg/config"
	"github.com/smart-college/college-api/pkg/database"
	"github.com/smart-college/college-api/pkg/jobs"
	"github.com/smart-college/college-api/pkg/logger"
	corsmiddleware "github.com/smart-college/college-api/pkg/middleware/cors"
	reqidmiddleware "github.com/smart-college/college-api/pkg/middleware/requestid"
	"github.com/smart-college/college-api/pkg/storage"
)

// @title College Portal API
// @version 1.0.0
// @description Backend for college administration: academics, attendance, results and reporting.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	cacheEnabled := err == nil
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
	} else {
		defer redisClient.Close()
	}

	reportStore, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}
	uploadStore, err := storage.NewLocalStorage(cfg.Uploads.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init upload storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)

	validate := validator.New()
	metricsSvc := service.NewMetricsService()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	teacherRepo := repository.NewTeacherRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	classRepo := repository.NewClassRepository(db)
	subjectRepo := repository.NewSubjectRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	examRepo := repository.NewExamRepository(db)
	resultRepo := repository.NewResultRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	noticeRepo := repository.NewNoticeRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	reportRepo := repository.NewReportRepository(db)

	var cacheRepo *repository.CacheRepository
	if cacheEnabled {
		cacheRepo = repository.NewCacheRepository(redisClient, logr)
	}
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Performance.CacheTTL, logr, cacheEnabled)

	// Services
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "college-api",
	})
	userSvc := service.NewUserService(userRepo, teacherRepo, studentRepo, validate, logr)
	deptSvc := service.NewDepartmentService(deptRepo, validate, logr)
	classSvc := service.NewClassService(classRepo, validate, logr)
	subjectSvc := service.NewSubjectService(subjectRepo, validate, logr)
	teacherSvc := service.NewTeacherService(teacherRepo, userRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, userRepo, validate, logr)
	scheduleSvc := service.NewScheduleService(scheduleRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, teacherRepo, validate, logr)
	resultSvc := service.NewResultService(examRepo, resultRepo, teacherRepo, cacheSvc, validate, logr)
	submissionSvc := service.NewSubmissionService(assignmentRepo, submissionRepo, teacherRepo, validate, logr)
	noticeSvc := service.NewNoticeService(noticeRepo, validate, logr)
	messageSvc := service.NewMessageService(messageRepo, userRepo, validate, logr)
	performanceSvc := service.NewPerformanceService(resultRepo, cacheSvc, metricsSvc, cfg.Performance.CacheTTL, logr)
	dashboardSvc := service.NewDashboardService(service.DashboardDeps{
		Students:    studentRepo,
		Teachers:    teacherRepo,
		ClassCounts: classRepo,
		SubjCounts:  subjectRepo,
		DeptCounts:  deptRepo,
		Schedules:   scheduleRepo,
		Submissions: submissionRepo,
		Subjects:    subjectRepo,
		Classes:     classRepo,
		Attendance:  attendanceRepo,
		Results:     resultRepo,
		Assignments: assignmentRepo,
		Messages:    messageRepo,
		Notices:     noticeRepo,
	}, cacheSvc, cfg.Dashboard.CacheTTL, logr)

	reportWorker := service.NewReportWorker(reportRepo, resultRepo, studentRepo, attendanceRepo, reportStore, logr)
	reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		BufferSize: 64,
		MaxRetries: cfg.Reports.WorkerRetries,
		RetryDelay: 5 * time.Second,
		Logger:     logr,
	})
	reportSvc := service.NewReportService(reportRepo, reportQueue, signer, reportStore, validate, logr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	reportQueue.Start(ctx)
	defer reportQueue.Stop()

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	deptHandler := handler.NewDepartmentHandler(deptSvc)
	classHandler := handler.NewClassHandler(classSvc, scheduleSvc)
	subjectHandler := handler.NewSubjectHandler(subjectSvc)
	teacherHandler := handler.NewTeacherHandler(teacherSvc, subjectSvc, scheduleSvc)
	studentHandler := handler.NewStudentHandler(studentSvc, userSvc)
	scheduleHandler := handler.NewScheduleHandler(scheduleSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc, userSvc)
	resultHandler := handler.NewResultHandler(resultSvc, userSvc)
	assignmentHandler := handler.NewAssignmentHandler(submissionSvc, userSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc, userSvc)
	messageHandler := handler.NewMessageHandler(messageSvc, userSvc)
	performanceHandler := handler.NewPerformanceHandler(performanceSvc, userSvc)
	dashboardHandler := handler.NewDashboardHandler(dashboardSvc, userSvc)
	reportHandler := handler.NewReportHandler(reportSvc, userSvc)
	uploadHandler := handler.NewUploadHandler(uploadStore, cfg.Uploads.MaxFileSizeBytes)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.GET("/downloads/reports", reportHandler.Download)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.POST("/auth/logout", authHandler.Logout)
		authed.PUT("/auth/password", authHandler.ChangePassword)
		authed.GET("/auth/me", authHandler.Me)

		admin := middleware.RequireRoles(models.RoleAdmin)
		staff := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher)

		authed.POST("/users", admin, userHandler.Create)
		authed.GET("/users", admin, userHandler.List)
		authed.GET("/users/:id", admin, userHandler.Get)
		authed.PUT("/users/:id/active", admin, userHandler.SetActive)

		authed.POST("/departments", admin, deptHandler.Create)
		authed.GET("/departments", deptHandler.List)
		authed.GET("/departments/:id", deptHandler.Get)
		authed.PUT("/departments/:id", admin, deptHandler.Update)
		authed.DELETE("/departments/:id", admin, deptHandler.Delete)

		authed.POST("/classes", admin, classHandler.Create)
		authed.GET("/classes", classHandler.List)
		authed.GET("/classes/:id", classHandler.Get)
		authed.PUT("/classes/:id", admin, classHandler.Update)
		authed.DELETE("/classes/:id", admin, classHandler.Delete)
		authed.GET("/classes/:id/timetable", classHandler.Timetable)

		authed.POST("/subjects", admin, subjectHandler.Create)
		authed.GET("/subjects", subjectHandler.List)
		authed.GET("/subjects/:id", subjectHandler.Get)
		authed.PUT("/subjects/:id", admin, subjectHandler.Update)
		authed.DELETE("/subjects/:id", admin, subjectHandler.Delete)

		authed.POST("/teachers", admin, teacherHandler.Create)
		authed.GET("/teachers", teacherHandler.List)
		authed.GET("/teachers/:id", teacherHandler.Get)
		authed.PUT("/teachers/:id", admin, teacherHandler.Update)
		authed.GET("/teachers/:id/subjects", teacherHandler.Subjects)
		authed.POST("/teachers/:id/subjects/:subject_id", admin, teacherHandler.AssignSubject)
		authed.DELETE("/teachers/:id/subjects/:subject_id", admin, teacherHandler.UnassignSubject)
		authed.GET("/teachers/:id/timetable", teacherHandler.Timetable)

		authed.POST("/students", admin, studentHandler.Create)
		authed.GET("/students", staff, studentHandler.List)
		authed.GET("/students/:id", studentHandler.Get)
		authed.PUT("/students/:id", admin, studentHandler.Update)

		authed.POST("/schedules", admin, scheduleHandler.Create)
		authed.DELETE("/schedules/:id", admin, scheduleHandler.Delete)

		authed.POST("/attendance", staff, attendanceHandler.Mark)
		authed.POST("/attendance/bulk", staff, attendanceHandler.MarkBulk)
		authed.GET("/attendance", attendanceHandler.List)
		authed.GET("/attendance/percentage/:student_id", attendanceHandler.Percentage)

		authed.POST("/exams", staff, resultHandler.CreateExam)
		authed.GET("/exams", resultHandler.ListExams)
		authed.GET("/exams/:id", resultHandler.GetExam)
		authed.PUT("/exams/:id", staff, resultHandler.UpdateExam)
		authed.DELETE("/exams/:id", admin, resultHandler.DeleteExam)
		authed.GET("/exams/:id/results", staff, resultHandler.ExamResults)
		authed.POST("/results", staff, resultHandler.EnterMarks)
		authed.GET("/results/student/:student_id", resultHandler.StudentResults)

		authed.POST("/assignments", staff, assignmentHandler.Create)
		authed.GET("/assignments", assignmentHandler.List)
		authed.GET("/assignments/:id", assignmentHandler.Get)
		authed.GET("/assignments/:id/submissions", staff, assignmentHandler.Submissions)
		authed.GET("/assignments/:id/submission", middleware.RequireRoles(models.RoleStudent), assignmentHandler.MySubmission)
		authed.POST("/submissions", middleware.RequireRoles(models.RoleStudent), assignmentHandler.Submit)
		authed.GET("/submissions/mine", middleware.RequireRoles(models.RoleStudent), assignmentHandler.MySubmissions)
		authed.PUT("/submissions/:id/grade", staff, assignmentHandler.Grade)

		authed.POST("/notices", staff, noticeHandler.Create)
		authed.GET("/notices", noticeHandler.List)
		authed.GET("/notices/:id", noticeHandler.Get)
		authed.PUT("/notices/:id", admin, noticeHandler.Update)
		authed.DELETE("/notices/:id", admin, noticeHandler.Delete)

		authed.POST("/messages", messageHandler.Send)
		authed.GET("/messages/inbox", messageHandler.Inbox)
		authed.GET("/messages/sent", messageHandler.Sent)
		authed.PUT("/messages/:id/read", messageHandler.MarkRead)
		authed.GET("/messages/unread-count", messageHandler.UnreadCount)
		authed.POST("/feedback", middleware.RequireRoles(models.RoleStudent), messageHandler.SubmitFeedback)
		authed.GET("/feedback/subject/:subject_id", staff, messageHandler.SubjectFeedback)

		authed.GET("/performance/:student_id", performanceHandler.Report)
		authed.GET("/dashboard", dashboardHandler.Get)
		authed.GET("/system/metrics", admin, metricsHandler.System)

		authed.POST("/uploads", uploadHandler.Upload)

		authed.POST("/reports", reportHandler.Request)
		authed.GET("/reports", reportHandler.List)
		authed.GET("/reports/:id", reportHandler.Status)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}
