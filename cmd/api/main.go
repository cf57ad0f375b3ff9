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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	_ "github.com/qualityeducation/eduplatform-api/api/swagger"
	"github.com/qualityeducation/eduplatform-api/internal/handler"
	"github.com/qualityeducation/eduplatform-api/internal/repository"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/internal/token"
	"github.com/qualityeducation/eduplatform-api/pkg/cache"
	"github.com/qualityeducation/eduplatform-api/pkg/config"
	"github.com/qualityeducation/eduplatform-api/pkg/database"
	"github.com/qualityeducation/eduplatform-api/pkg/jobs"
	"github.com/qualityeducation/eduplatform-api/pkg/logger"
	"github.com/qualityeducation/eduplatform-api/pkg/mail"
)

// @title Quality Education Platform API
// @version 1.0.0
// @description Course authoring, review and learning progress backend
// @BasePath /api
// @schemes http

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

	codec, err := token.NewCodec(cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		logr.Fatal("invalid token configuration", zap.Error(err))
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	// Redis is optional: the catalog cache degrades to pass-through when
	// the connection is unavailable.
	rdb, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, catalog cache disabled", zap.Error(err))
		rdb = nil
	} else {
		defer rdb.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := service.NewMetricsService(registry)

	students := repository.NewStudentRepository(db)
	teachers := repository.NewTeacherRepository(db)
	supervisors := repository.NewSupervisorRepository(db)
	courses := repository.NewCourseRepository(db)
	modules := repository.NewModuleRepository(db)
	lessons := repository.NewLessonRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)

	var cacheSvc *service.CacheService
	if rdb != nil {
		cacheSvc = service.NewCacheService(repository.NewCacheRepository(rdb), cfg.Catalog.CacheEnabled, cfg.Catalog.CacheTTL, metrics, logr)
	} else {
		cacheSvc = service.NewCacheService(nil, false, 0, metrics, logr)
	}

	var notifier service.Notifier = service.NopNotifier{}
	var queue *jobs.Queue
	if cfg.Notify.Enabled {
		queue = jobs.NewQueue(cfg.Notify.Workers, 64, logr)
		queue.Start()
		notifier = service.NewMailNotifier(mail.NewSMTPMailer(cfg.SMTP), queue, cfg, logr)
	}

	authSvc := service.NewAuthService(students, codec, notifier, logr)
	teacherSvc := service.NewTeacherService(teachers, enrollments, students, courses, codec, notifier, logr)
	supervisorSvc := service.NewSupervisorService(supervisors, teachers, lessons, students, courses, enrollments, cacheSvc, codec, notifier, logr)
	courseSvc := service.NewCourseService(courses, cacheSvc, logr)
	moduleSvc := service.NewModuleService(modules, courses, logr)
	lessonSvc := service.NewLessonService(lessons, modules, courses, enrollments, cacheSvc, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollments, courses, lessons, students, teachers, metrics, logr)

	router := handler.NewRouter(handler.RouterDeps{
		Config:   cfg,
		Logger:   logr,
		Codec:    codec,
		Metrics:  metrics,
		Registry: registry,
		DB:       db,
		Redis:    rdb,

		Auth:       handler.NewAuthHandler(authSvc),
		Teacher:    handler.NewTeacherHandler(teacherSvc),
		Supervisor: handler.NewSupervisorHandler(supervisorSvc),
		Course:     handler.NewCourseHandler(courseSvc, moduleSvc),
		Module:     handler.NewModuleHandler(moduleSvc),
		Lesson:     handler.NewLessonHandler(lessonSvc),
		Student:    handler.NewStudentHandler(enrollmentSvc),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("forced shutdown", zap.Error(err))
	}

	if queue != nil {
		queue.Stop()
	}

	logr.Info("server stopped")
}
