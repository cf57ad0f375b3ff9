package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/qualityeducation/eduplatform-api/internal/middleware"
	"github.com/qualityeducation/eduplatform-api/internal/models"
	"github.com/qualityeducation/eduplatform-api/internal/service"
	"github.com/qualityeducation/eduplatform-api/internal/token"
	"github.com/qualityeducation/eduplatform-api/pkg/config"
	"github.com/qualityeducation/eduplatform-api/pkg/logger"
	corsmiddleware "github.com/qualityeducation/eduplatform-api/pkg/middleware/cors"
	reqidmiddleware "github.com/qualityeducation/eduplatform-api/pkg/middleware/requestid"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Codec    *token.Codec
	Metrics  *service.MetricsService
	Registry *prometheus.Registry

	DB    *sqlx.DB
	Redis *redis.Client

	Auth       *AuthHandler
	Teacher    *TeacherHandler
	Supervisor *SupervisorHandler
	Course     *CourseHandler
	Module     *ModuleHandler
	Lesson     *LessonHandler
	Student    *StudentHandler
}

// NewRouter assembles the gin engine: global middleware, operational
// endpoints and the role-scoped API groups.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))
	r.Use(middleware.Identity(deps.Codec, deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", readiness(deps.DB, deps.Redis))

	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(deps.Config.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/register", deps.Auth.Register)
		auth.POST("/login", deps.Auth.Login)
		auth.POST("/forgot-password", deps.Auth.ForgotPassword)
		auth.POST("/reset-password", deps.Auth.ResetPassword)

		me := auth.Group("", middleware.RequireRole(models.RoleStudent))
		me.GET("/me", deps.Auth.Me)
		me.PUT("/me", deps.Auth.UpdateMe)
		me.PUT("/change-password", deps.Auth.ChangePassword)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", deps.Course.Catalog)
		courses.GET("/:courseID", deps.Course.Get)
	}
	api.GET("/modules/:moduleID/lessons", deps.Lesson.PublicList)
	api.GET("/lessons/:lessonID", deps.Lesson.PublicGet)

	student := api.Group("/student", middleware.RequireRole(models.RoleStudent))
	{
		student.GET("/stats", deps.Student.Stats)
		student.GET("/courses", deps.Student.MyCourses)
		student.POST("/courses/:courseID/enroll", deps.Student.Enroll)
		student.POST("/courses/:courseID/lessons/:lessonID/complete", deps.Student.CompleteLesson)
		student.POST("/courses/:courseID/lessons/:lessonID/quiz", deps.Student.SubmitQuiz)
		student.GET("/courses/:courseID/certificate", deps.Student.Certificate)
	}

	teacher := api.Group("/teacher")
	{
		teacher.POST("/register", deps.Teacher.Register)
		teacher.POST("/login", deps.Teacher.Login)
		teacher.POST("/forgot-password", deps.Teacher.ForgotPassword)
		teacher.POST("/reset-password", deps.Teacher.ResetPassword)

		authed := teacher.Group("", middleware.RequireRole(models.RoleTeacher))
		authed.GET("/profile", deps.Teacher.Profile)
		authed.PUT("/profile", deps.Teacher.UpdateProfile)

		authed.GET("/students", deps.Teacher.Students)
		authed.GET("/students/export", deps.Teacher.ExportStudents)
		authed.GET("/students/:studentID", deps.Teacher.StudentDetail)

		authed.POST("/courses", deps.Course.Create)
		authed.GET("/courses", deps.Course.ListMine)
		authed.GET("/courses/:courseID", deps.Course.GetMine)
		authed.PUT("/courses/:courseID", deps.Course.Update)
		authed.DELETE("/courses/:courseID", deps.Course.Delete)
		authed.POST("/courses/:courseID/publish", deps.Course.Publish)
		authed.POST("/courses/:courseID/unpublish", deps.Course.Unpublish)

		authed.POST("/courses/:courseID/modules", deps.Module.Create)
		// PUT on the collection rewrites the whole ordering
		authed.PUT("/courses/:courseID/modules", deps.Module.Reorder)
		authed.PUT("/courses/:courseID/modules/:moduleID", deps.Module.Update)
		authed.DELETE("/courses/:courseID/modules/:moduleID", deps.Module.Delete)

		authed.GET("/courses/:courseID/modules/:moduleID/lessons", deps.Lesson.List)
		authed.POST("/courses/:courseID/modules/:moduleID/lessons", deps.Lesson.Create)
		authed.PUT("/courses/:courseID/modules/:moduleID/lessons/:lessonID", deps.Lesson.Update)
		authed.DELETE("/courses/:courseID/modules/:moduleID/lessons/:lessonID", deps.Lesson.Delete)
		authed.POST("/courses/:courseID/modules/:moduleID/lessons/:lessonID/submit", deps.Lesson.Submit)
	}

	supervisor := api.Group("/supervisor")
	{
		supervisor.POST("/register", deps.Supervisor.Register)
		supervisor.POST("/login", deps.Supervisor.Login)
		supervisor.POST("/forgot-password", deps.Supervisor.ForgotPassword)
		supervisor.POST("/reset-password", deps.Supervisor.ResetPassword)

		authed := supervisor.Group("", middleware.RequireRole(models.RoleSupervisor))
		authed.GET("/profile", deps.Supervisor.Profile)
		authed.PUT("/profile", deps.Supervisor.UpdateProfile)

		authed.GET("/stats", deps.Supervisor.Stats)
		authed.GET("/teachers", deps.Supervisor.Teachers)
		authed.POST("/teachers/:teacherID/approve", deps.Supervisor.ApproveTeacher)
		authed.POST("/teachers/:teacherID/reject", deps.Supervisor.RejectTeacher)

		authed.GET("/lessons/pending", deps.Supervisor.PendingLessons)
		authed.POST("/lessons/:lessonID/approve", deps.Supervisor.ApproveLesson)
		authed.POST("/lessons/:lessonID/reject", deps.Supervisor.RejectLesson)
	}

	return r
}

// readiness reports whether the backing stores answer. Redis is optional;
// a nil client is skipped.
func readiness(db *sqlx.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if db != nil {
			if err := db.PingContext(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": "postgres"})
				return
			}
		}

		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "dependency": "redis"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	}
}
