package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/classhub/examly-backend/internal/config"
	"github.com/classhub/examly-backend/internal/handler"
	"github.com/classhub/examly-backend/internal/middleware"
	"github.com/classhub/examly-backend/internal/response"
	"github.com/classhub/examly-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth    *handler.AuthHandler
	Class   *handler.ClassHandler
	Exam    *handler.ExamHandler
	Attempt *handler.AttemptHandler
	WS      *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds the rate limiter's eviction goroutine.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(ctx, 30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)
		auth.GET("/me", middleware.RequireJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. Shared Group (Either Role) ─────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireJWT(authService))
	{
		api.GET("/classes", handlers.Class.List)
		api.GET("/classes/:class_id/exams", handlers.Exam.ListByClass)
	}

	// ─── 3. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(middleware.RequireStudentJWT(authService))
	{
		studentAPI.GET("/exams/:exam_id/paper", handlers.Exam.GetPaper)
		studentAPI.POST("/exams/:exam_id/attempts", handlers.Attempt.Start)
		studentAPI.GET("/exams/:exam_id/attempts/active", handlers.Attempt.Active)
		studentAPI.GET("/attempts/:attempt_id", handlers.Attempt.State)
		studentAPI.PUT("/attempts/:attempt_id/answers", handlers.Attempt.RecordAnswer)
		studentAPI.POST("/attempts/:attempt_id/submit", handlers.Attempt.Submit)
	}

	// ─── 4. WebSocket Group (Student WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireStudentWSAuth(authService))
	{
		ws.GET("/student/attempts/:attempt_id/stream", handlers.WS.AttemptStream)
	}

	// ─── 5. Teacher Group ──────────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacherJWT(authService))
	{
		// Class and roster management
		teacherAPI.POST("/classes", handlers.Class.Create)
		teacherAPI.GET("/classes/:class_id/students", handlers.Class.ListStudents)
		teacherAPI.POST("/classes/:class_id/students", handlers.Class.Enroll)
		teacherAPI.DELETE("/classes/:class_id/students/:student_id", handlers.Class.Unenroll)

		// Exam definitions
		teacherAPI.POST("/exams", handlers.Exam.Create)
		teacherAPI.GET("/exams/:exam_id", handlers.Exam.Get)
		teacherAPI.PUT("/exams/:exam_id", handlers.Exam.Update)
		teacherAPI.DELETE("/exams/:exam_id", handlers.Exam.Delete)
		teacherAPI.PATCH("/exams/:exam_id/availability", handlers.Exam.SetAvailability)

		// Submissions and review
		teacherAPI.GET("/exams/:exam_id/attempts", handlers.Attempt.ListByExam)
		teacherAPI.PATCH("/attempts/:attempt_id/review", handlers.Attempt.Review)
	}

	return router
}
