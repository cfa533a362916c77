package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	creatorRequired  = "Not authorized to access this route"
	chapterAddDenied = "Not authorized to add chapters to this course"
	chapterPutDenied = "Not authorized to update chapters in this course"
	chapterDelDenied = "Not authorized to delete chapters from this course"
	analyticsDenied  = "Access denied. Creator role required."
	maxUploadMemory  = 8 << 20
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORS        httpMW.CORSConfig

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	AuthHandler       *httpH.AuthHandler
	CourseHandler     *httpH.CourseHandler
	ChapterHandler    *httpH.ChapterHandler
	EnrollmentHandler *httpH.EnrollmentHandler
	BookmarkHandler   *httpH.BookmarkHandler
	NoteHandler       *httpH.NoteHandler
	ProfileHandler    *httpH.ProfileHandler
	AnalyticsHandler  *httpH.AnalyticsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.Recovery(cfg.Log))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORS))

	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not_found", "Route not found")
	})

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/v1")
	if cfg.HealthHandler != nil {
		api.GET("/health", cfg.HealthHandler.Health)
	}

	authed := func(h ...gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthMiddleware == nil {
			return h
		}
		return append([]gin.HandlerFunc{cfg.AuthMiddleware.RequireAuth()}, h...)
	}
	creator := func(message string, h ...gin.HandlerFunc) []gin.HandlerFunc {
		if cfg.AuthMiddleware == nil {
			return h
		}
		return append([]gin.HandlerFunc{
			cfg.AuthMiddleware.RequireAuth(),
			cfg.AuthMiddleware.RequireRole(message, types.RoleCreator),
		}, h...)
	}

	// Auth
	if h := cfg.AuthHandler; h != nil {
		g := api.Group("/auth")
		g.POST("/register", h.Register)
		g.POST("/login", h.Login)
		g.GET("/me", authed(h.Me)...)
		g.POST("/logout", authed(h.Logout)...)
	}

	// Courses
	if h := cfg.CourseHandler; h != nil {
		g := api.Group("/courses")
		g.GET("", h.List)
		g.POST("", creator(creatorRequired, h.Create)...)
		g.GET("/creator/courses", creator(creatorRequired, h.ListMine)...)
		g.GET("/:id", h.Get)
		g.PATCH("/:id", creator(creatorRequired, h.Update)...)
		g.DELETE("/:id", creator(creatorRequired, h.Delete)...)
		g.PATCH("/:id/status", creator(creatorRequired, h.UpdateStatus)...)
		g.GET("/:id/preview", authed(h.Preview)...)
	}

	// Chapters
	if h := cfg.ChapterHandler; h != nil {
		g := api.Group("/courses/:id/chapters")
		g.GET("", authed(h.List)...)
		g.POST("", creator(chapterAddDenied, h.Create)...)
		g.GET("/:chapterId", authed(h.Get)...)
		g.PUT("/:chapterId", creator(chapterPutDenied, h.Update)...)
		g.DELETE("/:chapterId", creator(chapterDelDenied, h.Delete)...)
		g.POST("/:chapterId/video", creator(chapterPutDenied, h.UploadVideo)...)
	}

	// Enrollments
	if h := cfg.EnrollmentHandler; h != nil {
		g := api.Group("/enrollments")
		g.GET("/discover", h.Discover)
		g.POST("/courses/:courseId/enroll", authed(h.Enroll)...)
		g.GET("/enrolled", authed(h.ListEnrolled)...)
		g.PATCH("/enrollments/:enrollmentId/progress", authed(h.UpdateProgress)...)
	}

	// Bookmarks
	if h := cfg.BookmarkHandler; h != nil {
		g := api.Group("/bookmarks", authed()...)
		g.POST("", h.Create)
		g.GET("", h.List)
		g.DELETE("/:bookmarkId", h.Delete)
	}

	// Notes
	if h := cfg.NoteHandler; h != nil {
		g := api.Group("/notes", authed()...)
		g.POST("", h.Create)
		g.GET("", h.List)
		g.GET("/search", h.Search)
		g.GET("/chapter/:chapterId", h.ListForChapter)
		g.PATCH("/:noteId", h.Update)
		g.DELETE("/:noteId", h.Delete)
	}

	// Profile
	if h := cfg.ProfileHandler; h != nil {
		g := api.Group("/profile", authed()...)
		g.GET("", h.Get)
		g.PATCH("", h.Update)
		g.PATCH("/preferences", h.UpdatePreferences)
		g.GET("/achievements", h.Achievements)
		g.GET("/enrollments", h.EnrollmentHistory)
	}

	// Analytics
	if h := cfg.AnalyticsHandler; h != nil {
		g := api.Group("/analytics", creator(analyticsDenied)...)
		g.GET("/dashboard", h.Dashboard)
		g.GET("/detailed", h.Detailed)
	}

	return r
}
