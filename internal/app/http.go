package app

import (
	"context"

	"gorm.io/gorm"

	httpx "github.com/yungbote/coursehub-backend/internal/http"
	httpH "github.com/yungbote/coursehub-backend/internal/http/handlers"
	httpMW "github.com/yungbote/coursehub-backend/internal/http/middleware"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Auth       *httpH.AuthHandler
	Course     *httpH.CourseHandler
	Chapter    *httpH.ChapterHandler
	Enrollment *httpH.EnrollmentHandler
	Bookmark   *httpH.BookmarkHandler
	Note       *httpH.NoteHandler
	Profile    *httpH.ProfileHandler
	Analytics  *httpH.AnalyticsHandler
}

func pingDB(db *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func wireHandlers(log *logger.Logger, db *gorm.DB, s Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:     httpH.NewHealthHandler(pingDB(db)),
		Auth:       httpH.NewAuthHandler(log, s.Auth),
		Course:     httpH.NewCourseHandler(log, s.Course),
		Chapter:    httpH.NewChapterHandler(log, s.Chapter),
		Enrollment: httpH.NewEnrollmentHandler(log, s.Enrollment),
		Bookmark:   httpH.NewBookmarkHandler(log, s.Bookmark),
		Note:       httpH.NewNoteHandler(log, s.Note),
		Profile:    httpH.NewProfileHandler(log, s.Profile),
		Analytics:  httpH.NewAnalyticsHandler(log, s.Analytics),
	}
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, s.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *httpx.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return httpx.NewServer(log, httpx.ServerConfig{
		Addr:            ":" + cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     2 * cfg.ReadTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, httpx.RouterConfig{
		Log:         log,
		ServiceName: serviceName,
		CORS: httpMW.CORSConfig{
			AllowedOrigins: cfg.Origins(),
			AllowAll:       !cfg.IsProduction(),
		},
		AuthMiddleware:    mw.Auth,
		HealthHandler:     h.Health,
		AuthHandler:       h.Auth,
		CourseHandler:     h.Course,
		ChapterHandler:    h.Chapter,
		EnrollmentHandler: h.Enrollment,
		BookmarkHandler:   h.Bookmark,
		NoteHandler:       h.Note,
		ProfileHandler:    h.Profile,
		AnalyticsHandler:  h.Analytics,
	})
}
