package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/uploads"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type Services struct {
	Auth       services.AuthService
	Media      services.MediaService
	Course     services.CourseService
	Chapter    services.ChapterService
	Enrollment services.EnrollmentService
	Bookmark   services.BookmarkService
	Note       services.NoteService
	Profile    services.ProfileService
	Analytics  services.AnalyticsService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, clients Clients) Services {
	log.Info("Wiring services...")
	media := services.NewMediaService(log, clients.Bucket, uploads.LoadPolicy(log))
	return Services{
		Auth:       services.NewAuthService(db, log, r.User, cfg.JWTSecret, cfg.JWTExpire),
		Media:      media,
		Course:     services.NewCourseService(db, log, r.Course, r.CourseTag, r.Chapter, r.Enrollment, media),
		Chapter:    services.NewChapterService(db, log, r.Course, r.Chapter, media),
		Enrollment: services.NewEnrollmentService(db, log, r.Course, r.CourseTag, r.Enrollment, r.UserAchievement),
		Bookmark:   services.NewBookmarkService(db, log, r.Course, r.Chapter, r.Bookmark),
		Note:       services.NewNoteService(db, log, r.Course, r.Chapter, r.Note),
		Profile:    services.NewProfileService(db, log, r.User, r.UserProfile, r.UserAchievement, r.Enrollment, r.Course),
		Analytics:  services.NewAnalyticsService(db, log, r.Course, r.Enrollment, clients.Cache, cfg.AnalyticsCacheTTL),
	}
}
