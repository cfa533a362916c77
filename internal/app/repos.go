package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	UserProfile     repos.UserProfileRepo
	UserAchievement repos.UserAchievementRepo
	Course          repos.CourseRepo
	CourseTag       repos.CourseTagRepo
	Chapter         repos.ChapterRepo
	Enrollment      repos.EnrollmentRepo
	Bookmark        repos.BookmarkRepo
	Note            repos.NoteRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserProfile:     repos.NewUserProfileRepo(db, log),
		UserAchievement: repos.NewUserAchievementRepo(db, log),
		Course:          repos.NewCourseRepo(db, log),
		CourseTag:       repos.NewCourseTagRepo(db, log),
		Chapter:         repos.NewChapterRepo(db, log),
		Enrollment:      repos.NewEnrollmentRepo(db, log),
		Bookmark:        repos.NewBookmarkRepo(db, log),
		Note:            repos.NewNoteRepo(db, log),
	}
}
