package repos

import (
	"github.com/yungbote/coursehub-backend/internal/data/repos/course"
	"github.com/yungbote/coursehub-backend/internal/data/repos/engagement"
	"github.com/yungbote/coursehub-backend/internal/data/repos/enrollment"
	"github.com/yungbote/coursehub-backend/internal/data/repos/user"
)

type UserRepo = user.UserRepo
type UserProfileRepo = user.UserProfileRepo
type UserAchievementRepo = user.UserAchievementRepo

type CourseRepo = course.CourseRepo
type CourseFilter = course.CourseFilter
type CourseTagRepo = course.CourseTagRepo
type ChapterRepo = course.ChapterRepo

type EnrollmentRepo = enrollment.EnrollmentRepo

type BookmarkRepo = engagement.BookmarkRepo
type NoteRepo = engagement.NoteRepo
type NoteFilter = engagement.NoteFilter

var (
	NewUserRepo            = user.NewUserRepo
	NewUserProfileRepo     = user.NewUserProfileRepo
	NewUserAchievementRepo = user.NewUserAchievementRepo
	NewCourseRepo          = course.NewCourseRepo
	NewCourseTagRepo       = course.NewCourseTagRepo
	NewChapterRepo         = course.NewChapterRepo
	NewEnrollmentRepo      = enrollment.NewEnrollmentRepo
	NewBookmarkRepo        = engagement.NewBookmarkRepo
	NewNoteRepo            = engagement.NewNoteRepo

	NormalizeEmail   = user.NormalizeEmail
	CourseSortColumn = course.SortColumn
)
