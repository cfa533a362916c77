package domain

import (
	"github.com/yungbote/coursehub-backend/internal/domain/course"
	"github.com/yungbote/coursehub-backend/internal/domain/engagement"
	"github.com/yungbote/coursehub-backend/internal/domain/enrollment"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

type User = user.User
type UserSummary = user.Summary
type Role = user.Role
type Principal = user.Principal
type UserProfile = user.UserProfile
type UserAchievement = user.UserAchievement
type AchievementType = user.AchievementType
type Preferences = user.Preferences
type SocialLinks = user.SocialLinks
type Education = user.Education
type Experience = user.Experience
type ProfileAchievement = user.ProfileAchievement

const (
	RoleCreator = user.RoleCreator
	RoleMember  = user.RoleMember

	AchievementCourseCompletion = user.AchievementCourseCompletion
	AchievementCertificate      = user.AchievementCertificate
	AchievementBadge            = user.AchievementBadge
	AchievementMilestone        = user.AchievementMilestone
)

type Course = course.Course
type CourseStatus = course.Status
type CourseTag = course.CourseTag
type Chapter = course.Chapter

var NormalizeCourseTags = course.NormalizeTags

const (
	CourseStatusDraft     = course.StatusDraft
	CourseStatusPublished = course.StatusPublished
)

type Enrollment = enrollment.Enrollment
type EnrollmentStatus = enrollment.Status

const (
	EnrollmentActive    = enrollment.StatusActive
	EnrollmentCompleted = enrollment.StatusCompleted
	EnrollmentDropped   = enrollment.StatusDropped
)

var EnrollmentStatusForProgress = enrollment.StatusForProgress

type Bookmark = engagement.Bookmark
type Note = engagement.Note

// AllModels lists every persisted entity in migration order.
func AllModels() []any {
	return []any{
		&User{},
		&UserProfile{},
		&UserAchievement{},
		&Course{},
		&CourseTag{},
		&Chapter{},
		&Enrollment{},
		&Bookmark{},
		&Note{},
	}
}
