package testutil

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
)

func SeedUser(tb testing.TB, tx *gorm.DB, email string, role types.Role) *types.User {
	tb.Helper()
	u := &types.User{
		Name:     "Test User",
		Email:    email,
		Password: "$2a$10$notarealhashnotarealhashnotarealhashnotarealhash12",
		Role:     role,
	}
	if err := tx.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedCourse creates a course owned by creatorID. Mutators adjust defaults before insert.
func SeedCourse(tb testing.TB, tx *gorm.DB, creatorID uuid.UUID, mutators ...func(*types.Course)) *types.Course {
	tb.Helper()
	c := &types.Course{
		CreatorID:   creatorID,
		Title:       "Go Fundamentals",
		Description: "Learn Go from scratch",
		Price:       49,
		Status:      types.CourseStatusPublished,
		Category:    "programming",
	}
	for _, m := range mutators {
		m(c)
	}
	if err := tx.Omit("Creator").Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedChapter(tb testing.TB, tx *gorm.DB, courseID uuid.UUID, order int) *types.Chapter {
	tb.Helper()
	ch := &types.Chapter{
		CourseID:    courseID,
		Title:       "Chapter",
		Description: "chapter body",
		Order:       order,
	}
	if err := tx.Create(ch).Error; err != nil {
		tb.Fatalf("seed chapter: %v", err)
	}
	return ch
}

func SeedEnrollment(tb testing.TB, tx *gorm.DB, userID, courseID uuid.UUID, progress int, createdAt time.Time) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		Progress:     progress,
		Status:       types.EnrollmentStatusForProgress(progress),
		EnrolledAt:   createdAt,
		LastAccessed: createdAt,
		CreatedAt:    createdAt,
	}
	if err := tx.Omit("Course").Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
