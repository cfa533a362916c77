package enrollment

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/course"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusDropped   Status = "dropped"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(s); st {
	case StatusActive, StatusCompleted, StatusDropped:
		return st, nil
	default:
		return "", fmt.Errorf("invalid enrollment status %q", s)
	}
}

const (
	MinProgress = 0
	MaxProgress = 100
)

type Enrollment struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:1" json:"user_id"`
	CourseID     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_user_course,priority:2;index" json:"course_id"`
	Course       *course.Course `gorm:"foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Progress     int            `gorm:"column:progress;not null;default:0" json:"progress"`
	Status       Status         `gorm:"column:status;type:varchar(16);not null;default:'active';index" json:"status"`
	EnrolledAt   time.Time      `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	LastAccessed time.Time      `gorm:"column:last_accessed;not null;index" json:"last_accessed"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(*gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	now := time.Now().UTC()
	if e.EnrolledAt.IsZero() {
		e.EnrolledAt = now
	}
	if e.LastAccessed.IsZero() {
		e.LastAccessed = e.EnrolledAt
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	return nil
}

// StatusForProgress is the status a progress update moves the enrollment to.
func StatusForProgress(progress int) Status {
	if progress == MaxProgress {
		return StatusCompleted
	}
	return StatusActive
}
