package user

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AchievementType string

const (
	AchievementCourseCompletion AchievementType = "course_completion"
	AchievementCertificate      AchievementType = "certificate"
	AchievementBadge            AchievementType = "badge"
	AchievementMilestone        AchievementType = "milestone"
)

func ParseAchievementType(s string) (AchievementType, error) {
	switch t := AchievementType(s); t {
	case AchievementCourseCompletion, AchievementCertificate, AchievementBadge, AchievementMilestone:
		return t, nil
	default:
		return "", fmt.Errorf("invalid achievement type %q", s)
	}
}

type UserAchievement struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_user_achievement_user_type,priority:1" json:"user_id"`
	Type        AchievementType `gorm:"column:type;type:varchar(32);not null;index:idx_user_achievement_user_type,priority:2" json:"type"`
	Title       string          `gorm:"column:title;not null" json:"title"`
	Description string          `gorm:"column:description;not null" json:"description"`
	CourseID    *uuid.UUID      `gorm:"type:uuid;index" json:"course_id,omitempty"`
	Image       string          `gorm:"column:image" json:"image,omitempty"`
	DateEarned  time.Time       `gorm:"column:date_earned;not null;index" json:"date_earned"`
	Metadata    datatypes.JSON  `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (UserAchievement) TableName() string { return "user_achievement" }

func (a *UserAchievement) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.DateEarned.IsZero() {
		a.DateEarned = time.Now().UTC()
	}
	return nil
}
