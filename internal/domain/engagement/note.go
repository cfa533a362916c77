package engagement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/course"
)

type Note struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_note_user_course,priority:1" json:"user_id"`
	CourseID  uuid.UUID       `gorm:"type:uuid;not null;index:idx_note_user_course,priority:2" json:"course_id"`
	ChapterID *uuid.UUID      `gorm:"type:uuid;index" json:"chapter_id,omitempty"`
	Content   string          `gorm:"column:content;type:text;not null" json:"content"`
	Timestamp *float64        `gorm:"column:timestamp" json:"timestamp,omitempty"`
	Course    *course.Course  `gorm:"foreignKey:CourseID;references:ID" json:"-"`
	Chapter   *course.Chapter `gorm:"foreignKey:ChapterID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Note) TableName() string { return "note" }

func (n *Note) BeforeCreate(*gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
