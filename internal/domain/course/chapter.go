package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Chapter struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index:idx_chapter_course_order,priority:1" json:"course_id"`
	Title       string    `gorm:"column:title;size:100;not null" json:"title"`
	Description string    `gorm:"column:description;type:text;not null" json:"description"`
	VideoURL    string    `gorm:"column:video_url" json:"video_url,omitempty"`
	Duration    float64   `gorm:"column:duration;not null;default:0" json:"duration"`
	Order       int       `gorm:"column:order;not null;default:0;index:idx_chapter_course_order,priority:2" json:"order"`
	IsPreview   bool      `gorm:"column:is_preview;not null;default:false" json:"is_preview"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Chapter) TableName() string { return "chapter" }

func (c *Chapter) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
