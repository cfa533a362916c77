package engagement

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/course"
)

// noChapterKey stands in for a missing chapter in the uniqueness key so
// course-level bookmarks still collide with each other.
const noChapterKey = "-"

type Bookmark struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_course_chapter,priority:1" json:"user_id"`
	CourseID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_bookmark_user_course_chapter,priority:2" json:"course_id"`
	ChapterID  *uuid.UUID      `gorm:"type:uuid" json:"chapter_id,omitempty"`
	ChapterKey string          `gorm:"column:chapter_key;not null;uniqueIndex:idx_bookmark_user_course_chapter,priority:3" json:"-"`
	Note       string          `gorm:"column:note" json:"note,omitempty"`
	Course     *course.Course  `gorm:"foreignKey:CourseID;references:ID" json:"-"`
	Chapter    *course.Chapter `gorm:"foreignKey:ChapterID;references:ID" json:"-"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (Bookmark) TableName() string { return "bookmark" }

func (b *Bookmark) BeforeCreate(*gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (b *Bookmark) BeforeSave(*gorm.DB) error {
	b.ChapterKey = ChapterKey(b.ChapterID)
	return nil
}

func ChapterKey(chapterID *uuid.UUID) string {
	if chapterID == nil || *chapterID == uuid.Nil {
		return noChapterKey
	}
	return chapterID.String()
}
