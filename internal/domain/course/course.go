package course

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/domain/user"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusDraft, StatusPublished:
		return st, nil
	default:
		return "", fmt.Errorf("invalid course status %q", s)
	}
}

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	Creator     *user.User `gorm:"foreignKey:CreatorID;references:ID" json:"-"`
	Title       string     `gorm:"column:title;size:100;not null" json:"title"`
	Description string     `gorm:"column:description;type:text;not null" json:"description"`
	Price       float64    `gorm:"column:price;not null;default:0" json:"price"`
	Thumbnail   string     `gorm:"column:thumbnail" json:"thumbnail,omitempty"`
	Status      Status     `gorm:"column:status;type:varchar(16);not null;default:'draft';index" json:"status"`
	Category    string     `gorm:"column:category;not null;index" json:"category"`

	// Tags are stored in course_tag and hydrated by the repo.
	Tags []string `gorm:"-" json:"tags"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime;index" json:"updated_at"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Status == "" {
		c.Status = StatusDraft
	}
	return nil
}

func (c *Course) OwnedBy(userID uuid.UUID) bool {
	return c != nil && c.CreatorID == userID
}

type CourseTag struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_tag_course_tag,priority:1" json:"course_id"`
	Tag      string    `gorm:"column:tag;not null;uniqueIndex:idx_course_tag_course_tag,priority:2;index" json:"tag"`
	Position int       `gorm:"column:position;not null;default:0" json:"position"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (CourseTag) TableName() string { return "course_tag" }

func (t *CourseTag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// NormalizeTags trims, drops blanks and de-duplicates while keeping order.
func NormalizeTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
