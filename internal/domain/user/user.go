package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name     string    `gorm:"column:name;size:50;not null" json:"name"`
	Email    string    `gorm:"column:email;uniqueIndex;not null" json:"email"`
	Password string    `gorm:"column:password;not null" json:"-"`
	Role     Role      `gorm:"column:role;type:varchar(16);not null;index" json:"role"`
	Avatar   string    `gorm:"column:avatar" json:"avatar,omitempty"`
	Verified bool      `gorm:"column:verified;not null;default:false" json:"verified"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "user" }

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Summary is the public projection embedded in other resources.
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
	Role  Role      `json:"role"`
}

func (u *User) Summary() Summary {
	if u == nil {
		return Summary{}
	}
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
