package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SocialLinks struct {
	Twitter  string `json:"twitter,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	YouTube  string `json:"youtube,omitempty"`
}

type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartYear   int    `json:"start_year"`
	EndYear     *int   `json:"end_year,omitempty"`
	Current     bool   `json:"current"`
}

type Experience struct {
	Company     string     `json:"company"`
	Position    string     `json:"position"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

// ProfileAchievement is a free-form entry the user lists on their profile.
// Earned achievements live in UserAchievement.
type ProfileAchievement struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type Preferences struct {
	EmailNotifications    bool `json:"email_notifications"`
	CourseRecommendations bool `json:"course_recommendations"`
	CommunityUpdates      bool `json:"community_updates"`
}

func DefaultPreferences() Preferences {
	return Preferences{EmailNotifications: true, CourseRecommendations: true, CommunityUpdates: true}
}

type UserProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`

	Bio          string                                  `gorm:"column:bio;size:500" json:"bio"`
	Location     string                                  `gorm:"column:location" json:"location"`
	Website      string                                  `gorm:"column:website" json:"website"`
	SocialLinks  datatypes.JSONType[SocialLinks]         `gorm:"column:social_links" json:"social_links"`
	Interests    datatypes.JSONSlice[string]             `gorm:"column:interests" json:"interests"`
	Skills       datatypes.JSONSlice[string]             `gorm:"column:skills" json:"skills"`
	Education    datatypes.JSONSlice[Education]          `gorm:"column:education" json:"education"`
	Experience   datatypes.JSONSlice[Experience]         `gorm:"column:experience" json:"experience"`
	Achievements datatypes.JSONSlice[ProfileAchievement] `gorm:"column:achievements" json:"achievements"`
	Preferences  datatypes.JSONType[Preferences]         `gorm:"column:preferences" json:"preferences"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string { return "user_profile" }

func (p *UserProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// NewUserProfile returns an empty profile with default preferences.
func NewUserProfile(userID uuid.UUID) *UserProfile {
	return &UserProfile{
		UserID:       userID,
		Interests:    datatypes.JSONSlice[string]{},
		Skills:       datatypes.JSONSlice[string]{},
		Education:    datatypes.JSONSlice[Education]{},
		Experience:   datatypes.JSONSlice[Experience]{},
		Achievements: datatypes.JSONSlice[ProfileAchievement]{},
		Preferences:  datatypes.NewJSONType(DefaultPreferences()),
	}
}
