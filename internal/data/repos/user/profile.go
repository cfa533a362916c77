package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserProfileRepo interface {
	GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error)
	Upsert(dbc dbctx.Context, profile *types.UserProfile) (*types.UserProfile, error)
}

type userProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProfileRepo(db *gorm.DB, baseLog *logger.Logger) UserProfileRepo {
	return &userProfileRepo{db: db, log: baseLog.With("repo", "UserProfileRepo")}
}

func (r *userProfileRepo) GetByUserID(dbc dbctx.Context, userID uuid.UUID) (*types.UserProfile, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.UserProfile
	if err := dbc.DB(r.db).Where("user_id = ?", userID).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

var profileUpsertColumns = []string{
	"bio", "location", "website", "social_links", "interests", "skills",
	"education", "experience", "achievements", "preferences", "updated_at",
}

// Upsert writes the full profile keyed by user_id and returns the stored row.
// A loaded profile is updated in place; a new one is inserted, folding into
// any row a concurrent writer created first.
func (r *userProfileRepo) Upsert(dbc dbctx.Context, profile *types.UserProfile) (*types.UserProfile, error) {
	if profile.ID != uuid.Nil {
		res := dbc.DB(r.db).
			Model(&types.UserProfile{}).
			Where("user_id = ?", profile.UserID).
			Select(profileUpsertColumns).
			Updates(profile)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			return r.GetByUserID(dbc, profile.UserID)
		}
	}
	if err := dbc.DB(r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns(profileUpsertColumns),
	}).Create(profile).Error; err != nil {
		return nil, err
	}
	return r.GetByUserID(dbc, profile.UserID)
}
