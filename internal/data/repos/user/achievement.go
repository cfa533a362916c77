package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserAchievementRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserAchievement) ([]*types.UserAchievement, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, achievementType types.AchievementType) ([]*types.UserAchievement, error)
	ExistsForCourse(dbc dbctx.Context, userID, courseID uuid.UUID, achievementType types.AchievementType) (bool, error)
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *userAchievementRepo) Create(dbc dbctx.Context, rows []*types.UserAchievement) ([]*types.UserAchievement, error) {
	if len(rows) == 0 {
		return []*types.UserAchievement{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns newest first. An empty type matches all types.
func (r *userAchievementRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, achievementType types.AchievementType) ([]*types.UserAchievement, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if achievementType != "" {
		q = q.Where("type = ?", achievementType)
	}
	var out []*types.UserAchievement
	if err := q.Order("date_earned DESC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userAchievementRepo) ExistsForCourse(dbc dbctx.Context, userID, courseID uuid.UUID, achievementType types.AchievementType) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND course_id = ? AND type = ?", userID, courseID, achievementType).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
