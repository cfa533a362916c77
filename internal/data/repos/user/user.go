package user

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error)
	GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	UpdateFields(dbc dbctx.Context, userID uuid.UUID, updates map[string]interface{}) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	for _, u := range users {
		u.Email = NormalizeEmail(u.Email)
	}
	if err := dbc.DB(r.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepo) GetByIDs(dbc dbctx.Context, userIDs []uuid.UUID) ([]*types.User, error) {
	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", userIDs).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, userID uuid.UUID) (*types.User, error) {
	if userID == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{userID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}
	var results []*types.User
	if err := dbc.DB(r.db).Where("email = ?", email).Limit(1).Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *userRepo) UpdateFields(dbc dbctx.Context, userID uuid.UUID, updates map[string]interface{}) error {
	if userID == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if email, ok := updates["email"].(string); ok {
		updates["email"] = NormalizeEmail(email)
	}
	return dbc.DB(r.db).Model(&types.User{}).Where("id = ?", userID).Updates(updates).Error
}
