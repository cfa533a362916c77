package engagement

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type BookmarkRepo interface {
	Create(dbc dbctx.Context, rows []*types.Bookmark) ([]*types.Bookmark, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, courseID *uuid.UUID) ([]*types.Bookmark, error)
	FullDeleteForUser(dbc dbctx.Context, userID, bookmarkID uuid.UUID) (int64, error)
}

type bookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) BookmarkRepo {
	return &bookmarkRepo{db: db, log: baseLog.With("repo", "BookmarkRepo")}
}

func (r *bookmarkRepo) Create(dbc dbctx.Context, rows []*types.Bookmark) ([]*types.Bookmark, error) {
	if len(rows) == 0 {
		return []*types.Bookmark{}, nil
	}
	if err := dbc.DB(r.db).Omit("Course", "Chapter").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByUser returns the user's bookmarks newest first with course and chapter loaded.
func (r *bookmarkRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, courseID *uuid.UUID) ([]*types.Bookmark, error) {
	q := dbc.DB(r.db).Where("user_id = ?", userID)
	if courseID != nil {
		q = q.Where("course_id = ?", *courseID)
	}
	var out []*types.Bookmark
	if err := q.
		Preload("Course").
		Preload("Chapter").
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FullDeleteForUser only deletes a bookmark the user owns; zero rows means absent or foreign.
func (r *bookmarkRepo) FullDeleteForUser(dbc dbctx.Context, userID, bookmarkID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", bookmarkID, userID).
		Delete(&types.Bookmark{})
	return res.RowsAffected, res.Error
}
