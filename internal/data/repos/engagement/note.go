package engagement

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/coursehub-backend/internal/data/repos/course"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type NoteFilter struct {
	UserID    uuid.UUID
	CourseID  *uuid.UUID
	ChapterID *uuid.UUID
	Query     string
	// ByTimestamp orders by video timestamp ascending instead of newest first.
	ByTimestamp bool
}

type NoteRepo interface {
	Create(dbc dbctx.Context, rows []*types.Note) ([]*types.Note, error)
	GetForUser(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.Note, error)
	List(dbc dbctx.Context, filter NoteFilter) ([]*types.Note, error)
	UpdateFieldsForUser(dbc dbctx.Context, userID, noteID uuid.UUID, updates map[string]interface{}) (int64, error)
	FullDeleteForUser(dbc dbctx.Context, userID, noteID uuid.UUID) (int64, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) Create(dbc dbctx.Context, rows []*types.Note) ([]*types.Note, error) {
	if len(rows) == 0 {
		return []*types.Note{}, nil
	}
	if err := dbc.DB(r.db).Omit("Course", "Chapter").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *noteRepo) GetForUser(dbc dbctx.Context, userID, noteID uuid.UUID) (*types.Note, error) {
	var rows []*types.Note
	if err := dbc.DB(r.db).
		Preload("Course").
		Preload("Chapter").
		Where("id = ? AND user_id = ?", noteID, userID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *noteRepo) List(dbc dbctx.Context, f NoteFilter) ([]*types.Note, error) {
	q := dbc.DB(r.db).Where("user_id = ?", f.UserID)
	if f.CourseID != nil {
		q = q.Where("course_id = ?", *f.CourseID)
	}
	if f.ChapterID != nil {
		q = q.Where("chapter_id = ?", *f.ChapterID)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		q = q.Where(`LOWER(content) LIKE ? ESCAPE '\'`, course.LikePattern(s))
	}
	if f.ByTimestamp {
		q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: "timestamp"}}).Order("created_at ASC")
	} else {
		q = q.Order("created_at DESC")
	}
	var out []*types.Note
	if err := q.Order("id ASC").Preload("Course").Preload("Chapter").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *noteRepo) UpdateFieldsForUser(dbc dbctx.Context, userID, noteID uuid.UUID, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Note{}).
		Where("id = ? AND user_id = ?", noteID, userID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *noteRepo) FullDeleteForUser(dbc dbctx.Context, userID, noteID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND user_id = ?", noteID, userID).
		Delete(&types.Note{})
	return res.RowsAffected, res.Error
}
