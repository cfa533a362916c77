package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type ChapterRepo interface {
	Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error)
	GetInCourse(dbc dbctx.Context, courseID, chapterID uuid.UUID) (*types.Chapter, error)
	ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Chapter, error)
	FirstByCourse(dbc dbctx.Context, courseID uuid.UUID) (*types.Chapter, error)
	CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	UpdateFieldsInCourse(dbc dbctx.Context, courseID, chapterID uuid.UUID, updates map[string]interface{}) (int64, error)
	FullDeleteInCourse(dbc dbctx.Context, courseID, chapterID uuid.UUID) (int64, error)
}

type chapterRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChapterRepo(db *gorm.DB, baseLog *logger.Logger) ChapterRepo {
	return &chapterRepo{db: db, log: baseLog.With("repo", "ChapterRepo")}
}

// "order" is reserved in SQL, so ordering goes through clause.Column for quoting.
var byChapterOrder = clause.OrderBy{Columns: []clause.OrderByColumn{
	{Column: clause.Column{Name: "order"}},
	{Column: clause.Column{Name: "created_at"}},
	{Column: clause.Column{Name: "id"}},
}}

func (r *chapterRepo) Create(dbc dbctx.Context, chapters []*types.Chapter) ([]*types.Chapter, error) {
	if len(chapters) == 0 {
		return []*types.Chapter{}, nil
	}
	if err := dbc.DB(r.db).Create(&chapters).Error; err != nil {
		return nil, err
	}
	return chapters, nil
}

func (r *chapterRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Chapter, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Chapter
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *chapterRepo) GetInCourse(dbc dbctx.Context, courseID, chapterID uuid.UUID) (*types.Chapter, error) {
	if courseID == uuid.Nil || chapterID == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Chapter
	if err := dbc.DB(r.db).
		Where("id = ? AND course_id = ?", chapterID, courseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *chapterRepo) ListByCourse(dbc dbctx.Context, courseID uuid.UUID) ([]*types.Chapter, error) {
	var out []*types.Chapter
	if err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Clauses(byChapterOrder).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *chapterRepo) FirstByCourse(dbc dbctx.Context, courseID uuid.UUID) (*types.Chapter, error) {
	var rows []*types.Chapter
	if err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Clauses(byChapterOrder).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *chapterRepo) CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		N        int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Chapter{}).
		Select("course_id, COUNT(*) AS n").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CourseID] = row.N
	}
	return out, nil
}

func (r *chapterRepo) UpdateFieldsInCourse(dbc dbctx.Context, courseID, chapterID uuid.UUID, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).
		Model(&types.Chapter{}).
		Where("id = ? AND course_id = ?", chapterID, courseID).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *chapterRepo) FullDeleteInCourse(dbc dbctx.Context, courseID, chapterID uuid.UUID) (int64, error) {
	res := dbc.DB(r.db).
		Where("id = ? AND course_id = ?", chapterID, courseID).
		Delete(&types.Chapter{})
	return res.RowsAffected, res.Error
}
