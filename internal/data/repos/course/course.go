package course

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

// CourseFilter narrows List. Zero values mean "no constraint"; Limit <= 0 returns every row.
type CourseFilter struct {
	CreatorID *uuid.UUID
	Category  string
	Status    types.CourseStatus
	Search    string
	Tags      []string
	SortBy    string
	Offset    int
	Limit     int
}

var sortableColumns = map[string]struct{}{
	"created_at": {},
	"updated_at": {},
	"price":      {},
	"title":      {},
}

// SortColumn maps a requested sort key to a column, defaulting to created_at.
func SortColumn(requested string) string {
	requested = strings.ToLower(strings.TrimSpace(requested))
	switch requested {
	case "createdat":
		requested = "created_at"
	case "updatedat":
		requested = "updated_at"
	}
	if _, ok := sortableColumns[requested]; ok {
		return requested
	}
	return "created_at"
}

type CourseRepo interface {
	Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDWithCreator(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	List(dbc dbctx.Context, filter CourseFilter) ([]*types.Course, int64, error)
	ListByCreator(dbc dbctx.Context, creatorID uuid.UUID) ([]*types.Course, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	Touch(dbc dbctx.Context, id uuid.UUID) error
	FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(dbc dbctx.Context, courses []*types.Course) ([]*types.Course, error) {
	if len(courses) == 0 {
		return []*types.Course{}, nil
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(&courses).Error; err != nil {
		return nil, err
	}
	return courses, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(dbc, []uuid.UUID{id})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return rows[0], nil
}

func (r *courseRepo) GetByIDWithCreator(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Course
	if err := dbc.DB(r.db).Preload("Creator").Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// List returns one page of matching courses and the total match count.
func (r *courseRepo) List(dbc dbctx.Context, f CourseFilter) ([]*types.Course, int64, error) {
	q := r.applyFilter(dbc.DB(r.db).Model(&types.Course{}), f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	col := SortColumn(f.SortBy)
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Name: col}, Desc: true}).Order("id ASC")
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []*types.Course
	if err := q.Preload("Creator").Find(&out).Error; err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *courseRepo) applyFilter(q *gorm.DB, f CourseFilter) *gorm.DB {
	if f.CreatorID != nil {
		q = q.Where("creator_id = ?", *f.CreatorID)
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		q = q.Where("category = ?", c)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		pattern := LikePattern(s)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, pattern, pattern)
	}
	if tags := types.NormalizeCourseTags(f.Tags); len(tags) > 0 {
		sub := r.db.Model(&types.CourseTag{}).
			Select("course_id").
			Where("tag IN ?", tags).
			Group("course_id").
			Having("COUNT(DISTINCT tag) = ?", len(tags))
		q = q.Where("id IN (?)", sub)
	}
	return q
}

func (r *courseRepo) ListByCreator(dbc dbctx.Context, creatorID uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if err := dbc.DB(r.db).
		Where("creator_id = ?", creatorID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Course{}).Where("id = ?", id).Updates(updates).Error
}

// Touch bumps updated_at so recent-activity ordering sees child changes.
func (r *courseRepo) Touch(dbc dbctx.Context, id uuid.UUID) error {
	return dbc.DB(r.db).Model(&types.Course{}).Where("id = ?", id).Update("updated_at", time.Now().UTC()).Error
}

func (r *courseRepo) FullDeleteByIDs(dbc dbctx.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res := dbc.DB(r.db).Where("id IN ?", ids).Delete(&types.Course{})
	return res.RowsAffected, res.Error
}

// LikePattern lower-cases s, escapes LIKE wildcards and wraps it for substring matching.
func LikePattern(s string) string {
	s = strings.ToLower(s)
	s = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
	return "%" + s + "%"
}
