package enrollment

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type EnrollmentRepo interface {
	Create(dbc dbctx.Context, rows []*types.Enrollment) ([]*types.Enrollment, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error)
	GetByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus, offset, limit int) ([]*types.Enrollment, error)
	CountByUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus) (int64, error)
	CountByUserGroupedByStatus(dbc dbctx.Context, userID uuid.UUID) (map[types.EnrollmentStatus]int64, error)
	ListByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Enrollment, error)
	CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) Create(dbc dbctx.Context, rows []*types.Enrollment) ([]*types.Enrollment, error) {
	if len(rows) == 0 {
		return []*types.Enrollment{}, nil
	}
	if err := dbc.DB(r.db).Omit("Course").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *enrollmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var rows []*types.Enrollment
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *enrollmentRepo) GetByUserAndCourse(dbc dbctx.Context, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	var rows []*types.Enrollment
	if err := dbc.DB(r.db).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *enrollmentRepo) byUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus) *gorm.DB {
	q := dbc.DB(r.db).Model(&types.Enrollment{}).Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	return q
}

// ListByUser returns the user's enrollments with their course, most recently accessed first.
func (r *enrollmentRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus, offset, limit int) ([]*types.Enrollment, error) {
	q := r.byUser(dbc, userID, status).
		Preload("Course").
		Order("last_accessed DESC").
		Order("id ASC")
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Enrollment
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByUser(dbc dbctx.Context, userID uuid.UUID, status types.EnrollmentStatus) (int64, error) {
	var n int64
	if err := r.byUser(dbc, userID, status).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *enrollmentRepo) CountByUserGroupedByStatus(dbc dbctx.Context, userID uuid.UUID) (map[types.EnrollmentStatus]int64, error) {
	var rows []struct {
		Status types.EnrollmentStatus
		N      int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Enrollment{}).
		Select("status, COUNT(*) AS n").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[types.EnrollmentStatus]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.N
	}
	return out, nil
}

func (r *enrollmentRepo) ListByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("course_id IN ?", courseIDs).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	out := make(map[uuid.UUID]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return out, nil
	}
	var rows []struct {
		CourseID uuid.UUID
		N        int64
	}
	if err := dbc.DB(r.db).
		Model(&types.Enrollment{}).
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

func (r *enrollmentRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.Enrollment{}).Where("id = ?", id).Updates(updates).Error
}
