package course

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type CourseTagRepo interface {
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.CourseTag) error
	GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseTag, error)
	ReplaceForCourse(dbc dbctx.Context, courseID uuid.UUID, tags []string) error
	FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error
}

type courseTagRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseTagRepo(db *gorm.DB, baseLog *logger.Logger) CourseTagRepo {
	return &courseTagRepo{db: db, log: baseLog.With("repo", "CourseTagRepo")}
}

func (r *courseTagRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.CourseTag) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "tag"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *courseTagRepo) GetByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) ([]*types.CourseTag, error) {
	var out []*types.CourseTag
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("course_id IN ?", courseIDs).
		Order("course_id ASC").
		Order("position ASC").
		Order("tag ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ReplaceForCourse makes the course's tag set exactly tags. Callers pass a transaction.
func (r *courseTagRepo) ReplaceForCourse(dbc dbctx.Context, courseID uuid.UUID, tags []string) error {
	if err := r.FullDeleteByCourseIDs(dbc, []uuid.UUID{courseID}); err != nil {
		return err
	}
	tags = types.NormalizeCourseTags(tags)
	rows := make([]*types.CourseTag, 0, len(tags))
	for i, t := range tags {
		rows = append(rows, &types.CourseTag{CourseID: courseID, Tag: t, Position: i})
	}
	return r.CreateIgnoreDuplicates(dbc, rows)
}

func (r *courseTagRepo) FullDeleteByCourseIDs(dbc dbctx.Context, courseIDs []uuid.UUID) error {
	if len(courseIDs) == 0 {
		return nil
	}
	return dbc.DB(r.db).Where("course_id IN ?", courseIDs).Delete(&types.CourseTag{}).Error
}
