package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/domain/enrollment"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	alreadyEnrolled        = "Already enrolled in this course"
	creatorsCannotEnroll   = "Creators cannot enroll in courses"
	enrollmentNotFound     = "Enrollment not found"
	progressOutOfRange     = "Progress must be between 0 and 100"
	enrollmentNotOwned     = "Not authorized to update this enrollment"
	enrollmentStatusFormat = "Status must be active, completed or dropped"
)

// ParseProgress accepts only a bare JSON integer in [0,100].
func ParseProgress(raw json.RawMessage) (int, error) {
	invalid := apierr.BadRequest(progressOutOfRange)
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return 0, invalid
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, invalid
	}
	v, err := strconv.ParseFloat(n.String(), 64)
	if err != nil || v != float64(int(v)) {
		return 0, invalid
	}
	p := int(v)
	if p < enrollment.MinProgress || p > enrollment.MaxProgress {
		return 0, invalid
	}
	return p, nil
}

type EnrollmentPage struct {
	Enrollments []*types.Enrollment `json:"enrollments"`
	Total       int64               `json:"total"`
	Pages       int                 `json:"pages"`
	CurrentPage int                 `json:"current_page"`
}

type EnrollmentService interface {
	Discover(ctx context.Context, params CourseListParams) (*CoursePage, error)
	Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error)
	ListEnrolled(ctx context.Context, status string, page Page) (*EnrollmentPage, error)
	UpdateProgress(ctx context.Context, enrollmentID uuid.UUID, progress int) (*types.Enrollment, error)
}

type enrollmentService struct {
	db              *gorm.DB
	log             *logger.Logger
	courseRepo      repos.CourseRepo
	enrollmentRepo  repos.EnrollmentRepo
	achievementRepo repos.UserAchievementRepo
	hydrate         courseHydrator
	now             Clock
}

func NewEnrollmentService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	tagRepo repos.CourseTagRepo,
	enrollmentRepo repos.EnrollmentRepo,
	achievementRepo repos.UserAchievementRepo,
) EnrollmentService {
	return &enrollmentService{
		db:              db,
		log:             log.With("service", "EnrollmentService"),
		courseRepo:      courseRepo,
		enrollmentRepo:  enrollmentRepo,
		achievementRepo: achievementRepo,
		hydrate:         courseHydrator{tagRepo: tagRepo, enrollmentRepo: enrollmentRepo},
		now:             systemClock,
	}
}

func parseEnrollmentStatus(s string) (types.EnrollmentStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	st, err := enrollment.ParseStatus(s)
	if err != nil {
		return "", apierr.Validation(apierr.FieldError{Field: "status", Message: enrollmentStatusFormat})
	}
	return st, nil
}

func (s *enrollmentService) Discover(ctx context.Context, params CourseListParams) (*CoursePage, error) {
	page := params.Page.normalize()
	dbc := dbctx.Context{Ctx: ctx}
	rows, total, err := s.courseRepo.List(dbc, repos.CourseFilter{
		Category: params.Category,
		Search:   params.Search,
		Tags:     params.Tags,
		SortBy:   params.SortBy,
		Offset:   page.offset(),
		Limit:    page.Size,
	})
	if err != nil {
		return nil, fmt.Errorf("discover courses: %w", err)
	}
	views, err := s.hydrate.views(dbc, rows)
	if err != nil {
		return nil, err
	}
	return &CoursePage{
		Courses:     views,
		Total:       total,
		Pages:       pageCount(total, page.Size),
		CurrentPage: page.Number,
	}, nil
}

func (s *enrollmentService) Enroll(ctx context.Context, courseID uuid.UUID) (*types.Enrollment, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var out *types.Enrollment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		c, err := s.courseRepo.GetByID(inner, courseID)
		if err != nil {
			return fmt.Errorf("load course: %w", err)
		}
		if c == nil {
			return apierr.NotFound(courseNotFound)
		}
		if p.IsCreator() {
			return apierr.Forbidden(creatorsCannotEnroll)
		}
		existing, err := s.enrollmentRepo.GetByUserAndCourse(inner, p.UserID, courseID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if existing != nil {
			return apierr.Conflict(alreadyEnrolled)
		}
		now := s.now()
		e := &types.Enrollment{
			UserID:       p.UserID,
			CourseID:     courseID,
			Progress:     enrollment.MinProgress,
			Status:       types.EnrollmentActive,
			EnrolledAt:   now,
			LastAccessed: now,
		}
		if _, err := s.enrollmentRepo.Create(inner, []*types.Enrollment{e}); err != nil {
			if db.IsUniqueViolation(err) {
				return apierr.Conflict(alreadyEnrolled).Wrap(err)
			}
			return fmt.Errorf("create enrollment: %w", err)
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("enrolled", "user_id", p.UserID, "course_id", courseID, "enrollment_id", out.ID)
	return out, nil
}

func (s *enrollmentService) ListEnrolled(ctx context.Context, status string, page Page) (*EnrollmentPage, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	st, err := parseEnrollmentStatus(status)
	if err != nil {
		return nil, err
	}
	page = page.normalize()
	dbc := dbctx.Context{Ctx: ctx}

	rows, err := s.enrollmentRepo.ListByUser(dbc, p.UserID, st, page.offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	total, err := s.enrollmentRepo.CountByUser(dbc, p.UserID, st)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}
	if err := s.hydrateCourses(dbc, rows); err != nil {
		return nil, err
	}
	return &EnrollmentPage{
		Enrollments: rows,
		Total:       total,
		Pages:       pageCount(total, page.Size),
		CurrentPage: page.Number,
	}, nil
}

func (s *enrollmentService) hydrateCourses(dbc dbctx.Context, rows []*types.Enrollment) error {
	courses := make([]*types.Course, 0, len(rows))
	for _, e := range rows {
		if e.Course != nil {
			courses = append(courses, e.Course)
		}
	}
	_, err := s.hydrate.views(dbc, courses)
	return err
}

// UpdateProgress sets progress and derives status from it: 100 completes, anything else is active.
func (s *enrollmentService) UpdateProgress(ctx context.Context, enrollmentID uuid.UUID, progress int) (*types.Enrollment, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if progress < enrollment.MinProgress || progress > enrollment.MaxProgress {
		return nil, apierr.BadRequest(progressOutOfRange)
	}

	var out *types.Enrollment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		e, err := s.enrollmentRepo.GetByID(inner, enrollmentID)
		if err != nil {
			return fmt.Errorf("load enrollment: %w", err)
		}
		if e == nil {
			return apierr.NotFound(enrollmentNotFound)
		}
		if e.UserID != p.UserID {
			return apierr.Forbidden(enrollmentNotOwned)
		}

		now := s.now()
		status := types.EnrollmentStatusForProgress(progress)
		if err := s.enrollmentRepo.UpdateFields(inner, e.ID, map[string]interface{}{
			"progress":      progress,
			"status":        status,
			"last_accessed": now,
		}); err != nil {
			return fmt.Errorf("update progress: %w", err)
		}
		if status == types.EnrollmentCompleted {
			if err := s.awardCompletion(inner, e, now); err != nil {
				return err
			}
		}
		e.Progress = progress
		e.Status = status
		e.LastAccessed = now
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *enrollmentService) awardCompletion(dbc dbctx.Context, e *types.Enrollment, now time.Time) error {
	exists, err := s.achievementRepo.ExistsForCourse(dbc, e.UserID, e.CourseID, types.AchievementCourseCompletion)
	if err != nil {
		return fmt.Errorf("check completion achievement: %w", err)
	}
	if exists {
		return nil
	}
	c, err := s.courseRepo.GetByID(dbc, e.CourseID)
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	title := "Course completed"
	if c != nil {
		title = "Completed " + c.Title
	}
	meta, _ := json.Marshal(map[string]any{"enrollment_id": e.ID.String()})
	courseID := e.CourseID
	if _, err := s.achievementRepo.Create(dbc, []*types.UserAchievement{{
		UserID:      e.UserID,
		Type:        types.AchievementCourseCompletion,
		Title:       title,
		Description: "Finished every chapter of the course",
		CourseID:    &courseID,
		DateEarned:  now,
		Metadata:    datatypes.JSON(meta),
	}}); err != nil {
		return fmt.Errorf("award completion: %w", err)
	}
	s.log.Info("completion achievement awarded", "user_id", e.UserID, "course_id", e.CourseID)
	return nil
}
