package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/cache"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	AnalyticsForbidden   = "Access denied. Creator role required."
	recentActivityLimit  = 5
	monthlyRevenueMonths = 6
)

type CourseActivity struct {
	CourseID         uuid.UUID `json:"course_id"`
	Title            string    `json:"title"`
	EnrolledStudents int       `json:"enrolled_students"`
	Revenue          float64   `json:"revenue"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Dashboard struct {
	TotalStudents  int               `json:"total_students"`
	TotalCourses   int               `json:"total_courses"`
	TotalRevenue   float64           `json:"total_revenue"`
	CompletionRate int               `json:"completion_rate"`
	RecentActivity []*CourseActivity `json:"recent_activity"`
}

type CoursePerformance struct {
	CourseID         uuid.UUID `json:"course_id"`
	Title            string    `json:"title"`
	TotalEnrollments int       `json:"total_enrollments"`
	CompletionRate   int       `json:"completion_rate"`
	Revenue          float64   `json:"revenue"`
}

type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Year    int     `json:"year"`
	Revenue float64 `json:"revenue"`
}

type StudentEngagement struct {
	TotalStudents  int `json:"total_students"`
	ActiveStudents int `json:"active_students"`
	CompletionRate int `json:"completion_rate"`
}

type DetailedAnalytics struct {
	CoursePerformance []*CoursePerformance `json:"course_performance"`
	MonthlyRevenue    []*MonthlyRevenue    `json:"monthly_revenue"`
	StudentEngagement StudentEngagement    `json:"student_engagement"`
}

// completionRate is completed/total as a whole percent, rounded half away from zero.
func completionRate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

func priceIndex(courses []*types.Course) map[uuid.UUID]*types.Course {
	out := make(map[uuid.UUID]*types.Course, len(courses))
	for _, c := range courses {
		out[c.ID] = c
	}
	return out
}

// BuildDashboard aggregates a creator's courses and the enrollments that reference them.
// Revenue counts the course's list price once per enrollment.
func BuildDashboard(courses []*types.Course, enrollments []*types.Enrollment) *Dashboard {
	byID := priceIndex(courses)
	students := map[uuid.UUID]struct{}{}
	perCourse := map[uuid.UUID]int{}
	completed := 0
	revenue := 0.0
	counted := 0

	for _, e := range enrollments {
		c, ok := byID[e.CourseID]
		if !ok {
			continue
		}
		counted++
		students[e.UserID] = struct{}{}
		perCourse[e.CourseID]++
		revenue += c.Price
		if e.Status == types.EnrollmentCompleted {
			completed++
		}
	}

	recent := append([]*types.Course(nil), courses...)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].UpdatedAt.After(recent[j].UpdatedAt)
	})
	if len(recent) > recentActivityLimit {
		recent = recent[:recentActivityLimit]
	}
	activity := make([]*CourseActivity, 0, len(recent))
	for _, c := range recent {
		n := perCourse[c.ID]
		activity = append(activity, &CourseActivity{
			CourseID:         c.ID,
			Title:            c.Title,
			EnrolledStudents: n,
			Revenue:          float64(n) * c.Price,
			UpdatedAt:        c.UpdatedAt,
		})
	}

	return &Dashboard{
		TotalStudents:  len(students),
		TotalCourses:   len(courses),
		TotalRevenue:   revenue,
		CompletionRate: completionRate(completed, counted),
		RecentActivity: activity,
	}
}

// BuildDetailed computes per-course performance, six calendar months of revenue
// ending with now's month, and engagement. Months are bucketed in UTC.
func BuildDetailed(courses []*types.Course, enrollments []*types.Enrollment, now time.Time) *DetailedAnalytics {
	byID := priceIndex(courses)
	type courseAgg struct{ total, completed int }
	aggs := make(map[uuid.UUID]*courseAgg, len(courses))
	for _, c := range courses {
		aggs[c.ID] = &courseAgg{}
	}

	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(monthlyRevenueMonths - 1), 0)
	months := make([]*MonthlyRevenue, monthlyRevenueMonths)
	for i := range months {
		m := start.AddDate(0, i, 0)
		months[i] = &MonthlyRevenue{Month: m.Format("Jan"), Year: m.Year()}
	}

	students := map[uuid.UUID]struct{}{}
	active := map[uuid.UUID]struct{}{}
	completed, counted := 0, 0
	for _, e := range enrollments {
		c, ok := byID[e.CourseID]
		if !ok {
			continue
		}
		counted++
		agg := aggs[e.CourseID]
		agg.total++
		students[e.UserID] = struct{}{}
		switch e.Status {
		case types.EnrollmentCompleted:
			agg.completed++
			completed++
		case types.EnrollmentActive:
			active[e.UserID] = struct{}{}
		}

		created := e.CreatedAt.UTC()
		idx := (created.Year()-start.Year())*12 + int(created.Month()) - int(start.Month())
		if idx >= 0 && idx < monthlyRevenueMonths {
			months[idx].Revenue += c.Price
		}
	}

	perf := make([]*CoursePerformance, 0, len(courses))
	for _, c := range courses {
		agg := aggs[c.ID]
		perf = append(perf, &CoursePerformance{
			CourseID:         c.ID,
			Title:            c.Title,
			TotalEnrollments: agg.total,
			CompletionRate:   completionRate(agg.completed, agg.total),
			Revenue:          float64(agg.total) * c.Price,
		})
	}

	return &DetailedAnalytics{
		CoursePerformance: perf,
		MonthlyRevenue:    months,
		StudentEngagement: StudentEngagement{
			TotalStudents:  len(students),
			ActiveStudents: len(active),
			CompletionRate: completionRate(completed, counted),
		},
	}
}

type AnalyticsService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
	Detailed(ctx context.Context) (*DetailedAnalytics, error)
}

type analyticsService struct {
	db             *gorm.DB
	log            *logger.Logger
	courseRepo     repos.CourseRepo
	enrollmentRepo repos.EnrollmentRepo
	cache          cache.JSONCache
	cacheTTL       time.Duration
	now            Clock
}

func NewAnalyticsService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	enrollmentRepo repos.EnrollmentRepo,
	jsonCache cache.JSONCache,
	cacheTTL time.Duration,
) AnalyticsService {
	if jsonCache == nil {
		jsonCache = cache.Noop()
	}
	return &analyticsService{
		db:             db,
		log:            log.With("service", "AnalyticsService"),
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		cache:          jsonCache,
		cacheTTL:       cacheTTL,
		now:            systemClock,
	}
}

func (s *analyticsService) load(ctx context.Context, creatorID uuid.UUID) ([]*types.Course, []*types.Enrollment, error) {
	dbc := dbctx.Context{Ctx: ctx}
	courses, err := s.courseRepo.ListByCreator(dbc, creatorID)
	if err != nil {
		return nil, nil, fmt.Errorf("load creator courses: %w", err)
	}
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	enrollments, err := s.enrollmentRepo.ListByCourseIDs(dbc, ids)
	if err != nil {
		return nil, nil, fmt.Errorf("load course enrollments: %w", err)
	}
	return courses, enrollments, nil
}

// cached serves key from the cache when possible; cache failures fall through to compute.
func cached[T any](ctx context.Context, s *analyticsService, key string, compute func() (*T, error)) (*T, error) {
	if s.cacheTTL > 0 {
		var hit T
		ok, err := s.cache.Get(ctx, key, &hit)
		if err != nil {
			s.log.Warn("analytics cache read failed", "key", key, "error", err)
		} else if ok {
			return &hit, nil
		}
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	if s.cacheTTL > 0 {
		if err := s.cache.Set(ctx, key, v, s.cacheTTL); err != nil {
			s.log.Warn("analytics cache write failed", "key", key, "error", err)
		}
	}
	return v, nil
}

func (s *analyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	p, err := requireCreator(ctx, AnalyticsForbidden)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "analytics:dashboard:"+p.UserID.String(), func() (*Dashboard, error) {
		courses, enrollments, err := s.load(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		return BuildDashboard(courses, enrollments), nil
	})
}

func (s *analyticsService) Detailed(ctx context.Context) (*DetailedAnalytics, error) {
	p, err := requireCreator(ctx, AnalyticsForbidden)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s, "analytics:detailed:"+p.UserID.String(), func() (*DetailedAnalytics, error) {
		courses, enrollments, err := s.load(ctx, p.UserID)
		if err != nil {
			return nil, err
		}
		return BuildDetailed(courses, enrollments, s.now()), nil
	})
}
