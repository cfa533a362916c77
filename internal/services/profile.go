package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	userNotFound     = "User not found"
	emailInUse       = "Email already in use"
	maxBioLen        = 500
	achievementTypes = "Type must be course_completion, certificate, badge or milestone"
)

type ProfileStats struct {
	TotalEnrollments  int64 `json:"total_enrollments"`
	CompletedCourses  int64 `json:"completed_courses"`
	InProgressCourses int64 `json:"in_progress_courses"`
}

type ProfileOverview struct {
	User         *types.User              `json:"user"`
	Profile      *types.UserProfile       `json:"profile"`
	Achievements []*types.UserAchievement `json:"achievements"`
	Stats        ProfileStats             `json:"stats"`
}

// ProfileUpdate mirrors the editable profile; nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string
	Email        *string
	Bio          *string
	Location     *string
	Website      *string
	SocialLinks  *types.SocialLinks
	Interests    *[]string
	Skills       *[]string
	Education    *[]types.Education
	Experience   *[]types.Experience
	Achievements *[]types.ProfileAchievement
	Preferences  *types.Preferences
}

type AchievementView struct {
	*types.UserAchievement
	Course *CourseRef `json:"course,omitempty"`
}

type EnrollmentSummary struct {
	ID           uuid.UUID              `json:"id"`
	Course       *CourseRef             `json:"course"`
	Status       types.EnrollmentStatus `json:"status"`
	Progress     int                    `json:"progress"`
	LastAccessed time.Time              `json:"last_accessed"`
}

type EnrollmentHistoryPage struct {
	Enrollments []*EnrollmentSummary `json:"enrollments"`
	Total       int64                `json:"total"`
	Pages       int                  `json:"pages"`
	CurrentPage int                  `json:"current_page"`
}

type ProfileService interface {
	Get(ctx context.Context) (*ProfileOverview, error)
	Update(ctx context.Context, in ProfileUpdate) (*types.UserProfile, error)
	UpdatePreferences(ctx context.Context, prefs types.Preferences) (*types.Preferences, error)
	Achievements(ctx context.Context, achievementType string) ([]*AchievementView, error)
	EnrollmentHistory(ctx context.Context, status string, page Page) (*EnrollmentHistoryPage, error)
}

type profileService struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	profileRepo     repos.UserProfileRepo
	achievementRepo repos.UserAchievementRepo
	enrollmentRepo  repos.EnrollmentRepo
	courseRepo      repos.CourseRepo
}

func NewProfileService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	profileRepo repos.UserProfileRepo,
	achievementRepo repos.UserAchievementRepo,
	enrollmentRepo repos.EnrollmentRepo,
	courseRepo repos.CourseRepo,
) ProfileService {
	return &profileService{
		db:              db,
		log:             log.With("service", "ProfileService"),
		userRepo:        userRepo,
		profileRepo:     profileRepo,
		achievementRepo: achievementRepo,
		enrollmentRepo:  enrollmentRepo,
		courseRepo:      courseRepo,
	}
}

func (s *profileService) Get(ctx context.Context) (*ProfileOverview, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}

	var (
		u            *types.User
		profile      *types.UserProfile
		achievements []*types.UserAchievement
		byStatus     map[types.EnrollmentStatus]int64
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		var err error
		u, err = s.userRepo.GetByID(dbc, p.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		profile, err = s.profileRepo.GetByUserID(dbc, p.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		achievements, err = s.achievementRepo.ListByUser(dbc, p.UserID, "")
		return err
	})
	g.Go(func() error {
		var err error
		byStatus, err = s.enrollmentRepo.CountByUserGroupedByStatus(dbc, p.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}
	if u == nil {
		return nil, apierr.NotFound(userNotFound)
	}
	if profile == nil {
		profile = user.NewUserProfile(p.UserID)
	}

	var stats ProfileStats
	for _, n := range byStatus {
		stats.TotalEnrollments += n
	}
	stats.CompletedCourses = byStatus[types.EnrollmentCompleted]
	stats.InProgressCourses = byStatus[types.EnrollmentActive]

	if achievements == nil {
		achievements = []*types.UserAchievement{}
	}
	return &ProfileOverview{User: u, Profile: profile, Achievements: achievements, Stats: stats}, nil
}

func validateProfileUpdate(in *ProfileUpdate) error {
	var checks fieldChecks
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if checks.required("name", name, "Please add a name") {
			checks.maxLen("name", name, maxNameLen, "Name cannot be more than 50 characters")
		}
		in.Name = &name
	}
	if in.Email != nil {
		email := repos.NormalizeEmail(*in.Email)
		checks.email("email", email, "Please add a valid email")
		in.Email = &email
	}
	if in.Bio != nil {
		checks.maxLen("bio", *in.Bio, maxBioLen, "Bio cannot be more than 500 characters")
	}
	return checks.err()
}

func applyProfileUpdate(profile *types.UserProfile, in ProfileUpdate) {
	if in.Bio != nil {
		profile.Bio = *in.Bio
	}
	if in.Location != nil {
		profile.Location = strings.TrimSpace(*in.Location)
	}
	if in.Website != nil {
		profile.Website = strings.TrimSpace(*in.Website)
	}
	if in.SocialLinks != nil {
		profile.SocialLinks = datatypes.NewJSONType(*in.SocialLinks)
	}
	if in.Interests != nil {
		profile.Interests = datatypes.JSONSlice[string](types.NormalizeCourseTags(*in.Interests))
	}
	if in.Skills != nil {
		profile.Skills = datatypes.JSONSlice[string](types.NormalizeCourseTags(*in.Skills))
	}
	if in.Education != nil {
		profile.Education = datatypes.JSONSlice[types.Education](*in.Education)
	}
	if in.Experience != nil {
		profile.Experience = datatypes.JSONSlice[types.Experience](*in.Experience)
	}
	if in.Achievements != nil {
		profile.Achievements = datatypes.JSONSlice[types.ProfileAchievement](*in.Achievements)
	}
	if in.Preferences != nil {
		profile.Preferences = datatypes.NewJSONType(*in.Preferences)
	}
}

func (s *profileService) Update(ctx context.Context, in ProfileUpdate) (*types.UserProfile, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if err := validateProfileUpdate(&in); err != nil {
		return nil, err
	}

	var out *types.UserProfile
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		u, err := s.userRepo.GetByID(inner, p.UserID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if u == nil {
			return apierr.NotFound(userNotFound)
		}

		userUpdates := map[string]interface{}{}
		if in.Name != nil && *in.Name != u.Name {
			userUpdates["name"] = *in.Name
		}
		if in.Email != nil && *in.Email != u.Email {
			taken, err := s.userRepo.EmailExists(inner, *in.Email)
			if err != nil {
				return fmt.Errorf("check email: %w", err)
			}
			if taken {
				return apierr.Conflict(emailInUse)
			}
			userUpdates["email"] = *in.Email
		}
		if err := s.userRepo.UpdateFields(inner, p.UserID, userUpdates); err != nil {
			if db.IsUniqueViolation(err) {
				return apierr.Conflict(emailInUse).Wrap(err)
			}
			return fmt.Errorf("update user: %w", err)
		}

		profile, err := s.profileRepo.GetByUserID(inner, p.UserID)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		if profile == nil {
			profile = user.NewUserProfile(p.UserID)
		}
		applyProfileUpdate(profile, in)
		out, err = s.profileRepo.Upsert(inner, profile)
		if err != nil {
			return fmt.Errorf("save profile: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *profileService) UpdatePreferences(ctx context.Context, prefs types.Preferences) (*types.Preferences, error) {
	saved, err := s.Update(ctx, ProfileUpdate{Preferences: &prefs})
	if err != nil {
		return nil, err
	}
	out := saved.Preferences.Data()
	return &out, nil
}

func (s *profileService) Achievements(ctx context.Context, achievementType string) ([]*AchievementView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	var typ types.AchievementType
	if t := strings.TrimSpace(achievementType); t != "" {
		typ, err = user.ParseAchievementType(t)
		if err != nil {
			return nil, apierr.Validation(apierr.FieldError{Field: "type", Message: achievementTypes})
		}
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows, err := s.achievementRepo.ListByUser(dbc, p.UserID, typ)
	if err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, a := range rows {
		if a.CourseID != nil {
			ids = append(ids, *a.CourseID)
		}
	}
	courses, err := s.courseRepo.GetByIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load achievement courses: %w", err)
	}
	byID := make(map[uuid.UUID]*types.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	out := make([]*AchievementView, 0, len(rows))
	for _, a := range rows {
		v := &AchievementView{UserAchievement: a}
		if a.CourseID != nil {
			v.Course = courseRef(byID[*a.CourseID])
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *profileService) EnrollmentHistory(ctx context.Context, status string, page Page) (*EnrollmentHistoryPage, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	st, err := parseEnrollmentStatus(status)
	if err != nil {
		return nil, err
	}
	page = page.normalize()

	var (
		rows  []*types.Enrollment
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	dbc := dbctx.Context{Ctx: gctx}
	g.Go(func() error {
		var err error
		rows, err = s.enrollmentRepo.ListByUser(dbc, p.UserID, st, page.offset(), page.Size)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.enrollmentRepo.CountByUser(dbc, p.UserID, st)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load enrollment history: %w", err)
	}

	items := make([]*EnrollmentSummary, 0, len(rows))
	for _, e := range rows {
		items = append(items, &EnrollmentSummary{
			ID:           e.ID,
			Course:       courseRef(e.Course),
			Status:       e.Status,
			Progress:     e.Progress,
			LastAccessed: e.LastAccessed,
		})
	}
	return &EnrollmentHistoryPage{
		Enrollments: items,
		Total:       total,
		Pages:       pageCount(total, page.Size),
		CurrentPage: page.Number,
	}, nil
}
