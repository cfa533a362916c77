package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/uploads"
)

const (
	chapterNotFound         = "Chapter not found"
	videoUploadFailed       = "Error uploading video file"
	MissingVideoMessage     = "Please upload a video file"
	ChapterCreateForbidden  = "Not authorized to add chapters to this course"
	ChapterUpdateForbidden  = "Not authorized to update chapters in this course"
	ChapterDeleteForbidden  = "Not authorized to delete chapters from this course"
	chapterUploadForbidden  = "Not authorized to upload videos to this course"
	maxChapterTitleLen      = 100
	chapterDurationNegative = "Duration must be a non-negative number"
)

type ChapterInput struct {
	Title       string
	Description string
	Order       int
	IsPreview   bool
	Duration    *float64
	VideoURL    string
}

type ChapterUpdate struct {
	Title       *string
	Description *string
	Order       *int
	IsPreview   *bool
	Duration    *float64
	VideoURL    *string
}

type ChapterService interface {
	List(ctx context.Context, courseID uuid.UUID) ([]*types.Chapter, error)
	Get(ctx context.Context, courseID, chapterID uuid.UUID) (*types.Chapter, error)
	Create(ctx context.Context, courseID uuid.UUID, in ChapterInput, video *UploadInput) (*types.Chapter, error)
	Update(ctx context.Context, courseID, chapterID uuid.UUID, in ChapterUpdate) (*types.Chapter, error)
	Delete(ctx context.Context, courseID, chapterID uuid.UUID) error
	UploadVideo(ctx context.Context, courseID, chapterID uuid.UUID, video *UploadInput) (*types.Chapter, error)
}

type chapterService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	chapterRepo repos.ChapterRepo
	media       MediaService
}

func NewChapterService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, chapterRepo repos.ChapterRepo, media MediaService) ChapterService {
	return &chapterService{
		db:          db,
		log:         log.With("service", "ChapterService"),
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		media:       media,
	}
}

func (s *chapterService) requireCourse(dbc dbctx.Context, courseID uuid.UUID) (*types.Course, error) {
	c, err := s.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound(courseNotFound)
	}
	return c, nil
}

func (s *chapterService) requireOwnedCourse(dbc dbctx.Context, courseID uuid.UUID, forbidden string) (*types.Course, error) {
	p, err := requireCreator(dbc.Ctx, forbidden)
	if err != nil {
		return nil, err
	}
	c, err := s.requireCourse(dbc, courseID)
	if err != nil {
		return nil, err
	}
	if !c.OwnedBy(p.UserID) {
		return nil, apierr.Forbidden(forbidden)
	}
	return c, nil
}

func (s *chapterService) List(ctx context.Context, courseID uuid.UUID) ([]*types.Chapter, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.requireCourse(dbc, courseID); err != nil {
		return nil, err
	}
	rows, err := s.chapterRepo.ListByCourse(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("list chapters: %w", err)
	}
	return rows, nil
}

func (s *chapterService) Get(ctx context.Context, courseID, chapterID uuid.UUID) (*types.Chapter, error) {
	ch, err := s.chapterRepo.GetInCourse(dbctx.Context{Ctx: ctx}, courseID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("load chapter: %w", err)
	}
	if ch == nil {
		return nil, apierr.NotFound(chapterNotFound)
	}
	return ch, nil
}

func (s *chapterService) Create(ctx context.Context, courseID uuid.UUID, in ChapterInput, video *UploadInput) (*types.Chapter, error) {
	if _, err := s.requireOwnedCourse(dbctx.Context{Ctx: ctx}, courseID, ChapterCreateForbidden); err != nil {
		return nil, err
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	var checks fieldChecks
	if checks.required("title", in.Title, "Please add a chapter title") {
		checks.maxLen("title", in.Title, maxChapterTitleLen, "Title cannot be more than 100 characters")
	}
	checks.required("description", in.Description, "Please add a chapter description")
	if in.Duration != nil && !nonNegative(*in.Duration) {
		checks.add("duration", chapterDurationNegative)
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	ch := &types.Chapter{
		CourseID:    courseID,
		Title:       in.Title,
		Description: in.Description,
		Order:       in.Order,
		IsPreview:   in.IsPreview,
		VideoURL:    strings.TrimSpace(in.VideoURL),
	}
	if in.Duration != nil {
		ch.Duration = *in.Duration
	}

	var stored *StoredMedia
	if video != nil {
		var err error
		stored, err = s.media.Store(ctx, uploads.KindVideo, video, videoUploadFailed)
		if err != nil {
			return nil, err
		}
		ch.VideoURL = stored.URL
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.chapterRepo.Create(inner, []*types.Chapter{ch}); err != nil {
			return fmt.Errorf("create chapter: %w", err)
		}
		if err := s.courseRepo.Touch(inner, courseID); err != nil {
			return fmt.Errorf("touch course: %w", err)
		}
		return nil
	})
	if err != nil {
		s.media.Discard(ctx, stored)
		return nil, err
	}
	s.log.Info("chapter created", "course_id", courseID, "chapter_id", ch.ID)
	return ch, nil
}

func (s *chapterService) Update(ctx context.Context, courseID, chapterID uuid.UUID, in ChapterUpdate) (*types.Chapter, error) {
	if _, err := s.requireOwnedCourse(dbctx.Context{Ctx: ctx}, courseID, ChapterUpdateForbidden); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	var checks fieldChecks
	if v, ok := trimmedPtr(in.Title); ok {
		checks.maxLen("title", v, maxChapterTitleLen, "Title cannot be more than 100 characters")
		updates["title"] = v
	}
	if v, ok := trimmedPtr(in.Description); ok {
		updates["description"] = v
	}
	if in.Order != nil {
		updates["order"] = *in.Order
	}
	if in.IsPreview != nil {
		updates["is_preview"] = *in.IsPreview
	}
	if in.Duration != nil {
		if !nonNegative(*in.Duration) {
			checks.add("duration", chapterDurationNegative)
		}
		updates["duration"] = *in.Duration
	}
	if in.VideoURL != nil {
		updates["video_url"] = strings.TrimSpace(*in.VideoURL)
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	return s.applyUpdate(ctx, courseID, chapterID, updates)
}

func (s *chapterService) applyUpdate(ctx context.Context, courseID, chapterID uuid.UUID, updates map[string]interface{}) (*types.Chapter, error) {
	var out *types.Chapter
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		current, err := s.chapterRepo.GetInCourse(inner, courseID, chapterID)
		if err != nil {
			return fmt.Errorf("load chapter: %w", err)
		}
		if current == nil {
			return apierr.NotFound(chapterNotFound)
		}
		if len(updates) > 0 {
			if _, err := s.chapterRepo.UpdateFieldsInCourse(inner, courseID, chapterID, updates); err != nil {
				return fmt.Errorf("update chapter: %w", err)
			}
			if err := s.courseRepo.Touch(inner, courseID); err != nil {
				return fmt.Errorf("touch course: %w", err)
			}
		}
		out, err = s.chapterRepo.GetInCourse(inner, courseID, chapterID)
		if err != nil {
			return fmt.Errorf("reload chapter: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *chapterService) Delete(ctx context.Context, courseID, chapterID uuid.UUID) error {
	if _, err := s.requireOwnedCourse(dbctx.Context{Ctx: ctx}, courseID, ChapterDeleteForbidden); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := s.chapterRepo.FullDeleteInCourse(inner, courseID, chapterID)
		if err != nil {
			return fmt.Errorf("delete chapter: %w", err)
		}
		if n == 0 {
			return apierr.NotFound(chapterNotFound)
		}
		return s.courseRepo.Touch(inner, courseID)
	})
}

func (s *chapterService) UploadVideo(ctx context.Context, courseID, chapterID uuid.UUID, video *UploadInput) (*types.Chapter, error) {
	if _, err := s.requireOwnedCourse(dbctx.Context{Ctx: ctx}, courseID, chapterUploadForbidden); err != nil {
		return nil, err
	}
	if video == nil {
		return nil, apierr.BadRequest(MissingVideoMessage)
	}
	if _, err := s.Get(ctx, courseID, chapterID); err != nil {
		return nil, err
	}

	stored, err := s.media.Store(ctx, uploads.KindVideo, video, videoUploadFailed)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{"video_url": stored.URL}
	out, err := s.applyUpdate(ctx, courseID, chapterID, updates)
	if err != nil {
		s.media.Discard(ctx, stored)
		return nil, err
	}
	return out, nil
}
