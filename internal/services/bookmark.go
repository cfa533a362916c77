package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

const (
	alreadyBookmarked      = "Already bookmarked this content"
	bookmarkNotFound       = "Bookmark not found"
	BookmarkRemovedMessage = "Bookmark removed successfully"
)

type BookmarkInput struct {
	CourseID  uuid.UUID
	ChapterID *uuid.UUID
	Note      string
}

type BookmarkView struct {
	*types.Bookmark
	Course  *CourseRef  `json:"course,omitempty"`
	Chapter *ChapterRef `json:"chapter,omitempty"`
}

func bookmarkView(b *types.Bookmark) *BookmarkView {
	return &BookmarkView{Bookmark: b, Course: courseRef(b.Course), Chapter: chapterRef(b.Chapter)}
}

type BookmarkService interface {
	Create(ctx context.Context, in BookmarkInput) (*BookmarkView, error)
	List(ctx context.Context, courseID *uuid.UUID) ([]*BookmarkView, error)
	Delete(ctx context.Context, bookmarkID uuid.UUID) error
}

type bookmarkService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	chapterRepo  repos.ChapterRepo
	bookmarkRepo repos.BookmarkRepo
}

func NewBookmarkService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, chapterRepo repos.ChapterRepo, bookmarkRepo repos.BookmarkRepo) BookmarkService {
	return &bookmarkService{
		db:           db,
		log:          log.With("service", "BookmarkService"),
		courseRepo:   courseRepo,
		chapterRepo:  chapterRepo,
		bookmarkRepo: bookmarkRepo,
	}
}

// resolveCourseChapter checks the course exists and, when given, that the chapter belongs to it.
func resolveCourseChapter(dbc dbctx.Context, courseRepo repos.CourseRepo, chapterRepo repos.ChapterRepo, courseID uuid.UUID, chapterID *uuid.UUID) (*types.Course, *types.Chapter, error) {
	c, err := courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, nil, apierr.NotFound(courseNotFound)
	}
	if chapterID == nil {
		return c, nil, nil
	}
	ch, err := chapterRepo.GetInCourse(dbc, courseID, *chapterID)
	if err != nil {
		return nil, nil, fmt.Errorf("load chapter: %w", err)
	}
	if ch == nil {
		return nil, nil, apierr.NotFound(chapterNotFound)
	}
	return c, ch, nil
}

func (s *bookmarkService) Create(ctx context.Context, in BookmarkInput) (*BookmarkView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if in.CourseID == uuid.Nil {
		return nil, apierr.Validation(apierr.FieldError{Field: "course_id", Message: "Please provide a course"})
	}

	var out *BookmarkView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		c, ch, err := resolveCourseChapter(inner, s.courseRepo, s.chapterRepo, in.CourseID, in.ChapterID)
		if err != nil {
			return err
		}
		b := &types.Bookmark{
			UserID:    p.UserID,
			CourseID:  in.CourseID,
			ChapterID: in.ChapterID,
			Note:      strings.TrimSpace(in.Note),
		}
		if _, err := s.bookmarkRepo.Create(inner, []*types.Bookmark{b}); err != nil {
			if db.IsUniqueViolation(err) {
				return apierr.Conflict(alreadyBookmarked).Wrap(err)
			}
			return fmt.Errorf("create bookmark: %w", err)
		}
		b.Course, b.Chapter = c, ch
		out = bookmarkView(b)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *bookmarkService) List(ctx context.Context, courseID *uuid.UUID) ([]*BookmarkView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.bookmarkRepo.ListByUser(dbctx.Context{Ctx: ctx}, p.UserID, courseID)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	out := make([]*BookmarkView, 0, len(rows))
	for _, b := range rows {
		out = append(out, bookmarkView(b))
	}
	return out, nil
}

func (s *bookmarkService) Delete(ctx context.Context, bookmarkID uuid.UUID) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	n, err := s.bookmarkRepo.FullDeleteForUser(dbctx.Context{Ctx: ctx}, p.UserID, bookmarkID)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n == 0 {
		return apierr.NotFound(bookmarkNotFound)
	}
	return nil
}
