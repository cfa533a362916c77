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
)

const (
	noteNotFound          = "Note not found"
	NoteDeletedMessage    = "Note deleted successfully"
	noteContentRequired   = "Note content is required"
	noteTimestampNegative = "Timestamp must be a non-negative number"
)

type NoteInput struct {
	CourseID  uuid.UUID
	ChapterID *uuid.UUID
	Content   string
	Timestamp *float64
}

type NoteUpdate struct {
	Content   *string
	Timestamp *float64
}

type NoteView struct {
	*types.Note
	Course  *CourseRef  `json:"course,omitempty"`
	Chapter *ChapterRef `json:"chapter,omitempty"`
}

func noteView(n *types.Note) *NoteView {
	return &NoteView{Note: n, Course: courseRef(n.Course), Chapter: chapterRef(n.Chapter)}
}

type NoteService interface {
	Create(ctx context.Context, in NoteInput) (*NoteView, error)
	List(ctx context.Context, courseID, chapterID *uuid.UUID) ([]*NoteView, error)
	ListForChapter(ctx context.Context, chapterID uuid.UUID) ([]*NoteView, error)
	Search(ctx context.Context, query string) ([]*NoteView, error)
	Update(ctx context.Context, noteID uuid.UUID, in NoteUpdate) (*NoteView, error)
	Delete(ctx context.Context, noteID uuid.UUID) error
}

type noteService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	chapterRepo repos.ChapterRepo
	noteRepo    repos.NoteRepo
}

func NewNoteService(db *gorm.DB, log *logger.Logger, courseRepo repos.CourseRepo, chapterRepo repos.ChapterRepo, noteRepo repos.NoteRepo) NoteService {
	return &noteService{
		db:          db,
		log:         log.With("service", "NoteService"),
		courseRepo:  courseRepo,
		chapterRepo: chapterRepo,
		noteRepo:    noteRepo,
	}
}

func (s *noteService) Create(ctx context.Context, in NoteInput) (*NoteView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	in.Content = strings.TrimSpace(in.Content)
	var checks fieldChecks
	if in.CourseID == uuid.Nil {
		checks.add("course_id", "Please provide a course")
	}
	checks.required("content", in.Content, noteContentRequired)
	if in.Timestamp != nil && !nonNegative(*in.Timestamp) {
		checks.add("timestamp", noteTimestampNegative)
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	var out *NoteView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		c, ch, err := resolveCourseChapter(inner, s.courseRepo, s.chapterRepo, in.CourseID, in.ChapterID)
		if err != nil {
			return err
		}
		n := &types.Note{
			UserID:    p.UserID,
			CourseID:  in.CourseID,
			ChapterID: in.ChapterID,
			Content:   in.Content,
			Timestamp: in.Timestamp,
		}
		if _, err := s.noteRepo.Create(inner, []*types.Note{n}); err != nil {
			return fmt.Errorf("create note: %w", err)
		}
		n.Course, n.Chapter = c, ch
		out = noteView(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *noteService) list(ctx context.Context, filter repos.NoteFilter) ([]*NoteView, error) {
	rows, err := s.noteRepo.List(dbctx.Context{Ctx: ctx}, filter)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	out := make([]*NoteView, 0, len(rows))
	for _, n := range rows {
		out = append(out, noteView(n))
	}
	return out, nil
}

func (s *noteService) List(ctx context.Context, courseID, chapterID *uuid.UUID) ([]*NoteView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repos.NoteFilter{UserID: p.UserID, CourseID: courseID, ChapterID: chapterID})
}

func (s *noteService) ListForChapter(ctx context.Context, chapterID uuid.UUID) ([]*NoteView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	ch, err := s.chapterRepo.GetByID(dbctx.Context{Ctx: ctx}, chapterID)
	if err != nil {
		return nil, fmt.Errorf("load chapter: %w", err)
	}
	if ch == nil {
		return nil, apierr.NotFound(chapterNotFound)
	}
	return s.list(ctx, repos.NoteFilter{UserID: p.UserID, ChapterID: &ch.ID, ByTimestamp: true})
}

func (s *noteService) Search(ctx context.Context, query string) ([]*NoteView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, repos.NoteFilter{UserID: p.UserID, Query: query})
}

func (s *noteService) Update(ctx context.Context, noteID uuid.UUID, in NoteUpdate) (*NoteView, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	var checks fieldChecks
	if in.Content != nil {
		if checks.required("content", *in.Content, noteContentRequired) {
			updates["content"] = strings.TrimSpace(*in.Content)
		}
	}
	if in.Timestamp != nil {
		if !nonNegative(*in.Timestamp) {
			checks.add("timestamp", noteTimestampNegative)
		}
		updates["timestamp"] = *in.Timestamp
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	var out *NoteView
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		n, err := s.noteRepo.GetForUser(inner, p.UserID, noteID)
		if err != nil {
			return fmt.Errorf("load note: %w", err)
		}
		if n == nil {
			return apierr.NotFound(noteNotFound)
		}
		if len(updates) > 0 {
			if _, err := s.noteRepo.UpdateFieldsForUser(inner, p.UserID, noteID, updates); err != nil {
				return fmt.Errorf("update note: %w", err)
			}
			if n, err = s.noteRepo.GetForUser(inner, p.UserID, noteID); err != nil {
				return fmt.Errorf("reload note: %w", err)
			}
			if n == nil {
				return apierr.NotFound(noteNotFound)
			}
		}
		out = noteView(n)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *noteService) Delete(ctx context.Context, noteID uuid.UUID) error {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return err
	}
	n, err := s.noteRepo.FullDeleteForUser(dbctx.Context{Ctx: ctx}, p.UserID, noteID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if n == 0 {
		return apierr.NotFound(noteNotFound)
	}
	return nil
}
