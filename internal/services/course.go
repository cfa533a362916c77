package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/domain/course"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/platform/uploads"
)

const (
	courseNotFound          = "Course not found"
	thumbnailUploadFailed   = "Error uploading thumbnail"
	maxCourseTitleLen       = 100
	CourseDeletedMessage    = "Course deleted successfully"
	coursePreviewNotAllowed = "Course preview not available"
)

type CourseInput struct {
	Title       string
	Description string
	Price       *float64
	Category    string
	Tags        []string
	Status      string
}

// CourseUpdate carries only the fields the caller sent; nil or blank keeps the stored value.
type CourseUpdate struct {
	Title       *string
	Description *string
	Price       *float64
	Category    *string
	Tags        []string
	Status      *string
}

type CourseListParams struct {
	Page     Page
	Category string
	Status   string
	Search   string
	Tags     []string
	SortBy   string
}

type CoursePreview struct {
	ID            uuid.UUID          `json:"id"`
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Thumbnail     string             `json:"thumbnail,omitempty"`
	Price         float64            `json:"price"`
	Category      string             `json:"category"`
	Tags          []string           `json:"tags"`
	Status        types.CourseStatus `json:"status"`
	Creator       *PreviewCreator    `json:"creator,omitempty"`
	TotalChapters int64              `json:"total_chapters"`
	// PreviewChapter is the first chapter by order, or null when the course has none.
	PreviewChapter *types.Chapter `json:"preview_chapter"`
}

type PreviewCreator struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type CourseService interface {
	Create(ctx context.Context, in CourseInput, thumbnail *UploadInput) (*CourseView, error)
	List(ctx context.Context, params CourseListParams) (*CoursePage, error)
	Get(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error)
	ListByCreator(ctx context.Context) ([]*CourseView, error)
	Update(ctx context.Context, courseID uuid.UUID, in CourseUpdate, thumbnail *UploadInput) (*CourseView, error)
	Delete(ctx context.Context, courseID uuid.UUID) error
	UpdateStatus(ctx context.Context, courseID uuid.UUID, status string) (*CourseView, error)
	Preview(ctx context.Context, courseID uuid.UUID) (*CoursePreview, error)
}

type courseService struct {
	db          *gorm.DB
	log         *logger.Logger
	courseRepo  repos.CourseRepo
	tagRepo     repos.CourseTagRepo
	chapterRepo repos.ChapterRepo
	media       MediaService
	hydrate     courseHydrator
}

func NewCourseService(
	db *gorm.DB,
	log *logger.Logger,
	courseRepo repos.CourseRepo,
	tagRepo repos.CourseTagRepo,
	chapterRepo repos.ChapterRepo,
	enrollmentRepo repos.EnrollmentRepo,
	media MediaService,
) CourseService {
	return &courseService{
		db:          db,
		log:         log.With("service", "CourseService"),
		courseRepo:  courseRepo,
		tagRepo:     tagRepo,
		chapterRepo: chapterRepo,
		media:       media,
		hydrate:     courseHydrator{tagRepo: tagRepo, enrollmentRepo: enrollmentRepo},
	}
}

// ParseTags accepts a JSON array, a JSON-encoded array inside a string, or a comma list.
func ParseTags(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}
	}
	if strings.HasPrefix(raw, "[") {
		var arr []string
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return types.NormalizeCourseTags(arr)
		}
	}
	if strings.HasPrefix(raw, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(raw), &inner); err == nil {
			return ParseTags(inner)
		}
	}
	return types.NormalizeCourseTags(strings.Split(raw, ","))
}

func validateCourseInput(in *CourseInput) error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	var checks fieldChecks
	if checks.required("title", in.Title, "Please add a title") {
		checks.maxLen("title", in.Title, maxCourseTitleLen, "Title cannot be more than 100 characters")
	}
	checks.required("description", in.Description, "Please add a description")
	checks.required("category", in.Category, "Please add a category")
	if in.Price != nil && !nonNegative(*in.Price) {
		checks.add("price", "Price must be a non-negative number")
	}
	if in.Status != "" {
		if _, err := course.ParseStatus(in.Status); err != nil {
			checks.add("status", "Status must be draft or published")
		}
	}
	return checks.err()
}

func (cs *courseService) Create(ctx context.Context, in CourseInput, thumbnail *UploadInput) (*CourseView, error) {
	p, err := requireCreator(ctx, "Not authorized to create courses")
	if err != nil {
		return nil, err
	}
	if err := validateCourseInput(&in); err != nil {
		return nil, err
	}

	c := &types.Course{
		CreatorID:   p.UserID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Status:      types.CourseStatusDraft,
	}
	if in.Price != nil {
		c.Price = *in.Price
	}
	if in.Status != "" {
		c.Status, _ = course.ParseStatus(in.Status)
	}

	var stored *StoredMedia
	if thumbnail != nil {
		stored, err = cs.media.Store(ctx, uploads.KindThumbnail, thumbnail, thumbnailUploadFailed)
		if err != nil {
			return nil, err
		}
		c.Thumbnail = stored.URL
	}

	var view *CourseView
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := cs.courseRepo.Create(inner, []*types.Course{c}); err != nil {
			return fmt.Errorf("create course: %w", err)
		}
		if err := cs.tagRepo.ReplaceForCourse(inner, c.ID, in.Tags); err != nil {
			return fmt.Errorf("store course tags: %w", err)
		}
		v, err := cs.hydrate.view(inner, c)
		if err != nil {
			return err
		}
		view = v
		return nil
	})
	if err != nil {
		cs.media.Discard(ctx, stored)
		return nil, err
	}
	cs.log.Info("course created", "course_id", c.ID, "creator_id", p.UserID)
	return view, nil
}

func (cs *courseService) List(ctx context.Context, params CourseListParams) (*CoursePage, error) {
	page := params.Page.normalize()
	filter := repos.CourseFilter{
		Category: params.Category,
		Search:   params.Search,
		Tags:     params.Tags,
		SortBy:   params.SortBy,
		Offset:   page.offset(),
		Limit:    page.Size,
	}
	if s := strings.TrimSpace(params.Status); s != "" {
		st, err := course.ParseStatus(s)
		if err != nil {
			return nil, apierr.Validation(apierr.FieldError{Field: "status", Message: "Status must be draft or published"})
		}
		filter.Status = st
	}

	dbc := dbctx.Context{Ctx: ctx}
	rows, total, err := cs.courseRepo.List(dbc, filter)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	views, err := cs.hydrate.views(dbc, rows)
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

func (cs *courseService) Get(ctx context.Context, courseID uuid.UUID) (*CourseDetail, error) {
	dbc := dbctx.Context{Ctx: ctx}
	c, err := cs.courseRepo.GetByIDWithCreator(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound(courseNotFound)
	}
	view, err := cs.hydrate.view(dbc, c)
	if err != nil {
		return nil, err
	}
	chapters, err := cs.chapterRepo.ListByCourse(dbc, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}
	return &CourseDetail{CourseView: *view, Chapters: chapters}, nil
}

func (cs *courseService) ListByCreator(ctx context.Context) ([]*CourseView, error) {
	p, err := requireCreator(ctx, notAuthorizedMessage)
	if err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	rows, err := cs.courseRepo.ListByCreator(dbc, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("list creator courses: %w", err)
	}
	return cs.hydrate.views(dbc, rows)
}

// loadOwned returns the course when the caller owns it: 404 when absent, 403 otherwise.
func (cs *courseService) loadOwned(dbc dbctx.Context, courseID, userID uuid.UUID, forbidden string) (*types.Course, error) {
	c, err := cs.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound(courseNotFound)
	}
	if !c.OwnedBy(userID) {
		return nil, apierr.Forbidden(forbidden)
	}
	return c, nil
}

func (cs *courseService) Update(ctx context.Context, courseID uuid.UUID, in CourseUpdate, thumbnail *UploadInput) (*CourseView, error) {
	p, err := requireCreator(ctx, "Not authorized to update courses")
	if err != nil {
		return nil, err
	}
	if _, err := cs.loadOwned(dbctx.Context{Ctx: ctx}, courseID, p.UserID, "Not authorized to update this course"); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	var checks fieldChecks
	if v, ok := trimmedPtr(in.Title); ok {
		checks.maxLen("title", v, maxCourseTitleLen, "Title cannot be more than 100 characters")
		updates["title"] = v
	}
	if v, ok := trimmedPtr(in.Description); ok {
		updates["description"] = v
	}
	if v, ok := trimmedPtr(in.Category); ok {
		updates["category"] = v
	}
	if in.Price != nil {
		if !nonNegative(*in.Price) {
			checks.add("price", "Price must be a non-negative number")
		}
		updates["price"] = *in.Price
	}
	if v, ok := trimmedPtr(in.Status); ok {
		st, err := course.ParseStatus(v)
		if err != nil {
			checks.add("status", "Status must be draft or published")
		}
		updates["status"] = st
	}
	if err := checks.err(); err != nil {
		return nil, err
	}

	var stored *StoredMedia
	if thumbnail != nil {
		stored, err = cs.media.Store(ctx, uploads.KindThumbnail, thumbnail, thumbnailUploadFailed)
		if err != nil {
			return nil, err
		}
		updates["thumbnail"] = stored.URL
	}

	var view *CourseView
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if err := cs.courseRepo.UpdateFields(inner, courseID, updates); err != nil {
			return fmt.Errorf("update course: %w", err)
		}
		if in.Tags != nil {
			if err := cs.tagRepo.ReplaceForCourse(inner, courseID, in.Tags); err != nil {
				return fmt.Errorf("store course tags: %w", err)
			}
			if len(updates) == 0 {
				if err := cs.courseRepo.Touch(inner, courseID); err != nil {
					return fmt.Errorf("touch course: %w", err)
				}
			}
		}
		c, err := cs.courseRepo.GetByID(inner, courseID)
		if err != nil {
			return fmt.Errorf("reload course: %w", err)
		}
		if c == nil {
			return apierr.NotFound(courseNotFound)
		}
		view, err = cs.hydrate.view(inner, c)
		return err
	})
	if err != nil {
		cs.media.Discard(ctx, stored)
		return nil, err
	}
	return view, nil
}

func (cs *courseService) Delete(ctx context.Context, courseID uuid.UUID) error {
	p, err := requireCreator(ctx, "Not authorized to delete courses")
	if err != nil {
		return err
	}
	return cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := cs.loadOwned(inner, courseID, p.UserID, "Not authorized to delete this course"); err != nil {
			return err
		}
		if err := cs.tagRepo.FullDeleteByCourseIDs(inner, []uuid.UUID{courseID}); err != nil {
			return fmt.Errorf("delete course tags: %w", err)
		}
		n, err := cs.courseRepo.FullDeleteByIDs(inner, []uuid.UUID{courseID})
		if err != nil {
			return fmt.Errorf("delete course: %w", err)
		}
		if n == 0 {
			return apierr.NotFound(courseNotFound)
		}
		cs.log.Info("course deleted", "course_id", courseID, "creator_id", p.UserID)
		return nil
	})
}

func (cs *courseService) UpdateStatus(ctx context.Context, courseID uuid.UUID, status string) (*CourseView, error) {
	p, err := requireCreator(ctx, "Not authorized to update course status")
	if err != nil {
		return nil, err
	}
	st, err := course.ParseStatus(status)
	if err != nil {
		return nil, apierr.Validation(apierr.FieldError{Field: "status", Message: "Status must be draft or published"})
	}

	var view *CourseView
	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := dbctx.Context{Ctx: ctx, Tx: tx}
		c, err := cs.loadOwned(inner, courseID, p.UserID, "Not authorized to update this course")
		if err != nil {
			return err
		}
		if err := cs.courseRepo.UpdateFields(inner, courseID, map[string]interface{}{"status": st}); err != nil {
			return fmt.Errorf("update course status: %w", err)
		}
		c.Status = st
		view, err = cs.hydrate.view(inner, c)
		return err
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

func (cs *courseService) Preview(ctx context.Context, courseID uuid.UUID) (*CoursePreview, error) {
	dbc := dbctx.Context{Ctx: ctx}
	c, err := cs.courseRepo.GetByIDWithCreator(dbc, courseID)
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if c == nil {
		return nil, apierr.NotFound(courseNotFound)
	}
	if c.Status != types.CourseStatusPublished {
		return nil, apierr.Forbidden(coursePreviewNotAllowed)
	}

	view, err := cs.hydrate.view(dbc, c)
	if err != nil {
		return nil, err
	}
	counts, err := cs.chapterRepo.CountByCourseIDs(dbc, []uuid.UUID{c.ID})
	if err != nil {
		return nil, fmt.Errorf("count chapters: %w", err)
	}
	first, err := cs.chapterRepo.FirstByCourse(dbc, c.ID)
	if err != nil {
		return nil, fmt.Errorf("load first chapter: %w", err)
	}

	out := &CoursePreview{
		ID:             c.ID,
		Title:          c.Title,
		Description:    c.Description,
		Thumbnail:      c.Thumbnail,
		Price:          c.Price,
		Category:       c.Category,
		Tags:           view.Tags,
		Status:         c.Status,
		TotalChapters:  counts[c.ID],
		PreviewChapter: first,
	}
	if c.Creator != nil {
		out.Creator = &PreviewCreator{ID: c.Creator.ID, Name: c.Creator.Name}
	}
	return out, nil
}
