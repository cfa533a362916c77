package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
)

const notAuthorizedMessage = "Not authorized to access this route"

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Clock is injected where results depend on the current time.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func requirePrincipal(ctx context.Context) (types.Principal, error) {
	p, ok := ctxutil.GetPrincipal(ctx)
	if !ok || p.UserID == uuid.Nil {
		return types.Principal{}, apierr.Unauthorized(notAuthorizedMessage)
	}
	return p, nil
}

func requireCreator(ctx context.Context, message string) (types.Principal, error) {
	p, err := requirePrincipal(ctx)
	if err != nil {
		return p, err
	}
	if !p.IsCreator() {
		return p, apierr.Forbidden(message)
	}
	return p, nil
}

// Page is a 1-based page request.
type Page struct {
	Number int
	Size   int
}

func (p Page) normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = defaultPageSize
	}
	if p.Size > maxPageSize {
		p.Size = maxPageSize
	}
	return p
}

func (p Page) offset() int { return (p.Number - 1) * p.Size }

func pageCount(total int64, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(size)))
}

// CourseRef is the slim course projection embedded in engagement responses.
type CourseRef struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail,omitempty"`
}

func courseRef(c *types.Course) *CourseRef {
	if c == nil {
		return nil
	}
	return &CourseRef{ID: c.ID, Title: c.Title, Thumbnail: c.Thumbnail}
}

type ChapterRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

func chapterRef(ch *types.Chapter) *ChapterRef {
	if ch == nil {
		return nil
	}
	return &ChapterRef{ID: ch.ID, Title: ch.Title}
}

func trimmedPtr(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	v := strings.TrimSpace(*s)
	return v, v != ""
}
