package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

// CourseView is a course with its derived read-time fields.
type CourseView struct {
	*types.Course
	Creator       *types.UserSummary `json:"creator,omitempty"`
	EnrolledCount int64              `json:"enrolled_count"`
}

type CourseDetail struct {
	CourseView
	Chapters []*types.Chapter `json:"chapters"`
}

// CoursePage is one page of a course listing.
type CoursePage struct {
	Courses     []*CourseView `json:"courses"`
	Total       int64         `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"current_page"`
}

// courseHydrator attaches tags, creator summaries and enrollment counts in batch.
type courseHydrator struct {
	tagRepo        repos.CourseTagRepo
	enrollmentRepo repos.EnrollmentRepo
}

func (h courseHydrator) views(dbc dbctx.Context, courses []*types.Course) ([]*CourseView, error) {
	out := make([]*CourseView, 0, len(courses))
	if len(courses) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}

	tagRows, err := h.tagRepo.GetByCourseIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("load course tags: %w", err)
	}
	tagsByCourse := make(map[uuid.UUID][]string, len(courses))
	for _, t := range tagRows {
		tagsByCourse[t.CourseID] = append(tagsByCourse[t.CourseID], t.Tag)
	}

	counts, err := h.enrollmentRepo.CountByCourseIDs(dbc, ids)
	if err != nil {
		return nil, fmt.Errorf("count enrollments: %w", err)
	}

	for _, c := range courses {
		c.Tags = tagsByCourse[c.ID]
		if c.Tags == nil {
			c.Tags = []string{}
		}
		v := &CourseView{Course: c, EnrolledCount: counts[c.ID]}
		if c.Creator != nil {
			s := c.Creator.Summary()
			v.Creator = &s
		}
		out = append(out, v)
	}
	return out, nil
}

func (h courseHydrator) view(dbc dbctx.Context, c *types.Course) (*CourseView, error) {
	vs, err := h.views(dbc, []*types.Course{c})
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}
