package services

import (
	"math"
	"net/http"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestNonNegative(t *testing.T) {
	cases := []struct {
		v    float64
		want bool
	}{
		{0, true},
		{12.5, true},
		{-1, false},
		{math.NaN(), false},
		{math.Inf(1), false},
		{math.Inf(-1), false},
	}
	for _, tc := range cases {
		if got := nonNegative(tc.v); got != tc.want {
			t.Fatalf("nonNegative(%v): want=%v got=%v", tc.v, tc.want, got)
		}
	}
}

func requireFieldError(t *testing.T, err error, field string) {
	t.Helper()
	requireAPIError(t, err, http.StatusBadRequest, "")
	ae, _ := apierr.As(err)
	for _, f := range ae.Fields {
		if f.Field == field {
			return
		}
	}
	t.Fatalf("want field error on %q, got %+v", field, ae.Fields)
}

func TestNonFiniteNumbersRejected(t *testing.T) {
	env := newTestEnv(t)
	courses := newTestCourses(env, newFakeBucket())
	chapters := newTestChapters(env, newFakeBucket())
	notes := NewNoteService(env.db, env.log, env.courseRepo, env.chapterRepo, env.noteRepo)
	creator := testutil.SeedUser(t, env.db, "creator@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, env.db, creator.ID)
	ctx := asUser(creator)

	for _, v := range []float64{math.NaN(), math.Inf(1)} {
		_, err := courses.Create(ctx, CourseInput{Title: "Go", Description: "d", Category: "cs", Price: ptr(v)}, nil)
		requireFieldError(t, err, "price")

		_, err = courses.Update(ctx, c.ID, CourseUpdate{Price: ptr(v)}, nil)
		requireFieldError(t, err, "price")

		_, err = chapters.Create(ctx, c.ID, ChapterInput{Title: "Intro", Description: "d", Order: 1, Duration: ptr(v)}, nil)
		requireFieldError(t, err, "duration")

		_, err = notes.Create(ctx, NoteInput{CourseID: c.ID, Content: "x", Timestamp: ptr(v)})
		requireFieldError(t, err, "timestamp")
	}

	stored, err := env.courseRepo.GetByID(dbctx.Context{Ctx: ctx}, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Price != c.Price {
		t.Fatalf("price changed: want=%v got=%v", c.Price, stored.Price)
	}
}
