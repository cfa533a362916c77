package services

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
	"github.com/yungbote/coursehub-backend/internal/platform/uploads"
)

func TestParseTags(t *testing.T) {
	cases := map[string][]string{
		"":                        {},
		`["go","web"]`:            {"go", "web"},
		`"[\"go\",\"web\"]"`:      {"go", "web"},
		"go, web ,,api":           {"go", "web", "api"},
		`[" go ", "", "go"]`:      {"go"},
		"not [json":               {"not [json"},
		`["unterminated", "list"`: {`["unterminated"`, `"list"`},
	}
	for raw, want := range cases {
		got := ParseTags(raw)
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseTags(%q): want=%q got=%q", raw, want, got)
		}
	}
}

func newTestCourses(env *testEnv, bucket *fakeBucket) CourseService {
	media := NewMediaService(env.log, bucket, uploads.LoadPolicy(nil))
	return NewCourseService(env.db, env.log, env.courseRepo, env.tagRepo, env.chapterRepo, env.enrollmentRepo, media)
}

func ptr[T any](v T) *T { return &v }

func TestCourseCreateRequiresCreator(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestCourses(env, newFakeBucket())
	member := testutil.SeedUser(t, env.db, "member@example.com", types.RoleMember)

	_, err := svc.Create(asUser(member), CourseInput{Title: "T", Description: "D", Category: "c"}, nil)
	requireAPIError(t, err, http.StatusForbidden, "Not authorized to create courses")
}

func TestCourseCreateWithThumbnail(t *testing.T) {
	env := newTestEnv(t)
	bucket := newFakeBucket()
	svc := newTestCourses(env, bucket)
	creator := testutil.SeedUser(t, env.db, "creator@example.com", types.RoleCreator)

	view, err := svc.Create(asUser(creator), CourseInput{
		Title:       "  Rust for Gophers ",
		Description: "Ownership without tears",
		Price:       ptr(25.0),
		Category:    "programming",
		Tags:        []string{"rust", "go"},
	}, pngUpload())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if view.Title != "Rust for Gophers" || view.Status != types.CourseStatusDraft || view.EnrolledCount != 0 {
		t.Fatalf("created course: %+v", view.Course)
	}
	if !reflect.DeepEqual(view.Tags, []string{"rust", "go"}) {
		t.Fatalf("tags: %q", view.Tags)
	}
	if !strings.HasPrefix(view.Thumbnail, "https://cdn.test/coursehub/thumbnails/") || !strings.HasSuffix(view.Thumbnail, ".png") {
		t.Fatalf("thumbnail url: %s", view.Thumbnail)
	}
	if len(bucket.objects) != 1 {
		t.Fatalf("stored objects: want=1 got=%d", len(bucket.objects))
	}
}

func TestCourseCreateRejectsInvalidInput(t *testing.T) {
	env := newTestEnv(t)
	bucket := newFakeBucket()
	svc := newTestCourses(env, bucket)
	creator := testutil.SeedUser(t, env.db, "creator@example.com", types.RoleCreator)

	_, err := svc.Create(asUser(creator), CourseInput{Title: strings.Repeat("x", 101), Price: ptr(-1.0)}, pngUpload())
	requireAPIError(t, err, http.StatusBadRequest, "Validation failed")
	if len(bucket.objects) != 0 {
		t.Fatalf("thumbnail should not be stored for invalid input")
	}
}

func TestCourseUpdateByNonOwnerLeavesRow(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestCourses(env, newFakeBucket())
	owner := testutil.SeedUser(t, env.db, "owner@example.com", types.RoleCreator)
	intruder := testutil.SeedUser(t, env.db, "intruder@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, env.db, owner.ID)

	_, err := svc.Update(asUser(intruder), c.ID, CourseUpdate{Title: ptr("Hijacked")}, nil)
	requireAPIError(t, err, http.StatusForbidden, "Not authorized to update this course")

	stored, err := env.courseRepo.GetByID(dbctx.Context{Ctx: asUser(owner)}, c.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Title != "Go Fundamentals" {
		t.Fatalf("title changed by non-owner: %s", stored.Title)
	}

	view, err := svc.Update(asUser(owner), c.ID, CourseUpdate{Title: ptr("Go Deep Dive"), Description: ptr("  "), Tags: []string{"go"}}, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if view.Title != "Go Deep Dive" || view.Description != "Learn Go from scratch" {
		t.Fatalf("updated course: %+v", view.Course)
	}
	if !reflect.DeepEqual(view.Tags, []string{"go"}) {
		t.Fatalf("tags: %q", view.Tags)
	}

	_, err = svc.Update(asUser(owner), uuid.New(), CourseUpdate{Title: ptr("x")}, nil)
	requireAPIError(t, err, http.StatusNotFound, courseNotFound)
}

func TestCourseUpdateDiscardsThumbnailOnFailure(t *testing.T) {
	env := newTestEnv(t)
	bucket := newFakeBucket()
	svc := newTestCourses(env, bucket)
	owner := testutil.SeedUser(t, env.db, "owner@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, env.db, owner.ID)

	_, err := svc.Update(asUser(owner), c.ID, CourseUpdate{Status: ptr("archived")}, pngUpload())
	requireAPIError(t, err, http.StatusBadRequest, "Status must be draft or published")
	if len(bucket.objects) != 0 {
		t.Fatalf("thumbnail should not be stored when validation fails")
	}
}

func TestCourseDeleteTwice(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestCourses(env, newFakeBucket())
	owner := testutil.SeedUser(t, env.db, "owner@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, env.db, owner.ID)
	ctx := asUser(owner)

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	err := svc.Delete(ctx, c.ID)
	requireAPIError(t, err, http.StatusNotFound, courseNotFound)

	_, err = svc.Get(ctx, c.ID)
	requireAPIError(t, err, http.StatusNotFound, courseNotFound)
}

func TestCourseListAndDetail(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestCourses(env, newFakeBucket())
	owner := testutil.SeedUser(t, env.db, "owner@example.com", types.RoleCreator)
	member := testutil.SeedUser(t, env.db, "member@example.com", types.RoleMember)
	c := testutil.SeedCourse(t, env.db, owner.ID)
	testutil.SeedCourse(t, env.db, owner.ID, func(c *types.Course) {
		c.Title = "Drafty"
		c.Status = types.CourseStatusDraft
	})
	testutil.SeedChapter(t, env.db, c.ID, 2)
	first := testutil.SeedChapter(t, env.db, c.ID, 1)
	testutil.SeedEnrollment(t, env.db, member.ID, c.ID, 0, c.CreatedAt)

	page, err := svc.List(asUser(member), CourseListParams{Status: "published"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 1 || page.Courses[0].ID != c.ID || page.Courses[0].EnrolledCount != 1 {
		t.Fatalf("published page: %+v", page)
	}

	_, err = svc.List(asUser(member), CourseListParams{Status: "bogus"})
	requireAPIError(t, err, http.StatusBadRequest, "Status must be draft or published")

	detail, err := svc.Get(asUser(member), c.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(detail.Chapters) != 2 || detail.Chapters[0].ID != first.ID {
		t.Fatalf("chapters should be ordered: %+v", detail.Chapters)
	}
	if detail.Creator == nil || detail.Creator.ID != owner.ID {
		t.Fatalf("creator summary: %+v", detail.Creator)
	}

	preview, err := svc.Preview(asUser(member), c.ID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.TotalChapters != 2 || preview.PreviewChapter == nil || preview.PreviewChapter.ID != first.ID {
		t.Fatalf("preview: %+v", preview)
	}

	mine, err := svc.ListByCreator(asUser(owner))
	if err != nil {
		t.Fatalf("ListByCreator: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("creator courses: want=2 got=%d", len(mine))
	}
}

func TestCoursePreviewUnpublished(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestCourses(env, newFakeBucket())
	owner := testutil.SeedUser(t, env.db, "owner@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, env.db, owner.ID, func(c *types.Course) { c.Status = types.CourseStatusDraft })

	_, err := svc.Preview(asUser(owner), c.ID)
	requireAPIError(t, err, http.StatusForbidden, coursePreviewNotAllowed)
}

func TestMediaStoreRejectsWrongType(t *testing.T) {
	env := newTestEnv(t)
	bucket := newFakeBucket()
	media := NewMediaService(env.log, bucket, uploads.LoadPolicy(nil))
	body := "just some text, not an image"

	_, err := media.Store(asUser(&types.User{ID: uuid.New()}), uploads.KindThumbnail, &UploadInput{
		Filename: "cover.png",
		Size:     int64(len(body)),
		Body:     strings.NewReader(body),
	}, thumbnailUploadFailed)
	requireAPIError(t, err, http.StatusBadRequest, "")
	var invalid *uploads.InvalidTypeError
	if !errors.As(err, &invalid) {
		t.Fatalf("want InvalidTypeError in chain, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "Invalid file type") {
		t.Fatalf("message: %s", err.Error())
	}
	if len(bucket.objects) != 0 {
		t.Fatalf("rejected upload reached the bucket")
	}
}

func TestMediaStoreUpstreamFailure(t *testing.T) {
	env := newTestEnv(t)
	bucket := newFakeBucket()
	bucket.failErr = errors.New("bucket offline")
	media := NewMediaService(env.log, bucket, uploads.LoadPolicy(nil))

	_, err := media.Store(asUser(&types.User{ID: uuid.New()}), uploads.KindThumbnail, pngUpload(), thumbnailUploadFailed)
	requireAPIError(t, err, http.StatusInternalServerError, thumbnailUploadFailed)
}
