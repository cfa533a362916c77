package course

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestSortColumn(t *testing.T) {
	cases := map[string]string{
		"":          "created_at",
		"price":     "price",
		"Title":     "title",
		"createdAt": "created_at",
		"updatedAt": "updated_at",
		"password":  "created_at",
		"id; drop":  "created_at",
	}
	for in, want := range cases {
		if got := SortColumn(in); got != want {
			t.Fatalf("SortColumn(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	if got := LikePattern("50%_Off"); got != `%50\%\_off%` {
		t.Fatalf("LikePattern: got=%q", got)
	}
}

func TestCourseRepoListFilters(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	log := testutil.Logger(t)
	repo := NewCourseRepo(gdb, log)
	tags := NewCourseTagRepo(gdb, log)

	creator := testutil.SeedUser(t, tx, "creator@example.com", types.RoleCreator)
	other := testutil.SeedUser(t, tx, "other@example.com", types.RoleCreator)

	goCourse := testutil.SeedCourse(t, tx, creator.ID, func(c *types.Course) {
		c.Title = "Go Concurrency"
		c.Description = "Channels and goroutines"
		c.Price = 100
	})
	sqlCourse := testutil.SeedCourse(t, tx, creator.ID, func(c *types.Course) {
		c.Title = "SQL Basics"
		c.Description = "Relational thinking"
		c.Category = "data"
		c.Price = 20
	})
	draft := testutil.SeedCourse(t, tx, other.ID, func(c *types.Course) {
		c.Title = "Unreleased Go"
		c.Status = types.CourseStatusDraft
		c.Price = 50
	})

	if err := tags.ReplaceForCourse(dbc, goCourse.ID, []string{"go", "backend", "go"}); err != nil {
		t.Fatalf("ReplaceForCourse(go): %v", err)
	}
	if err := tags.ReplaceForCourse(dbc, sqlCourse.ID, []string{"backend"}); err != nil {
		t.Fatalf("ReplaceForCourse(sql): %v", err)
	}

	rows, total, err := repo.List(dbc, CourseFilter{Tags: []string{"go", "backend"}})
	if err != nil {
		t.Fatalf("List(tags): %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != goCourse.ID {
		t.Fatalf("List(tags): expected only go course, total=%d rows=%d", total, len(rows))
	}
	if rows[0].Creator == nil || rows[0].Creator.ID != creator.ID {
		t.Fatalf("List(tags): creator not preloaded")
	}

	rows, total, err = repo.List(dbc, CourseFilter{Search: "GO"})
	if err != nil || total != 2 || len(rows) != 2 {
		t.Fatalf("List(search): err=%v total=%d", err, total)
	}

	rows, _, err = repo.List(dbc, CourseFilter{Status: types.CourseStatusPublished, SortBy: "price"})
	if err != nil || len(rows) != 2 {
		t.Fatalf("List(published): err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != goCourse.ID || rows[1].ID != sqlCourse.ID {
		t.Fatalf("List(price desc): unexpected order")
	}

	rows, total, err = repo.List(dbc, CourseFilter{Category: "data"})
	if err != nil || total != 1 || rows[0].ID != sqlCourse.ID {
		t.Fatalf("List(category): err=%v total=%d", err, total)
	}

	rows, total, err = repo.List(dbc, CourseFilter{CreatorID: &other.ID})
	if err != nil || total != 1 || rows[0].ID != draft.ID {
		t.Fatalf("List(creator): err=%v total=%d", err, total)
	}

	rows, total, err = repo.List(dbc, CourseFilter{Offset: 1, Limit: 1})
	if err != nil || total != 3 || len(rows) != 1 {
		t.Fatalf("List(page): err=%v total=%d len=%d", err, total, len(rows))
	}

	got, err := tags.GetByCourseIDs(dbc, []uuid.UUID{goCourse.ID})
	if err != nil || len(got) != 2 || got[0].Tag != "go" || got[1].Tag != "backend" {
		t.Fatalf("GetByCourseIDs: err=%v rows=%v", err, got)
	}
}

func TestCourseRepoUpdateTouchDelete(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewCourseRepo(gdb, testutil.Logger(t))

	creator := testutil.SeedUser(t, tx, "creator@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, tx, creator.ID)

	if err := repo.UpdateFields(dbc, c.ID, map[string]interface{}{"title": "Renamed", "price": 9.5}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	old := time.Now().UTC().Add(-time.Hour)
	if err := tx.Model(&types.Course{}).Where("id = ?", c.ID).UpdateColumn("updated_at", old).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if err := repo.Touch(dbc, c.ID); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	got, err := repo.GetByIDWithCreator(dbc, c.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByIDWithCreator: err=%v", err)
	}
	if got.Title != "Renamed" || got.Price != 9.5 {
		t.Fatalf("UpdateFields: got title=%q price=%v", got.Title, got.Price)
	}
	if !got.UpdatedAt.After(old) {
		t.Fatalf("Touch: updated_at not bumped")
	}
	if got.Creator == nil || got.Creator.Email != "creator@example.com" {
		t.Fatalf("GetByIDWithCreator: creator missing")
	}

	n, err := repo.FullDeleteByIDs(dbc, []uuid.UUID{c.ID})
	if err != nil || n != 1 {
		t.Fatalf("FullDeleteByIDs: err=%v n=%d", err, n)
	}
	n, err = repo.FullDeleteByIDs(dbc, []uuid.UUID{c.ID})
	if err != nil || n != 0 {
		t.Fatalf("FullDeleteByIDs again: err=%v n=%d", err, n)
	}
	if missing, err := repo.GetByID(dbc, c.ID); err != nil || missing != nil {
		t.Fatalf("GetByID after delete: err=%v got=%v", err, missing)
	}
}

func TestChapterRepoOrderingAndScope(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewChapterRepo(gdb, testutil.Logger(t))

	creator := testutil.SeedUser(t, tx, "creator@example.com", types.RoleCreator)
	c := testutil.SeedCourse(t, tx, creator.ID)
	otherCourse := testutil.SeedCourse(t, tx, creator.ID)

	third := testutil.SeedChapter(t, tx, c.ID, 3)
	first := testutil.SeedChapter(t, tx, c.ID, 1)
	second := testutil.SeedChapter(t, tx, c.ID, 2)
	testutil.SeedChapter(t, tx, otherCourse.ID, 0)

	list, err := repo.ListByCourse(dbc, c.ID)
	if err != nil || len(list) != 3 {
		t.Fatalf("ListByCourse: err=%v len=%d", err, len(list))
	}
	if list[0].ID != first.ID || list[1].ID != second.ID || list[2].ID != third.ID {
		t.Fatalf("ListByCourse: not ordered by order")
	}

	head, err := repo.FirstByCourse(dbc, c.ID)
	if err != nil || head == nil || head.ID != first.ID {
		t.Fatalf("FirstByCourse: err=%v got=%v", err, head)
	}

	counts, err := repo.CountByCourseIDs(dbc, []uuid.UUID{c.ID, otherCourse.ID})
	if err != nil || counts[c.ID] != 3 || counts[otherCourse.ID] != 1 {
		t.Fatalf("CountByCourseIDs: err=%v counts=%v", err, counts)
	}

	if got, err := repo.GetInCourse(dbc, otherCourse.ID, first.ID); err != nil || got != nil {
		t.Fatalf("GetInCourse(wrong course): err=%v got=%v", err, got)
	}

	n, err := repo.UpdateFieldsInCourse(dbc, otherCourse.ID, first.ID, map[string]interface{}{"title": "nope"})
	if err != nil || n != 0 {
		t.Fatalf("UpdateFieldsInCourse(wrong course): err=%v n=%d", err, n)
	}
	n, err = repo.UpdateFieldsInCourse(dbc, c.ID, first.ID, map[string]interface{}{"order": 10})
	if err != nil || n != 1 {
		t.Fatalf("UpdateFieldsInCourse: err=%v n=%d", err, n)
	}
	head, err = repo.FirstByCourse(dbc, c.ID)
	if err != nil || head == nil || head.ID != second.ID {
		t.Fatalf("FirstByCourse after reorder: err=%v", err)
	}

	n, err = repo.FullDeleteInCourse(dbc, c.ID, third.ID)
	if err != nil || n != 1 {
		t.Fatalf("FullDeleteInCourse: err=%v n=%d", err, n)
	}
	n, err = repo.FullDeleteInCourse(dbc, c.ID, third.ID)
	if err != nil || n != 0 {
		t.Fatalf("FullDeleteInCourse again: err=%v n=%d", err, n)
	}
}
