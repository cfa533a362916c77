package engagement

import (
	"context"
	"testing"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestBookmarkRepoUniqueness(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewBookmarkRepo(gdb, testutil.Logger(t))

	creator := testutil.SeedUser(t, tx, "creator@example.com", types.RoleCreator)
	learner := testutil.SeedUser(t, tx, "learner@example.com", types.RoleMember)
	c := testutil.SeedCourse(t, tx, creator.ID)
	ch := testutil.SeedChapter(t, tx, c.ID, 1)

	courseLevel, err := repo.Create(dbc, []*types.Bookmark{{UserID: learner.ID, CourseID: c.ID}})
	if err != nil {
		t.Fatalf("Create(course-level): %v", err)
	}
	if _, err := repo.Create(dbc, []*types.Bookmark{{UserID: learner.ID, CourseID: c.ID}}); !db.IsUniqueViolation(err) {
		t.Fatalf("Create(course-level duplicate): expected unique violation, got %v", err)
	}

	if _, err := repo.Create(dbc, []*types.Bookmark{{UserID: learner.ID, CourseID: c.ID, ChapterID: testutil.PtrUUID(ch.ID), Note: "revisit"}}); err != nil {
		t.Fatalf("Create(chapter): %v", err)
	}
	if _, err := repo.Create(dbc, []*types.Bookmark{{UserID: learner.ID, CourseID: c.ID, ChapterID: testutil.PtrUUID(ch.ID)}}); !db.IsUniqueViolation(err) {
		t.Fatalf("Create(chapter duplicate): expected unique violation, got %v", err)
	}

	list, err := repo.ListByUser(dbc, learner.ID, &c.ID)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(list))
	}
	for _, b := range list {
		if b.Course == nil {
			t.Fatalf("ListByUser: course not preloaded")
		}
		if b.ChapterID != nil && (b.Chapter == nil || b.Chapter.ID != ch.ID) {
			t.Fatalf("ListByUser: chapter not preloaded")
		}
	}

	if n, err := repo.FullDeleteForUser(dbc, creator.ID, courseLevel[0].ID); err != nil || n != 0 {
		t.Fatalf("FullDeleteForUser(foreign): err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteForUser(dbc, learner.ID, courseLevel[0].ID); err != nil || n != 1 {
		t.Fatalf("FullDeleteForUser: err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteForUser(dbc, learner.ID, courseLevel[0].ID); err != nil || n != 0 {
		t.Fatalf("FullDeleteForUser again: err=%v n=%d", err, n)
	}
}

func TestNoteRepoListAndScope(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewNoteRepo(gdb, testutil.Logger(t))

	creator := testutil.SeedUser(t, tx, "creator@example.com", types.RoleCreator)
	learner := testutil.SeedUser(t, tx, "learner@example.com", types.RoleMember)
	c := testutil.SeedCourse(t, tx, creator.ID)
	ch := testutil.SeedChapter(t, tx, c.ID, 1)

	late, early := 90.0, 12.5
	notes, err := repo.Create(dbc, []*types.Note{
		{UserID: learner.ID, CourseID: c.ID, ChapterID: testutil.PtrUUID(ch.ID), Content: "Select statements", Timestamp: &late},
		{UserID: learner.ID, CourseID: c.ID, ChapterID: testutil.PtrUUID(ch.ID), Content: "Buffered channels", Timestamp: &early},
		{UserID: learner.ID, CourseID: c.ID, Content: "100% worth it"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	byTime, err := repo.List(dbc, NoteFilter{UserID: learner.ID, ChapterID: &ch.ID, ByTimestamp: true})
	if err != nil || len(byTime) != 2 {
		t.Fatalf("List(chapter): err=%v len=%d", err, len(byTime))
	}
	if byTime[0].Content != "Buffered channels" {
		t.Fatalf("List(by timestamp): got first=%q", byTime[0].Content)
	}

	found, err := repo.List(dbc, NoteFilter{UserID: learner.ID, Query: "CHANNEL"})
	if err != nil || len(found) != 1 {
		t.Fatalf("List(query): err=%v len=%d", err, len(found))
	}
	literal, err := repo.List(dbc, NoteFilter{UserID: learner.ID, Query: "%"})
	if err != nil || len(literal) != 1 || literal[0].ID != notes[2].ID {
		t.Fatalf("List(literal percent): err=%v len=%d", err, len(literal))
	}

	if got, err := repo.GetForUser(dbc, creator.ID, notes[0].ID); err != nil || got != nil {
		t.Fatalf("GetForUser(foreign): err=%v got=%v", err, got)
	}
	got, err := repo.GetForUser(dbc, learner.ID, notes[0].ID)
	if err != nil || got == nil || got.Chapter == nil {
		t.Fatalf("GetForUser: err=%v got=%v", err, got)
	}

	if n, err := repo.UpdateFieldsForUser(dbc, creator.ID, notes[0].ID, map[string]interface{}{"content": "hijack"}); err != nil || n != 0 {
		t.Fatalf("UpdateFieldsForUser(foreign): err=%v n=%d", err, n)
	}
	if n, err := repo.UpdateFieldsForUser(dbc, learner.ID, notes[0].ID, map[string]interface{}{"content": "Select with default"}); err != nil || n != 1 {
		t.Fatalf("UpdateFieldsForUser: err=%v n=%d", err, n)
	}

	if n, err := repo.FullDeleteForUser(dbc, learner.ID, notes[1].ID); err != nil || n != 1 {
		t.Fatalf("FullDeleteForUser: err=%v n=%d", err, n)
	}
	if n, err := repo.FullDeleteForUser(dbc, learner.ID, notes[1].ID); err != nil || n != 0 {
		t.Fatalf("FullDeleteForUser again: err=%v n=%d", err, n)
	}
}
