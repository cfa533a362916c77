package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestEnrollmentRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewEnrollmentRepo(gdb, testutil.Logger(t))

	creator := testutil.SeedUser(t, tx, "creator@example.com", types.RoleCreator)
	learner := testutil.SeedUser(t, tx, "learner@example.com", types.RoleMember)
	courseA := testutil.SeedCourse(t, tx, creator.ID)
	courseB := testutil.SeedCourse(t, tx, creator.ID)

	now := time.Now().UTC()
	older := testutil.SeedEnrollment(t, tx, learner.ID, courseA.ID, 100, now.Add(-48*time.Hour))
	newer := testutil.SeedEnrollment(t, tx, learner.ID, courseB.ID, 40, now.Add(-time.Hour))

	if older.Status != types.EnrollmentCompleted || newer.Status != types.EnrollmentActive {
		t.Fatalf("seed: unexpected statuses %s/%s", older.Status, newer.Status)
	}

	_, err := repo.Create(dbc, []*types.Enrollment{{UserID: learner.ID, CourseID: courseA.ID}})
	if !db.IsUniqueViolation(err) {
		t.Fatalf("Create duplicate: expected unique violation, got %v", err)
	}

	got, err := repo.GetByUserAndCourse(dbc, learner.ID, courseB.ID)
	if err != nil || got == nil || got.ID != newer.ID {
		t.Fatalf("GetByUserAndCourse: err=%v got=%v", err, got)
	}
	if none, err := repo.GetByUserAndCourse(dbc, creator.ID, courseB.ID); err != nil || none != nil {
		t.Fatalf("GetByUserAndCourse(none): err=%v got=%v", err, none)
	}

	list, err := repo.ListByUser(dbc, learner.ID, "", 0, 0)
	if err != nil || len(list) != 2 {
		t.Fatalf("ListByUser: err=%v len=%d", err, len(list))
	}
	if list[0].ID != newer.ID {
		t.Fatalf("ListByUser: expected most recently accessed first")
	}
	if list[0].Course == nil || list[0].Course.ID != courseB.ID {
		t.Fatalf("ListByUser: course not preloaded")
	}

	completed, err := repo.ListByUser(dbc, learner.ID, types.EnrollmentCompleted, 0, 10)
	if err != nil || len(completed) != 1 || completed[0].ID != older.ID {
		t.Fatalf("ListByUser(completed): err=%v len=%d", err, len(completed))
	}
	if n, err := repo.CountByUser(dbc, learner.ID, types.EnrollmentActive); err != nil || n != 1 {
		t.Fatalf("CountByUser(active): err=%v n=%d", err, n)
	}

	grouped, err := repo.CountByUserGroupedByStatus(dbc, learner.ID)
	if err != nil || grouped[types.EnrollmentActive] != 1 || grouped[types.EnrollmentCompleted] != 1 {
		t.Fatalf("CountByUserGroupedByStatus: err=%v got=%v", err, grouped)
	}

	counts, err := repo.CountByCourseIDs(dbc, []uuid.UUID{courseA.ID, courseB.ID})
	if err != nil || counts[courseA.ID] != 1 || counts[courseB.ID] != 1 {
		t.Fatalf("CountByCourseIDs: err=%v got=%v", err, counts)
	}
	rows, err := repo.ListByCourseIDs(dbc, []uuid.UUID{courseA.ID, courseB.ID})
	if err != nil || len(rows) != 2 || rows[0].ID != older.ID {
		t.Fatalf("ListByCourseIDs: err=%v len=%d", err, len(rows))
	}

	if err := repo.UpdateFields(dbc, newer.ID, map[string]interface{}{
		"progress": 100,
		"status":   types.EnrollmentCompleted,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	updated, err := repo.GetByID(dbc, newer.ID)
	if err != nil || updated == nil || updated.Progress != 100 || updated.Status != types.EnrollmentCompleted {
		t.Fatalf("GetByID after update: err=%v got=%+v", err, updated)
	}
}
