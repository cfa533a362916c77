package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/coursehub-backend/internal/data/db"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	domainuser "github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func TestUserRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(gdb, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.User{{
		Name:     "Ada",
		Email:    "  Ada@Example.COM ",
		Password: "hash",
		Role:     types.RoleCreator,
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	u := created[0]
	if u.ID == uuid.Nil {
		t.Fatalf("Create: expected generated id")
	}
	if u.Email != "ada@example.com" {
		t.Fatalf("Create: email not normalized: %q", u.Email)
	}

	got, err := repo.GetByEmail(dbc, "ADA@example.com")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: err=%v got=%v", err, got)
	}
	if got.Role != types.RoleCreator {
		t.Fatalf("GetByEmail: role round trip: got=%v", got.Role)
	}

	if exists, err := repo.EmailExists(dbc, "ada@example.com"); err != nil || !exists {
		t.Fatalf("EmailExists: err=%v exists=%v", err, exists)
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	_, err = repo.Create(dbc, []*types.User{{Name: "Dup", Email: "ADA@example.com", Password: "x", Role: types.RoleMember}})
	if !db.IsUniqueViolation(err) {
		t.Fatalf("Create duplicate: expected unique violation, got %v", err)
	}
}

func TestUserRepoUpdateFieldsNormalizesEmail(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "before@example.com", types.RoleMember)
	if err := repo.UpdateFields(dbc, u.ID, map[string]interface{}{"email": " After@Example.com", "name": "Renamed"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, err := repo.GetByID(dbc, u.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v", err)
	}
	if got.Email != "after@example.com" || got.Name != "Renamed" {
		t.Fatalf("UpdateFields: got email=%q name=%q", got.Email, got.Name)
	}
}

func TestUserProfileRepoUpsert(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserProfileRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "profile@example.com", types.RoleMember)
	if p, err := repo.GetByUserID(dbc, u.ID); err != nil || p != nil {
		t.Fatalf("GetByUserID before upsert: err=%v got=%v", err, p)
	}

	p := domainuser.NewUserProfile(u.ID)
	p.Bio = "first"
	p.Skills = datatypes.JSONSlice[string]{"go"}
	first, err := repo.Upsert(dbc, p)
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	next := domainuser.NewUserProfile(u.ID)
	next.Bio = "second"
	next.Skills = datatypes.JSONSlice[string]{"go", "sql"}
	next.Preferences = datatypes.NewJSONType(types.Preferences{EmailNotifications: false})
	second, err := repo.Upsert(dbc, next)
	if err != nil {
		t.Fatalf("Upsert again: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("Upsert: expected same row, got %s and %s", first.ID, second.ID)
	}
	if second.Bio != "second" || len(second.Skills) != 2 {
		t.Fatalf("Upsert: got bio=%q skills=%v", second.Bio, second.Skills)
	}
	if second.Preferences.Data().EmailNotifications {
		t.Fatalf("Upsert: preferences not replaced")
	}
}

func TestUserAchievementRepo(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewUserAchievementRepo(gdb, testutil.Logger(t))

	u := testutil.SeedUser(t, tx, "learner@example.com", types.RoleMember)
	courseID := uuid.New()

	if _, err := repo.Create(dbc, []*types.UserAchievement{
		{UserID: u.ID, Type: types.AchievementCourseCompletion, Title: "Completed", Description: "done", CourseID: &courseID},
		{UserID: u.ID, Type: types.AchievementBadge, Title: "Badge", Description: "shiny"},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	all, err := repo.ListByUser(dbc, u.ID, "")
	if err != nil || len(all) != 2 {
		t.Fatalf("ListByUser(all): err=%v len=%d", err, len(all))
	}
	badges, err := repo.ListByUser(dbc, u.ID, types.AchievementBadge)
	if err != nil || len(badges) != 1 || badges[0].Title != "Badge" {
		t.Fatalf("ListByUser(badge): err=%v rows=%v", err, badges)
	}

	ok, err := repo.ExistsForCourse(dbc, u.ID, courseID, types.AchievementCourseCompletion)
	if err != nil || !ok {
		t.Fatalf("ExistsForCourse: err=%v ok=%v", err, ok)
	}
	ok, err = repo.ExistsForCourse(dbc, u.ID, uuid.New(), types.AchievementCourseCompletion)
	if err != nil || ok {
		t.Fatalf("ExistsForCourse(other course): err=%v ok=%v", err, ok)
	}
}
