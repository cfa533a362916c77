package services

import (
	"net/http"
	"reflect"
	"testing"
	"time"

	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/domain/user"
	"github.com/yungbote/coursehub-backend/internal/platform/dbctx"
)

func newTestProfiles(env *testEnv) ProfileService {
	return NewProfileService(env.db, env.log, env.userRepo, env.profileRepo, env.achievementRepo, env.enrollmentRepo, env.courseRepo)
}

func TestProfileGetDefaultsAndStats(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestProfiles(env)
	creator := testutil.SeedUser(t, env.db, "creator@example.com", types.RoleCreator)
	member := testutil.SeedUser(t, env.db, "member@example.com", types.RoleMember)
	now := time.Now().UTC()
	for _, progress := range []int{100, 30, 0} {
		c := testutil.SeedCourse(t, env.db, creator.ID)
		testutil.SeedEnrollment(t, env.db, member.ID, c.ID, progress, now)
	}

	got, err := svc.Get(asUser(member))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.User.ID != member.ID {
		t.Fatalf("user: %+v", got.User)
	}
	if got.Profile == nil || got.Profile.Preferences.Data() != user.DefaultPreferences() {
		t.Fatalf("default profile: %+v", got.Profile)
	}
	want := ProfileStats{TotalEnrollments: 3, CompletedCourses: 1, InProgressCourses: 2}
	if got.Stats != want {
		t.Fatalf("stats: want=%+v got=%+v", want, got.Stats)
	}
	if got.Achievements == nil {
		t.Fatalf("achievements should be an empty list")
	}
}

func TestProfileUpdate(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestProfiles(env)
	member := testutil.SeedUser(t, env.db, "member@example.com", types.RoleMember)
	testutil.SeedUser(t, env.db, "taken@example.com", types.RoleMember)
	ctx := asUser(member)

	_, err := svc.Update(ctx, ProfileUpdate{Email: ptr("TAKEN@example.com")})
	requireAPIError(t, err, http.StatusBadRequest, emailInUse)

	profile, err := svc.Update(ctx, ProfileUpdate{
		Name:   ptr("  Grace  "),
		Email:  ptr("Grace@Example.com"),
		Bio:    ptr("Compiler person"),
		Skills: &[]string{"go", " go ", "cobol"},
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if profile.Bio != "Compiler person" || !reflect.DeepEqual([]string(profile.Skills), []string{"go", "cobol"}) {
		t.Fatalf("profile: %+v", profile)
	}

	u, err := env.userRepo.GetByID(dbctx.Context{Ctx: ctx}, member.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Name != "Grace" || u.Email != "grace@example.com" {
		t.Fatalf("user after update: name=%q email=%q", u.Name, u.Email)
	}

	prefs, err := svc.UpdatePreferences(ctx, types.Preferences{EmailNotifications: false, CourseRecommendations: true})
	if err != nil {
		t.Fatalf("UpdatePreferences: %v", err)
	}
	if prefs.EmailNotifications || !prefs.CourseRecommendations || prefs.CommunityUpdates {
		t.Fatalf("preferences: %+v", prefs)
	}

	again, err := svc.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if again.Profile.ID != profile.ID || again.Profile.Bio != "Compiler person" {
		t.Fatalf("profile should be updated in place: %+v", again.Profile)
	}

	_, err = svc.Update(ctx, ProfileUpdate{Name: ptr(" ")})
	requireAPIError(t, err, http.StatusBadRequest, "Please add a name")
}

func TestProfileAchievementsAndHistory(t *testing.T) {
	env := newTestEnv(t)
	svc := newTestProfiles(env)
	enrollments := newTestEnrollments(env)
	creator := testutil.SeedUser(t, env.db, "creator@example.com", types.RoleCreator)
	member := testutil.SeedUser(t, env.db, "member@example.com", types.RoleMember)
	c := testutil.SeedCourse(t, env.db, creator.ID)
	e := testutil.SeedEnrollment(t, env.db, member.ID, c.ID, 0, time.Now().UTC())
	ctx := asUser(member)

	if _, err := enrollments.UpdateProgress(ctx, e.ID, 100); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	list, err := svc.Achievements(ctx, "course_completion")
	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}
	if len(list) != 1 || list[0].Course == nil || list[0].Course.ID != c.ID {
		t.Fatalf("achievements: %+v", list)
	}
	badges, err := svc.Achievements(ctx, "badge")
	if err != nil {
		t.Fatalf("Achievements: %v", err)
	}
	if len(badges) != 0 {
		t.Fatalf("badges: want=0 got=%d", len(badges))
	}
	_, err = svc.Achievements(ctx, "trophy")
	requireAPIError(t, err, http.StatusBadRequest, achievementTypes)

	history, err := svc.EnrollmentHistory(ctx, "completed", Page{})
	if err != nil {
		t.Fatalf("EnrollmentHistory: %v", err)
	}
	if history.Total != 1 || len(history.Enrollments) != 1 || history.Enrollments[0].Progress != 100 {
		t.Fatalf("history: %+v", history)
	}
	if history.Enrollments[0].Course == nil || history.Enrollments[0].Course.Title != c.Title {
		t.Fatalf("history course: %+v", history.Enrollments[0].Course)
	}
}
