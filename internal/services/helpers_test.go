package services

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/coursehub-backend/internal/data/repos"
	"github.com/yungbote/coursehub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/coursehub-backend/internal/domain"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/ctxutil"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
)

type testEnv struct {
	db              *gorm.DB
	log             *logger.Logger
	userRepo        repos.UserRepo
	profileRepo     repos.UserProfileRepo
	achievementRepo repos.UserAchievementRepo
	courseRepo      repos.CourseRepo
	tagRepo         repos.CourseTagRepo
	chapterRepo     repos.ChapterRepo
	enrollmentRepo  repos.EnrollmentRepo
	bookmarkRepo    repos.BookmarkRepo
	noteRepo        repos.NoteRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	return &testEnv{
		db:              gdb,
		log:             log,
		userRepo:        repos.NewUserRepo(gdb, log),
		profileRepo:     repos.NewUserProfileRepo(gdb, log),
		achievementRepo: repos.NewUserAchievementRepo(gdb, log),
		courseRepo:      repos.NewCourseRepo(gdb, log),
		tagRepo:         repos.NewCourseTagRepo(gdb, log),
		chapterRepo:     repos.NewChapterRepo(gdb, log),
		enrollmentRepo:  repos.NewEnrollmentRepo(gdb, log),
		bookmarkRepo:    repos.NewBookmarkRepo(gdb, log),
		noteRepo:        repos.NewNoteRepo(gdb, log),
	}
}

func asUser(u *types.User) context.Context {
	return ctxutil.WithPrincipal(context.Background(), types.Principal{UserID: u.ID, Role: u.Role})
}

func requireAPIError(t *testing.T, err error, status int, message string) {
	t.Helper()
	ae, ok := apierr.As(err)
	if !ok {
		t.Fatalf("want api error %d %q, got %v", status, message, err)
	}
	if ae.Status != status {
		t.Fatalf("status: want=%d got=%d (%s)", status, ae.Status, ae.Message)
	}
	if message != "" && ae.Message != message {
		t.Fatalf("message: want=%q got=%q", message, ae.Message)
	}
}

// fakeBucket keeps uploaded objects in memory.
type fakeBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
	failErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}}
}

func (b *fakeBucket) UploadFile(_ context.Context, key, _ string, file io.Reader) error {
	if b.failErr != nil {
		return b.failErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = data
	return nil
}

func (b *fakeBucket) DeleteFile(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *fakeBucket) GetPublicURL(key string) string { return "https://cdn.test/" + key }

func (b *fakeBucket) Close() error { return nil }

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func pngUpload() *UploadInput {
	return &UploadInput{Filename: "cover.png", Size: int64(len(pngHeader)), Body: bytes.NewReader(pngHeader)}
}
