package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/services"
)

const (
	courseNotFound     = "Course not found"
	chapterNotFound    = "Chapter not found"
	enrollmentNotFound = "Enrollment not found"
	bookmarkNotFound   = "Bookmark not found"
	noteNotFound       = "Note not found"
)

// pathUUID reads a uuid route param. A malformed id is reported as the
// resource being absent.
func pathUUID(c *gin.Context, name, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		response.RespondErr(c, apierr.NotFound(notFound))
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses an optional id from a body or query value.
func optionalUUID(raw, notFound string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apierr.NotFound(notFound)
	}
	return &id, nil
}

// requiredCourseID parses the course_id body field shared by bookmarks and notes.
func requiredCourseID(raw string) (uuid.UUID, error) {
	id, err := optionalUUID(raw, courseNotFound)
	if err != nil {
		return uuid.Nil, err
	}
	if id == nil {
		return uuid.Nil, apierr.Validation(apierr.FieldError{Field: "course_id", Message: "Please provide a course"})
	}
	return *id, nil
}

func pageFromQuery(c *gin.Context) services.Page {
	return services.Page{Number: queryInt(c, "page"), Size: queryInt(c, "limit")}
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		return 0
	}
	return n
}

// queryList accepts repeated keys and comma separated values.
func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		out = append(out, services.ParseTags(v)...)
	}
	return out
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// upload is an opened multipart file; Close must be called once the service returns.
type upload struct {
	input *services.UploadInput
	file  multipart.File
}

func (u *upload) Input() *services.UploadInput {
	if u == nil {
		return nil
	}
	return u.input
}

func (u *upload) Close() {
	if u != nil && u.file != nil {
		_ = u.file.Close()
	}
}

// formUpload opens the named multipart file. A missing file is not an error.
func formUpload(c *gin.Context, field string) (*upload, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.BadRequest("File upload error").Wrap(err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, apierr.BadRequest("File upload error").Wrap(err)
	}
	return &upload{
		input: &services.UploadInput{Filename: fh.Filename, Size: fh.Size, Body: f},
		file:  f,
	}, nil
}

// formValue returns a trimmed multipart value and whether the key was sent.
func formValue(c *gin.Context, key string) (*string, bool) {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil, false
	}
	v = strings.TrimSpace(v)
	return &v, true
}

func formFloat(c *gin.Context, key, message string, checks *[]apierr.FieldError) *float64 {
	v, ok := formValue(c, key)
	if !ok || *v == "" {
		return nil
	}
	f, err := parseFinite(*v)
	if err != nil {
		*checks = append(*checks, apierr.FieldError{Field: key, Message: message})
		return nil
	}
	return &f
}

var errNotFinite = errors.New("number is not finite")

// parseFinite parses a decimal number, refusing NaN and the infinities that
// strconv.ParseFloat accepts as words.
func parseFinite(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}

func formInt(c *gin.Context, key, message string, checks *[]apierr.FieldError) *int {
	v, ok := formValue(c, key)
	if !ok || *v == "" {
		return nil
	}
	n, err := strconv.Atoi(*v)
	if err != nil {
		*checks = append(*checks, apierr.FieldError{Field: key, Message: message})
		return nil
	}
	return &n
}

func formBool(c *gin.Context, key string) *bool {
	v, ok := formValue(c, key)
	if !ok || *v == "" {
		return nil
	}
	b, err := strconv.ParseBool(*v)
	if err != nil {
		b = strings.EqualFold(*v, "on") || strings.EqualFold(*v, "yes")
	}
	return &b
}

// flexibleTags decodes a JSON array or a string holding an array or a comma list.
type flexibleTags struct {
	Set  bool
	Tags []string
}

func (f *flexibleTags) UnmarshalJSON(b []byte) error {
	f.Set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		f.Tags = []string{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		f.Tags = services.ParseTags(s)
		return nil
	}
	f.Tags = services.ParseTags(string(b))
	return nil
}

func (f flexibleTags) value() []string {
	if !f.Set {
		return nil
	}
	if f.Tags == nil {
		return []string{}
	}
	return f.Tags
}

// flexibleNumber decodes a JSON number or a numeric string. Non-finite values are Bad.
type flexibleNumber struct {
	Value *float64
	Bad   bool
}

func (n *flexibleNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil
		}
	}
	f, err := parseFinite(raw)
	if err != nil {
		n.Bad = true
		return nil
	}
	n.Value = &f
	return nil
}
