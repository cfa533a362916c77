package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

const (
	durationInvalid = "Duration must be a non-negative number"
	orderInvalid    = "Order must be a whole number"
	videoKey        = "video"
)

type ChapterHandler struct {
	log      *logger.Logger
	chapters services.ChapterService
}

func NewChapterHandler(log *logger.Logger, chapters services.ChapterService) *ChapterHandler {
	return &ChapterHandler{log: log.With("handler", "ChapterHandler"), chapters: chapters}
}

type chapterRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Order       *int           `json:"order"`
	IsPreview   *bool          `json:"is_preview"`
	Duration    flexibleNumber `json:"duration"`
	VideoURL    *string        `json:"video_url"`
}

func readChapterRequest(c *gin.Context) (*chapterRequest, *upload, error) {
	if !isMultipart(c) {
		var req chapterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, err
		}
		if req.Duration.Bad {
			return nil, nil, apierr.Validation(apierr.FieldError{Field: "duration", Message: durationInvalid})
		}
		return &req, nil, nil
	}

	var checks []apierr.FieldError
	req := &chapterRequest{}
	req.Title, _ = formValue(c, "title")
	req.Description, _ = formValue(c, "description")
	req.VideoURL, _ = formValue(c, "video_url")
	req.Order = formInt(c, "order", orderInvalid, &checks)
	req.IsPreview = formBool(c, "is_preview")
	req.Duration.Value = formFloat(c, "duration", durationInvalid, &checks)
	if len(checks) > 0 {
		return nil, nil, apierr.Validation(checks...)
	}
	file, err := formUpload(c, videoKey)
	if err != nil {
		return nil, nil, err
	}
	return req, file, nil
}

func (h *ChapterHandler) ids(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	courseID, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	chapterID, ok := pathUUID(c, "chapterId", chapterNotFound)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return courseID, chapterID, true
}

// GET /courses/:id/chapters
func (h *ChapterHandler) List(c *gin.Context) {
	courseID, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	list, err := h.chapters.List(c.Request.Context(), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(list), list)
}

// GET /courses/:id/chapters/:chapterId
func (h *ChapterHandler) Get(c *gin.Context) {
	courseID, chapterID, ok := h.ids(c)
	if !ok {
		return
	}
	ch, err := h.chapters.Get(c.Request.Context(), courseID, chapterID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusOK, ch)
}

// POST /courses/:id/chapters
func (h *ChapterHandler) Create(c *gin.Context) {
	courseID, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	req, file, err := readChapterRequest(c)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	defer file.Close()

	in := services.ChapterInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Duration:    req.Duration.Value,
		VideoURL:    deref(req.VideoURL),
	}
	if req.Order != nil {
		in.Order = *req.Order
	}
	if req.IsPreview != nil {
		in.IsPreview = *req.IsPreview
	}
	ch, err := h.chapters.Create(c.Request.Context(), courseID, in, file.Input())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusCreated, ch)
}

// PUT /courses/:id/chapters/:chapterId
func (h *ChapterHandler) Update(c *gin.Context) {
	courseID, chapterID, ok := h.ids(c)
	if !ok {
		return
	}
	req, file, err := readChapterRequest(c)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	defer file.Close()

	ctx := c.Request.Context()
	ch, err := h.chapters.Update(ctx, courseID, chapterID, services.ChapterUpdate{
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		IsPreview:   req.IsPreview,
		Duration:    req.Duration.Value,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	// A video sent along with the update replaces the stored one.
	if in := file.Input(); in != nil {
		if ch, err = h.chapters.UploadVideo(ctx, courseID, chapterID, in); err != nil {
			response.RespondErr(c, err)
			return
		}
	}
	response.RespondData(c, http.StatusOK, ch)
}

// DELETE /courses/:id/chapters/:chapterId
func (h *ChapterHandler) Delete(c *gin.Context) {
	courseID, chapterID, ok := h.ids(c)
	if !ok {
		return
	}
	if err := h.chapters.Delete(c.Request.Context(), courseID, chapterID); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusOK, gin.H{})
}

// POST /courses/:id/chapters/:chapterId/video
func (h *ChapterHandler) UploadVideo(c *gin.Context) {
	courseID, chapterID, ok := h.ids(c)
	if !ok {
		return
	}
	if !isMultipart(c) {
		response.RespondErr(c, apierr.BadRequest(services.MissingVideoMessage))
		return
	}
	file, err := formUpload(c, videoKey)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	defer file.Close()

	ch, err := h.chapters.UploadVideo(c.Request.Context(), courseID, chapterID, file.Input())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusOK, ch)
}
