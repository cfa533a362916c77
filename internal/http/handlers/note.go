package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

const timestampInvalid = "Timestamp must be a non-negative number"

type NoteHandler struct {
	log   *logger.Logger
	notes services.NoteService
}

func NewNoteHandler(log *logger.Logger, notes services.NoteService) *NoteHandler {
	return &NoteHandler{log: log.With("handler", "NoteHandler"), notes: notes}
}

type noteRequest struct {
	CourseID  string         `json:"course_id" binding:"required"`
	ChapterID string         `json:"chapter_id"`
	Content   string         `json:"content" binding:"required"`
	Timestamp flexibleNumber `json:"timestamp"`
}

type noteUpdateRequest struct {
	Content   *string        `json:"content"`
	Timestamp flexibleNumber `json:"timestamp"`
}

func badTimestamp() error {
	return apierr.Validation(apierr.FieldError{Field: "timestamp", Message: timestampInvalid})
}

// POST /notes
func (h *NoteHandler) Create(c *gin.Context) {
	var req noteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	if req.Timestamp.Bad {
		response.RespondErr(c, badTimestamp())
		return
	}
	courseID, err := requiredCourseID(req.CourseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	chapterID, err := optionalUUID(req.ChapterID, chapterNotFound)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	n, err := h.notes.Create(c.Request.Context(), services.NoteInput{
		CourseID:  courseID,
		ChapterID: chapterID,
		Content:   req.Content,
		Timestamp: req.Timestamp.Value,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, n)
}

// GET /notes
func (h *NoteHandler) List(c *gin.Context) {
	courseID, err := optionalUUID(c.Query("course_id"), courseNotFound)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	chapterID, err := optionalUUID(c.Query("chapter_id"), chapterNotFound)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	list, err := h.notes.List(c.Request.Context(), courseID, chapterID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(list), list)
}

// GET /notes/chapter/:chapterId
func (h *NoteHandler) ListForChapter(c *gin.Context) {
	chapterID, ok := pathUUID(c, "chapterId", chapterNotFound)
	if !ok {
		return
	}
	list, err := h.notes.ListForChapter(c.Request.Context(), chapterID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(list), list)
}

// GET /notes/search
func (h *NoteHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		query = c.Query("q")
	}
	list, err := h.notes.Search(c.Request.Context(), query)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(list), list)
}

// PATCH /notes/:noteId
func (h *NoteHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "noteId", noteNotFound)
	if !ok {
		return
	}
	var req noteUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	if req.Timestamp.Bad {
		response.RespondErr(c, badTimestamp())
		return
	}
	n, err := h.notes.Update(c.Request.Context(), id, services.NoteUpdate{
		Content:   req.Content,
		Timestamp: req.Timestamp.Value,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, n)
}

// DELETE /notes/:noteId
func (h *NoteHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "noteId", noteNotFound)
	if !ok {
		return
	}
	if err := h.notes.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, services.NoteDeletedMessage)
}
