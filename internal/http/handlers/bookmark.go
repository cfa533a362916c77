package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type BookmarkHandler struct {
	log       *logger.Logger
	bookmarks services.BookmarkService
}

func NewBookmarkHandler(log *logger.Logger, bookmarks services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{log: log.With("handler", "BookmarkHandler"), bookmarks: bookmarks}
}

type bookmarkRequest struct {
	CourseID  string `json:"course_id" binding:"required"`
	ChapterID string `json:"chapter_id"`
	Note      string `json:"note" binding:"max=1000"`
}

// POST /bookmarks
func (h *BookmarkHandler) Create(c *gin.Context) {
	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
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
	b, err := h.bookmarks.Create(c.Request.Context(), services.BookmarkInput{
		CourseID:  courseID,
		ChapterID: chapterID,
		Note:      req.Note,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, b)
}

// GET /bookmarks
func (h *BookmarkHandler) List(c *gin.Context) {
	courseID, err := optionalUUID(c.Query("course_id"), courseNotFound)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	list, err := h.bookmarks.List(c.Request.Context(), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(list), list)
}

// DELETE /bookmarks/:bookmarkId
func (h *BookmarkHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "bookmarkId", bookmarkNotFound)
	if !ok {
		return
	}
	if err := h.bookmarks.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, services.BookmarkRemovedMessage)
}
