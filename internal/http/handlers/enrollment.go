package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

type EnrollmentHandler struct {
	log         *logger.Logger
	enrollments services.EnrollmentService
}

func NewEnrollmentHandler(log *logger.Logger, enrollments services.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{log: log.With("handler", "EnrollmentHandler"), enrollments: enrollments}
}

// GET /enrollments/discover
func (h *EnrollmentHandler) Discover(c *gin.Context) {
	sortBy := c.Query("sort")
	if sortBy == "" {
		sortBy = c.Query("sortBy")
	}
	page, err := h.enrollments.Discover(c.Request.Context(), services.CourseListParams{
		Page:     pageFromQuery(c),
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Tags:     queryList(c, "tags"),
		SortBy:   sortBy,
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /enrollments/courses/:courseId/enroll
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId", courseNotFound)
	if !ok {
		return
	}
	e, err := h.enrollments.Enroll(c.Request.Context(), courseID)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, e)
}

// GET /enrollments/enrolled
func (h *EnrollmentHandler) ListEnrolled(c *gin.Context) {
	page, err := h.enrollments.ListEnrolled(c.Request.Context(), c.Query("status"), pageFromQuery(c))
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// progressRequest keeps the raw value so strings and fractions can be rejected.
type progressRequest struct {
	Progress json.RawMessage `json:"progress"`
}

// PATCH /enrollments/enrollments/:enrollmentId/progress
func (h *EnrollmentHandler) UpdateProgress(c *gin.Context) {
	id, ok := pathUUID(c, "enrollmentId", enrollmentNotFound)
	if !ok {
		return
	}
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	progress, err := services.ParseProgress(req.Progress)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	e, err := h.enrollments.UpdateProgress(c.Request.Context(), id, progress)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, e)
}
