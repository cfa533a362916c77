package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/coursehub-backend/internal/http/response"
	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
	"github.com/yungbote/coursehub-backend/internal/platform/logger"
	"github.com/yungbote/coursehub-backend/internal/services"
)

const (
	priceInvalid = "Price must be a non-negative number"
	thumbnailKey = "thumbnail"
)

type CourseHandler struct {
	log     *logger.Logger
	courses services.CourseService
}

func NewCourseHandler(log *logger.Logger, courses services.CourseService) *CourseHandler {
	return &CourseHandler{log: log.With("handler", "CourseHandler"), courses: courses}
}

// courseRequest is the JSON body for create and update. Price may arrive as a
// number or a numeric string; tags as an array or a comma list.
type courseRequest struct {
	Title       *string        `json:"title"`
	Description *string        `json:"description"`
	Price       flexibleNumber `json:"price"`
	Category    *string        `json:"category"`
	Tags        flexibleTags   `json:"tags"`
	Status      *string        `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// readCourseRequest accepts multipart forms (with an optional thumbnail) or JSON.
func readCourseRequest(c *gin.Context) (*courseRequest, *upload, error) {
	if !isMultipart(c) {
		var req courseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, err
		}
		if req.Price.Bad {
			return nil, nil, apierr.Validation(apierr.FieldError{Field: "price", Message: priceInvalid})
		}
		return &req, nil, nil
	}

	var checks []apierr.FieldError
	req := &courseRequest{}
	req.Title, _ = formValue(c, "title")
	req.Description, _ = formValue(c, "description")
	req.Category, _ = formValue(c, "category")
	req.Status, _ = formValue(c, "status")
	req.Price.Value = formFloat(c, "price", priceInvalid, &checks)
	if raw, ok := formValue(c, "tags"); ok {
		req.Tags = flexibleTags{Set: true, Tags: services.ParseTags(*raw)}
	}
	if len(checks) > 0 {
		return nil, nil, apierr.Validation(checks...)
	}
	file, err := formUpload(c, thumbnailKey)
	if err != nil {
		return nil, nil, err
	}
	return req, file, nil
}

func respondRequestError(c *gin.Context, err error) {
	if _, ok := apierr.As(err); ok {
		response.RespondErr(c, err)
		return
	}
	response.RespondBindError(c, err)
}

// GET /courses
func (h *CourseHandler) List(c *gin.Context) {
	page, err := h.courses.List(c.Request.Context(), services.CourseListParams{
		Page:     pageFromQuery(c),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Search:   c.Query("search"),
		Tags:     queryList(c, "tags"),
		SortBy:   c.Query("sort"),
	})
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, page)
}

// POST /courses
func (h *CourseHandler) Create(c *gin.Context) {
	req, file, err := readCourseRequest(c)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	defer file.Close()

	view, err := h.courses.Create(c.Request.Context(), services.CourseInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Price:       req.Price.Value,
		Category:    deref(req.Category),
		Tags:        req.Tags.value(),
		Status:      deref(req.Status),
	}, file.Input())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondCreated(c, view)
}

// GET /courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	detail, err := h.courses.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, detail)
}

// GET /courses/creator/courses
func (h *CourseHandler) ListMine(c *gin.Context) {
	views, err := h.courses.ListByCreator(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondList(c, len(views), views)
}

// PATCH /courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	req, file, err := readCourseRequest(c)
	if err != nil {
		respondRequestError(c, err)
		return
	}
	defer file.Close()

	view, err := h.courses.Update(c.Request.Context(), id, services.CourseUpdate{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price.Value,
		Category:    req.Category,
		Tags:        req.Tags.value(),
		Status:      req.Status,
	}, file.Input())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, view)
}

// DELETE /courses/:id
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	if err := h.courses.Delete(c.Request.Context(), id); err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondMessage(c, services.CourseDeletedMessage)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PATCH /courses/:id/status
func (h *CourseHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondBindError(c, err)
		return
	}
	view, err := h.courses.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondData(c, http.StatusOK, view)
}

// GET /courses/:id/preview
func (h *CourseHandler) Preview(c *gin.Context) {
	id, ok := pathUUID(c, "id", courseNotFound)
	if !ok {
		return
	}
	preview, err := h.courses.Preview(c.Request.Context(), id)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, preview)
}
