package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type APIError struct {
	Message string       `json:"message"`
	Code    string       `json:"code,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
	Details string       `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// ListEnvelope wraps unpaginated collections.
type ListEnvelope struct {
	Count int `json:"count"`
	Data  any `json:"data"`
}

type DataEnvelope struct {
	Data any `json:"data"`
}

type MessageEnvelope struct {
	Message string `json:"message"`
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

func RespondData(c *gin.Context, status int, data any) {
	c.JSON(status, DataEnvelope{Data: data})
}

func RespondList(c *gin.Context, count int, data any) {
	c.JSON(http.StatusOK, ListEnvelope{Count: count, Data: data})
}

func RespondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageEnvelope{Message: message})
}
