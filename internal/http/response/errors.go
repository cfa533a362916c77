package response

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/coursehub-backend/internal/platform/apierr"
)

const genericServerError = "Server Error"

var development atomic.Bool

// SetDevelopment controls whether 500 responses carry the underlying error text.
func SetDevelopment(on bool) { development.Store(on) }

// RespondError writes an explicit status/code/message without a service error.
func RespondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: message, Code: code}})
}

// RespondErr maps a service error onto the error envelope. Anything that is
// not an *apierr.Error is reported as a generic 500.
func RespondErr(c *gin.Context, err error) {
	if err == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", genericServerError)
		return
	}
	_ = c.Error(err)

	ae, ok := apierr.As(err)
	if !ok {
		ae = apierr.Internal(err)
	}
	body := APIError{Message: ae.Message, Code: ae.Code}
	for _, f := range ae.Fields {
		body.Fields = append(body.Fields, FieldError{Field: f.Field, Message: f.Message})
	}
	if ae.Status >= http.StatusInternalServerError {
		if body.Message == "" {
			body.Message = genericServerError
		}
		if development.Load() && ae.Err != nil {
			body.Details = ae.Err.Error()
		}
	}
	c.AbortWithStatusJSON(ae.Status, ErrorEnvelope{Error: body})
}

// RespondBindError turns binding failures into 400s, with per-field messages
// when the validator produced them.
func RespondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apierr.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apierr.FieldError{Field: fe.Field(), Message: bindMessage(fe)})
		}
		RespondErr(c, apierr.Validation(fields...))
		return
	}
	RespondErr(c, apierr.BadRequest("Invalid request body").Wrap(err))
}

func init() {
	// Field errors report the JSON name the client sent, not the Go field name.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{f.Tag.Get("json"), f.Tag.Get("form")} {
				if name := strings.Split(tag, ",")[0]; name != "" && name != "-" {
					return name
				}
			}
			return f.Name
		})
	}
}

func bindMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return "Please provide " + name
	case "email":
		return "Please add a valid email"
	case "min":
		return name + " must be at least " + fe.Param()
	case "max":
		return name + " cannot be more than " + fe.Param()
	case "oneof":
		return name + " must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	default:
		return name + " is invalid"
	}
}
