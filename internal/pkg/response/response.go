package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/chat-backend/internal/chat/types"
	apperrors "github.com/lk2023060901/chat-backend/internal/pkg/errors"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Code    int                `json:"code"`             // business error code
	Message string             `json:"message"`          // human readable summary
	Detail  []types.FieldError `json:"detail,omitempty"` // per-field problems, validation only
}

// OK writes data as a 200 JSON body
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// ErrorWithCode writes the envelope for a business error code
func ErrorWithCode(c *gin.Context, code int, details ...string) {
	c.JSON(apperrors.GetHTTPStatus(code), ErrorResponse{
		Code:    code,
		Message: apperrors.FormatError(code, details...),
	})
}

// ValidationError writes a 422 envelope listing every field problem
func ValidationError(c *gin.Context, fields []types.FieldError) {
	c.JSON(apperrors.GetHTTPStatus(apperrors.ErrValidation), ErrorResponse{
		Code:    apperrors.ErrValidation,
		Message: apperrors.GetMessage(apperrors.ErrValidation),
		Detail:  fields,
	})
}

// HandleError writes the envelope for an AppError; other errors become 500
func HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	appErr := apperrors.Wrap(err, apperrors.ErrInternalServer)
	c.JSON(appErr.HTTPStatus(), ErrorResponse{
		Code:    appErr.Code,
		Message: apperrors.FormatError(appErr.Code, appErr.Details),
	})
}

// NotFound answers unknown routes
func NotFound(c *gin.Context) {
	ErrorWithCode(c, apperrors.ErrNotFound)
}

// MethodNotAllowed answers known routes hit with the wrong verb.
// gin has already set the Allow header.
func MethodNotAllowed(c *gin.Context) {
	ErrorWithCode(c, apperrors.ErrMethodNotAllowed)
}

// InternalError answers recovered panics
func InternalError(c *gin.Context) {
	ErrorWithCode(c, apperrors.ErrInternalServer)
}
