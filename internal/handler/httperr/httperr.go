package httperr

import (
	"github.com/gin-gonic/gin"
)

// Stable machine-readable rejection codes. Clients branch on Code; Message
// is for humans and may change.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotFound           = "NOT_FOUND"
	CodeEventFull          = "EVENT_FULL"
	CodeConflict           = "CONFLICT"
	CodeAlreadyInProgress  = "ALREADY_IN_PROGRESS"
	CodeExternalDependency = "EXTERNAL_DEPENDENCY"
	CodeRateLimited        = "RATE_LIMITED"
	CodeInternal           = "INTERNAL_ERROR"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// preserves original error for the logging middleware
func AbortWithError(c *gin.Context, status int, err error, code, msg string) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

func JSON(c *gin.Context, status int, code, msg string) {
	resp := Response{Status: status}
	resp.Error.Code = code
	resp.Error.Message = msg
	c.JSON(status, resp)
}
