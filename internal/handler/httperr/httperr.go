package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

var statusNames = map[int]string{
	http.StatusBadRequest:          "INVALID_ARGUMENT",
	http.StatusUnauthorized:        "UNAUTHENTICATED",
	http.StatusForbidden:           "PERMISSION_DENIED",
	http.StatusNotFound:            "NOT_FOUND",
	http.StatusPreconditionFailed:  "FAILED_PRECONDITION",
	http.StatusInternalServerError: "INTERNAL",
}

// StatusName is the stable machine-readable name clients switch on.
func StatusName(status int) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	if status >= 500 {
		return "INTERNAL"
	}
	return "UNKNOWN"
}

func NewResponse(status int, msg string, detail any) Response {
	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Error.Status = StatusName(status)
	resp.Detail = detail
	return resp
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := NewResponse(status, msg, detail)

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}
