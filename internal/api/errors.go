package api

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gitlab.com/dirk.krummacker/person-service/internal/apperror"
)

// genericErrorMessage is shown for internal errors unless diagnostic mode is on.
const genericErrorMessage = "An error occurred while processing your request."

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	StatusCode int                 `json:"statusCode"`
	Message    string              `json:"message"`
	Details    string              `json:"details,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	TraceId    string              `json:"traceId"`
	Timestamp  time.Time           `json:"timestamp"`
}

// ErrorHandler is the boundary around all routes. It converts the last error attached to the
// context with c.Error, or a panic, into an ErrorResponse and logs it. With diagnostic set, the
// body of an internal error carries the underlying message and details.
func ErrorHandler(log logrus.FieldLogger, diagnostic bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				err := fmt.Errorf("panic: %v", r)
				writeError(c, log, diagnostic, err, string(debug.Stack()))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		writeError(c, log, diagnostic, err, errorChain(err))
	}
}

// writeError logs err with its details and renders the normalized error body.
func writeError(c *gin.Context, log logrus.FieldLogger, diagnostic bool, err error, details string) {
	kind := apperror.KindOf(err)
	response := ErrorResponse{
		StatusCode: kind.HTTPStatus(),
		TraceId:    TraceID(c),
	}
	switch kind {
	case apperror.KindNotFound:
		response.Message = publicMessage(err)
	case apperror.KindValidation:
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			response.Message = appErr.Message
			response.Errors = appErr.Fields
		}
	case apperror.KindUnauthorized:
		response.Message = "Unauthorized access"
	case apperror.KindForbidden:
		response.Message = "Access forbidden"
	default:
		response.Message = genericErrorMessage
		if diagnostic {
			response.Message = err.Error()
			response.Details = details
		}
	}

	entry := log.WithFields(logrus.Fields{
		"traceId": response.TraceId,
		"status":  response.StatusCode,
		"kind":    kind.String(),
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
	})
	switch kind {
	case apperror.KindInternal:
		entry.WithField("details", details).WithError(err).Error("request failed")
	case apperror.KindNotFound:
		entry.WithError(err).Warn("resource not found")
	default:
		entry.WithError(err).Info("request rejected")
	}

	response.Timestamp = time.Now().UTC()
	c.AbortWithStatusJSON(response.StatusCode, response)
}

// publicMessage returns the message of the first *apperror.Error in err's chain, without the
// context that was added by wrapping it.
func publicMessage(err error) string {
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// errorChain lists every error of err's chain on its own line.
func errorChain(err error) string {
	var lines []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		lines = append(lines, fmt.Sprintf("%T: %v", e, e))
	}
	return strings.Join(lines, "\n")
}

// notFoundHandler answers requests for unknown routes with the normalized body.
func notFoundHandler(c *gin.Context) {
	c.Error(apperror.NotFound("Resource %s not found", c.Request.URL.Path))
}
