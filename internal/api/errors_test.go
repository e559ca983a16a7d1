package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"gitlab.com/dirk.krummacker/person-service/internal/apperror"
)

// failWith returns a router whose only route fails with err.
func failWith(err error, diagnostic bool) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	log, _ := logtest.NewNullLogger()
	router := gin.New()
	router.Use(Trace(), ErrorHandler(log, diagnostic))
	router.GET("/fail", func(c *gin.Context) { c.Error(err) })
	return router
}

func TestErrorHandlerKinds(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		message string
	}{
		{apperror.NotFound("Person with ID %d not found", 7), http.StatusNotFound, "Person with ID 7 not found"},
		{fmt.Errorf("delete person: %w", apperror.NotFound("Person with ID %d not found", 7)), http.StatusNotFound, "Person with ID 7 not found"},
		{apperror.Validation(map[string][]string{"age": {"age is required"}}), http.StatusBadRequest, "Validation failed"},
		{apperror.Unauthorized("token expired"), http.StatusUnauthorized, "Unauthorized access"},
		{apperror.Forbidden(""), http.StatusForbidden, "Access forbidden"},
		{errors.New("disk full"), http.StatusInternalServerError, genericErrorMessage},
	}
	for _, tc := range cases {
		t.Run(tc.err.Error(), func(t *testing.T) {
			recorder := httptest.NewRecorder()
			request, _ := http.NewRequest("GET", "/fail", nil)
			failWith(tc.err, false).ServeHTTP(recorder, request)

			assert.Equal(t, tc.status, recorder.Code)
			response := decodeError(t, recorder)
			assert.Equal(t, tc.status, response.StatusCode)
			assert.Equal(t, tc.message, response.Message)
			assert.Empty(t, response.Details)
		})
	}
}

func TestErrorHandlerOmitsEmptyFields(t *testing.T) {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest("GET", "/fail", nil)
	failWith(apperror.Forbidden(""), true).ServeHTTP(recorder, request)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.NotContains(t, body, "details")
	assert.NotContains(t, body, "errors")
	assert.Contains(t, body, "traceId")
	assert.Contains(t, body, "timestamp")
}

func TestErrorChain(t *testing.T) {
	err := fmt.Errorf("list persons: %w", errors.New("connection refused"))
	chain := errorChain(err)
	assert.Contains(t, chain, "*fmt.wrapError: list persons: connection refused")
	assert.Contains(t, chain, "*errors.errorString: connection refused")
}
