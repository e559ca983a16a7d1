// Package api is the HTTP surface of the person service: routing, request binding, and the
// translation of errors into a single JSON error format.
package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gitlab.com/dirk.krummacker/person-service/internal/metrics"
)

const (
	// BasePath is the prefix of all versioned endpoints.
	BasePath    = "/api/v1"
	personsPath = BasePath + "/persons"
)

// Options controls the behavior of the router.
type Options struct {
	// Diagnostic exposes error messages and details of internal errors to clients.
	Diagnostic bool
	// RequestLogging writes a log entry for every request.
	RequestLogging bool
	// AllowedOrigins are the origins browser clients may call the API from.
	AllowedOrigins []string
	// ListCacheMaxAge is how long clients may cache the list of persons. Zero disables caching.
	ListCacheMaxAge time.Duration
}

// SetupHttpRouter initializes the REST API router and registers all endpoints.
func SetupHttpRouter(service PersonService, log logrus.FieldLogger, opts Options) *gin.Engine {
	useJsonFieldNames()

	router := gin.New()
	router.Use(Trace())
	if opts.RequestLogging {
		router.Use(RequestLogger(log))
	}
	router.Use(metrics.Instrument(), CORS(opts.AllowedOrigins), ErrorHandler(log, opts.Diagnostic))
	router.NoRoute(notFoundHandler)

	router.GET(metrics.Path, gin.WrapH(metrics.Handler()))

	h := newPersonHandler(service, log, opts.ListCacheMaxAge)
	persons := router.Group(personsPath)
	persons.GET("", h.findPersons)
	persons.POST("", h.createPerson)
	persons.GET("/:id", h.findPersonByID)
	persons.HEAD("/:id", h.existsPersonByID)
	persons.PUT("/:id", h.updatePersonByID)
	persons.DELETE("/:id", h.deletePersonByID)
	return router
}
