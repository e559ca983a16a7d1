package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gitlab.com/dirk.krummacker/person-service/internal/apperror"
	"gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// PersonService is the application logic the handlers delegate to.
type PersonService interface {
	ListAll(ctx context.Context) ([]model.Person, error)
	GetByID(ctx context.Context, id int64) (model.Person, error)
	Create(ctx context.Context, input model.CreatePerson) (model.Person, error)
	Update(ctx context.Context, id int64, input model.UpdatePerson) (model.Person, error)
	Delete(ctx context.Context, id int64) error
}

// personHandler binds the REST endpoints to a PersonService.
type personHandler struct {
	service      PersonService
	log          logrus.FieldLogger
	cacheControl string
}

func newPersonHandler(service PersonService, log logrus.FieldLogger, listCacheMaxAge time.Duration) *personHandler {
	cacheControl := "no-store"
	if seconds := int(listCacheMaxAge.Seconds()); seconds > 0 {
		cacheControl = fmt.Sprintf("public, max-age=%d", seconds)
	}
	return &personHandler{service: service, log: log, cacheControl: cacheControl}
}

// findPersons responds with the list of all persons as JSON, ordered by id. Clients may cache
// the list for the configured time.
//
// REST API call:
//
//	> curl "http://localhost:8080/api/v1/persons"
func (h *personHandler) findPersons(c *gin.Context) {
	persons, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}
	h.entry(c).WithField("count", len(persons)).Info("listed persons")
	c.Header("Cache-Control", h.cacheControl)
	c.IndentedJSON(http.StatusOK, persons)
}

// findPersonByID locates the person whose id matches the id parameter and responds with it.
//
// REST API call:
//
//	> curl "http://localhost:8080/api/v1/persons/1"
func (h *personHandler) findPersonByID(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	person, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	c.IndentedJSON(http.StatusOK, person)
}

// existsPersonByID answers with 200 and no body if the person exists, or 404 otherwise.
//
// REST API call:
//
//	> curl --head "http://localhost:8080/api/v1/persons/1"
func (h *personHandler) existsPersonByID(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if _, err := h.service.GetByID(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	c.Status(http.StatusOK)
}

// createPerson adds a person from JSON received in the request body. The response carries the
// stored person and its location.
//
// REST API call:
//
//	> curl "http://localhost:8080/api/v1/persons" \
//	    --include \
//	    --header "Content-Type: application/json" \
//	    --request "POST" \
//	    --data '{"firstName": "Erika", "lastName": "Mustermann", "age": 56}'
func (h *personHandler) createPerson(c *gin.Context) {
	var input model.CreatePerson
	if err := bindBody(c, &input); err != nil {
		c.Error(err)
		return
	}
	person, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}
	h.entry(c).WithField("personId", person.PersonId).Info("created person")
	c.Header("Location", fmt.Sprintf("%s/%d", personsPath, person.PersonId))
	c.IndentedJSON(http.StatusCreated, person)
}

// updatePersonByID replaces first name, last name and age of the person whose id matches the id
// parameter with the values from the JSON request body.
//
// REST API call:
//
//	> curl "http://localhost:8080/api/v1/persons/1" \
//	    --include \
//	    --header "Content-Type: application/json" \
//	    --request "PUT" \
//	    --data '{"firstName": "Rudi", "lastName": "Völler", "age": 64}'
func (h *personHandler) updatePersonByID(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	var input model.UpdatePerson
	if err := bindBody(c, &input); err != nil {
		c.Error(err)
		return
	}
	person, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		c.Error(err)
		return
	}
	h.entry(c).WithField("personId", person.PersonId).Info("updated person")
	c.IndentedJSON(http.StatusOK, person)
}

// deletePersonByID removes the person whose id matches the id parameter.
//
// REST API call:
//
//	> curl "http://localhost:8080/api/v1/persons/1" \
//	    --include \
//	    --request "DELETE"
func (h *personHandler) deletePersonByID(c *gin.Context) {
	id, ok := parseId(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		c.Error(err)
		return
	}
	h.entry(c).WithField("personId", id).Info("deleted person")
	c.Status(http.StatusNoContent)
}

func (h *personHandler) entry(c *gin.Context) *logrus.Entry {
	return h.log.WithField("traceId", TraceID(c))
}

// parseId reads the id path parameter. Ids are positive integers; anything else cannot name a
// person, so the request is answered with 404.
func parseId(c *gin.Context) (int64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		c.Error(apperror.NotFound("Person with ID %s not found", raw))
		return 0, false
	}
	return id, true
}
