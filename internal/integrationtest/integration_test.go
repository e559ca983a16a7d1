package integrationtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/person-service/internal/api"
	"gitlab.com/dirk.krummacker/person-service/internal/config"
	"gitlab.com/dirk.krummacker/person-service/internal/database"
	"gitlab.com/dirk.krummacker/person-service/internal/logging"
	"gitlab.com/dirk.krummacker/person-service/internal/repository"
	"gitlab.com/dirk.krummacker/person-service/internal/service"
	"gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// setupRouter migrates the database named by the environment and returns a router on top of it.
// The test is skipped if DBHOST is not set.
func setupRouter(t *testing.T) *gin.Engine {
	if os.Getenv("DBHOST") == "" {
		t.Skip("DBHOST is not set, skipping test against a real database")
	}
	cfg, err := config.Load("")
	require.NoError(t, err)
	log := logging.Discard()
	require.NoError(t, database.Migrate(cfg, log))

	sqlDB, err := database.CreateDatabase(cfg)
	require.NoError(t, err)
	db := sqlx.NewDb(sqlDB, "mysql")
	repo, err := repository.NewPersonRepository(db)
	require.NoError(t, err)
	t.Cleanup(func() {
		repo.Close()
		db.Close()
	})

	gin.SetMode(gin.ReleaseMode)
	return api.SetupHttpRouter(service.NewPersonService(repo), log, api.Options{})
}

func send(router *gin.Engine, method string, url string, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request, _ := http.NewRequest(method, url, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(recorder, request)
	return recorder
}

// TestPersonHappyPath tests a POST, GET, PUT, and DELETE with valid data.
func TestPersonHappyPath(t *testing.T) {
	router := setupRouter(t)

	// test the endpoint for creating a person
	postRecorder := send(router, "POST", "/api/v1/persons",
		`{"firstName": "Erika", "lastName": "Mustermann", "age": 56}`)
	require.Equal(t, http.StatusCreated, postRecorder.Code)
	var created model.Person
	require.NoError(t, json.Unmarshal(postRecorder.Body.Bytes(), &created))
	assert.Equal(t, "Erika", created.FirstName)
	assert.Equal(t, "Mustermann", created.LastName)
	assert.Equal(t, 56, created.Age)
	assert.Nil(t, created.UpdatedAt)
	url := fmt.Sprintf("/api/v1/persons/%d", created.PersonId)
	assert.Equal(t, url, postRecorder.Header().Get("Location"))

	// test the endpoint for finding a person
	getRecorder := send(router, "GET", url, "")
	assert.Equal(t, http.StatusOK, getRecorder.Code)
	var fetched model.Person
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &fetched))
	assert.Equal(t, created, fetched)

	// test the endpoint for updating a person
	putRecorder := send(router, "PUT", url, `{"firstName": "Rudi", "lastName": "Völler", "age": 64}`)
	assert.Equal(t, http.StatusOK, putRecorder.Code)
	var updated model.Person
	require.NoError(t, json.Unmarshal(putRecorder.Body.Bytes(), &updated))
	assert.Equal(t, created.PersonId, updated.PersonId)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Rudi", updated.FirstName)
	require.NotNil(t, updated.UpdatedAt)

	// test if a subsequent lookup of the person returns the updated values
	getRecorder = send(router, "GET", url, "")
	require.NoError(t, json.Unmarshal(getRecorder.Body.Bytes(), &fetched))
	assert.Equal(t, updated, fetched)

	// test the endpoint for listing persons
	listRecorder := send(router, "GET", "/api/v1/persons", "")
	assert.Equal(t, http.StatusOK, listRecorder.Code)
	var persons []model.Person
	require.NoError(t, json.Unmarshal(listRecorder.Body.Bytes(), &persons))
	assert.Contains(t, persons, updated)
	for i := 1; i < len(persons); i++ {
		assert.Less(t, persons[i-1].PersonId, persons[i].PersonId)
	}

	// test the endpoint for deleting a person
	assert.Equal(t, http.StatusNoContent, send(router, "DELETE", url, "").Code)
	assert.Equal(t, http.StatusNotFound, send(router, "GET", url, "").Code)
	assert.Equal(t, http.StatusNotFound, send(router, "DELETE", url, "").Code)
	assert.Equal(t, http.StatusNotFound,
		send(router, "PUT", url, `{"firstName": "Rudi", "lastName": "Völler", "age": 64}`).Code)
}

// TestSeededPersons expects the seed migration to have stored John Doe and Jane Smith.
func TestSeededPersons(t *testing.T) {
	router := setupRouter(t)

	listRecorder := send(router, "GET", "/api/v1/persons", "")
	require.Equal(t, http.StatusOK, listRecorder.Code)
	var persons []model.Person
	require.NoError(t, json.Unmarshal(listRecorder.Body.Bytes(), &persons))

	names := map[string]int{}
	for _, p := range persons {
		names[p.FirstName+" "+p.LastName] = p.Age
	}
	assert.Equal(t, 30, names["John Doe"])
	assert.Equal(t, 25, names["Jane Smith"])
}

// TestInvalidPerson expects invalid input to be rejected without being stored.
func TestInvalidPerson(t *testing.T) {
	router := setupRouter(t)

	recorder := send(router, "POST", "/api/v1/persons", `{"firstName": "J", "lastName": "Doe", "age": 200}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	var response api.ErrorResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Contains(t, response.Errors, "firstName")
	assert.Contains(t, response.Errors, "age")
}
