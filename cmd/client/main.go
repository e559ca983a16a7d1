package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/person-service/pkg/model"
)

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080/api/v1/persons -sizes=1000,5000
func main() {
	baseURL := flag.String("url", "http://localhost:8080/api/v1/persons", "the URL of the persons endpoint")
	var sizes sizeList = []int{1000, 5000, 10000, 50000, 100000}
	flag.Var(&sizes, "sizes", "comma-separated number of requests per round")
	flag.Parse()

	c := client{baseURL: *baseURL, http: &http.Client{Timeout: 10 * time.Second}}
	postBody := mustMarshal(model.CreatePerson{FirstName: "Marcus", LastName: "Antonius", Age: 53})
	putBody := mustMarshal(model.UpdatePerson{FirstName: "Gaius", LastName: "Octavius", Age: 76})

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	for _, loops := range sizes {
		firstID, _ := c.sendPostRequest(postBody)
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := c.sendPostRequest(postBody)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				return c.sendPutGetDeleteRequest(id, http.MethodPut, putBody)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return c.sendPutGetDeleteRequest(id, http.MethodGet, nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return c.sendPutGetDeleteRequest(id, http.MethodDelete, nil)
			}
			callInLoop(firstID, loops, f)
		}
		c.sendPutGetDeleteRequest(firstID, http.MethodDelete, nil)
		fmt.Println()
	}
}

// callInLoop calls f for the ids following firstID in random order and prints the average
// duration in microseconds.
func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

type client struct {
	baseURL string
	http    *http.Client
}

func (c client) sendPostRequest(body []byte) (int64, int64) {
	resBody, status, duration := c.sendRequest(http.MethodPost, c.baseURL, body)
	if status != http.StatusCreated {
		panic(fmt.Sprintf("unexpected status %d: %s", status, resBody))
	}
	var person model.Person
	err := json.Unmarshal(resBody, &person)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return person.PersonId, duration
}

func (c client) sendPutGetDeleteRequest(id int64, method string, body []byte) int64 {
	requestURL := fmt.Sprintf("%s/%d", c.baseURL, id)
	_, _, duration := c.sendRequest(method, requestURL, body)
	return duration
}

// sendRequest returns the response body, the status code, and the round trip time in nanoseconds.
func (c client) sendRequest(method string, requestURL string, body []byte) ([]byte, int, int64) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now().UnixNano()
	res, err := c.http.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, res.StatusCode, after - before
}

func mustMarshal(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
