package main

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

// Usage example on the command line:
// > BASE_URL=http://localhost:8080/api/v1/persons MAX_WAIT=120s go run main.go
func main() {
	url := os.Getenv("BASE_URL")
	if url == "" {
		url = "http://localhost:8080/api/v1/persons"
	}
	maxWait := 5 * time.Minute
	if value := os.Getenv("MAX_WAIT"); value != "" {
		d, err := time.ParseDuration(value)
		if err != nil {
			fmt.Println("could not parse MAX_WAIT env variable", err)
			os.Exit(2)
		}
		maxWait = d
	}

	client := &http.Client{Timeout: 5 * time.Second}
	var totalWaitTime time.Duration
	for {
		res, err := client.Get(url)
		if err == nil {
			res.Body.Close()
			if res.StatusCode == http.StatusOK {
				fmt.Println(res.Status)
				return
			}
			fmt.Println(res.Status)
		} else {
			fmt.Println(err)
		}
		if totalWaitTime >= maxWait {
			fmt.Printf("%s did not become available within %s", url, maxWait)
			fmt.Println()
			os.Exit(1)
		}
		totalWaitTime += 5 * time.Second
		fmt.Printf("Waiting %d seconds", int(totalWaitTime.Seconds()))
		fmt.Println()
		time.Sleep(5 * time.Second)
	}
}
