// Package benchmark is a load-test tool, not a correctness test: it fires
// concurrent HTTP requests at a running scenario engine and reports
// latency/throughput. Adapted from the teacher's generic API benchmarking
// harness, with the auth-token header dropped (no authentication in this
// domain) and pointed at the scenario/sim/dependency endpoints.
package benchmark

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// APIBenchmark fires Requests calls at one endpoint with Concurrency
// workers in flight at a time.
type APIBenchmark struct {
	BaseURL     string
	Concurrency int
	Requests    int
	Client      *http.Client
}

// BenchmarkResult summarizes one RunGET/RunPOST call.
type BenchmarkResult struct {
	URL            string        `json:"url"`
	Method         string        `json:"method"`
	Concurrency    int           `json:"concurrency"`
	TotalRequests  int           `json:"total_requests"`
	SuccessCount   int           `json:"success_count"`
	FailureCount   int           `json:"failure_count"`
	TotalTime      time.Duration `json:"total_time"`
	AverageTime    time.Duration `json:"average_time"`
	MinTime        time.Duration `json:"min_time"`
	MaxTime        time.Duration `json:"max_time"`
	RequestsPerSec float64       `json:"requests_per_sec"`
	StatusCodes    map[int]int   `json:"status_codes"`
	Errors         []string      `json:"errors"`
}

type requestResult struct {
	Duration   time.Duration
	StatusCode int
	Error      error
}

// NewAPIBenchmark constructs a benchmark run against baseURL.
func NewAPIBenchmark(baseURL string, concurrency, requests int) *APIBenchmark {
	return &APIBenchmark{
		BaseURL:     baseURL,
		Concurrency: concurrency,
		Requests:    requests,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// RunGET benchmarks a GET endpoint, e.g. a run's tick poll.
func (b *APIBenchmark) RunGET(path string) *BenchmarkResult {
	return b.runTest(http.MethodGet, b.BaseURL+path, nil)
}

// RunPOST benchmarks a POST endpoint, e.g. prepare or start.
func (b *APIBenchmark) RunPOST(path string, payload interface{}) *BenchmarkResult {
	url := b.BaseURL + path
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return &BenchmarkResult{URL: url, Method: http.MethodPost, Errors: []string{fmt.Sprintf("json encode: %v", err)}}
	}
	return b.runTest(http.MethodPost, url, jsonData)
}

func (b *APIBenchmark) runTest(method, url string, payload []byte) *BenchmarkResult {
	results := make(chan requestResult, b.Requests)
	var wg sync.WaitGroup
	limiter := make(chan struct{}, b.Concurrency)

	startTime := time.Now()

	for i := 0; i < b.Requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			limiter <- struct{}{}
			defer func() { <-limiter }()

			start := time.Now()
			req, err := http.NewRequest(method, url, bytes.NewBuffer(payload))
			if err != nil {
				results <- requestResult{Error: err}
				return
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := b.Client.Do(req)
			if err != nil {
				results <- requestResult{Error: err}
				return
			}
			defer resp.Body.Close()

			results <- requestResult{Duration: time.Since(start), StatusCode: resp.StatusCode}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var minTime time.Duration = 1<<63 - 1
	var maxTime, totalTime time.Duration
	successCount, failureCount := 0, 0
	statusCodes := make(map[int]int)
	var errs []string

	for result := range results {
		if result.Error != nil {
			failureCount++
			errs = append(errs, result.Error.Error())
			continue
		}

		totalTime += result.Duration
		if result.Duration < minTime {
			minTime = result.Duration
		}
		if result.Duration > maxTime {
			maxTime = result.Duration
		}

		statusCodes[result.StatusCode]++
		if result.StatusCode >= 200 && result.StatusCode < 300 {
			successCount++
		} else {
			failureCount++
		}
	}

	totalElapsed := time.Since(startTime)
	requestsPerSec := float64(b.Requests) / totalElapsed.Seconds()
	averageTime := time.Duration(0)
	if successCount+failureCount > 0 {
		averageTime = totalTime / time.Duration(successCount+failureCount)
	}

	return &BenchmarkResult{
		URL:            url,
		Method:         method,
		Concurrency:    b.Concurrency,
		TotalRequests:  b.Requests,
		SuccessCount:   successCount,
		FailureCount:   failureCount,
		TotalTime:      totalElapsed,
		AverageTime:    averageTime,
		MinTime:        minTime,
		MaxTime:        maxTime,
		RequestsPerSec: requestsPerSec,
		StatusCodes:    statusCodes,
		Errors:         errs,
	}
}

// PrintResult prints a human-readable summary to stdout.
func (r *BenchmarkResult) PrintResult() {
	fmt.Printf("benchmark result:\n")
	fmt.Printf("url: %s\n", r.URL)
	fmt.Printf("method: %s\n", r.Method)
	fmt.Printf("concurrency: %d\n", r.Concurrency)
	fmt.Printf("total requests: %d\n", r.TotalRequests)
	fmt.Printf("success: %d, failure: %d\n", r.SuccessCount, r.FailureCount)
	fmt.Printf("total time: %s, average: %s, min: %s, max: %s\n", r.TotalTime, r.AverageTime, r.MinTime, r.MaxTime)
	fmt.Printf("requests/sec: %.2f\n", r.RequestsPerSec)
	fmt.Printf("status codes:\n")
	for code, count := range r.StatusCodes {
		fmt.Printf("  %d: %d\n", code, count)
	}
	if len(r.Errors) > 0 {
		fmt.Printf("errors (up to 5 shown):\n")
		for i, err := range r.Errors {
			if i >= 5 {
				fmt.Printf("  ... %d more\n", len(r.Errors)-5)
				break
			}
			fmt.Printf("  %s\n", err)
		}
	}
}
