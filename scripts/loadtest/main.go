// Loadtest hammers the landing page with concurrent GET requests and checks
// that every successful response carries the same body.
//
// Usage:
//
//	go run ./scripts/loadtest -url http://localhost:8080/ -concurrency 20 -requests 2000
//	go run ./scripts/loadtest -url http://localhost:8080/ -out summary.json
//
// It reports throughput, status codes, latency percentiles (p50, p90, p95,
// p99) and the number of distinct bodies seen. It exits with status 2 on any
// failed request and 3 when responses differ.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

type summary struct {
	Target        string         `json:"target"`
	Requests      int            `json:"requests"`
	Concurrency   int            `json:"concurrency"`
	Success       int32          `json:"success"`
	Failure       int32          `json:"failure"`
	DurationMS    int64          `json:"duration_ms"`
	ThroughputRPS float64        `json:"throughput_rps"`
	StatusCodes   map[int]int32  `json:"status_codes"`
	Bodies        map[string]int `json:"bodies"`
	P50MS         float64        `json:"p50_ms"`
	P90MS         float64        `json:"p90_ms"`
	P95MS         float64        `json:"p95_ms"`
	P99MS         float64        `json:"p99_ms"`
}

func main() {
	var (
		url         = flag.String("url", "http://localhost:8080/", "Target URL")
		concurrency = flag.Int("concurrency", 10, "Number of concurrent workers")
		requests    = flag.Int("requests", 100, "Total number of requests to send")
		timeoutSec  = flag.Int("timeout", 10, "Per-request timeout in seconds")
		outJSON     = flag.String("out", "", "Write JSON summary to this file (optional)")
		verbose     = flag.Bool("v", false, "Verbose per-request logging to stdout")
	)
	flag.Parse()

	client := &http.Client{Timeout: time.Duration(*timeoutSec) * time.Second}

	jobs := make(chan int)
	var wg sync.WaitGroup

	var success, failure int32

	var mu sync.Mutex
	latencies := make([]time.Duration, 0, *requests)
	statusCodes := make(map[int]int32)
	bodies := make(map[string]int)

	testStart := time.Now()

	for i := 0; i < *concurrency; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for idx := range jobs {
				start := time.Now()
				resp, err := client.Get(*url)
				if err != nil {
					atomic.AddInt32(&failure, 1)
					if *verbose {
						fmt.Printf("[%d] idx=%d error=%v\n", workerID, idx, err)
					}
					continue
				}

				h := sha256.New()
				_, copyErr := io.Copy(h, resp.Body)
				resp.Body.Close()
				dur := time.Since(start)

				mu.Lock()
				latencies = append(latencies, dur)
				statusCodes[resp.StatusCode]++
				if resp.StatusCode == http.StatusOK && copyErr == nil {
					bodies[hex.EncodeToString(h.Sum(nil))[:12]]++
				}
				mu.Unlock()

				if resp.StatusCode == http.StatusOK && copyErr == nil {
					atomic.AddInt32(&success, 1)
				} else {
					atomic.AddInt32(&failure, 1)
				}

				if *verbose {
					fmt.Printf("[%d] idx=%d status=%d dur=%v\n", workerID, idx, resp.StatusCode, dur)
				}
			}
		}(i)
	}

	go func() {
		for i := 0; i < *requests; i++ {
			jobs <- i
		}
		close(jobs)
	}()

	wg.Wait()
	totalDuration := time.Since(testStart)

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	pick := func(p float64) float64 {
		if len(latencies) == 0 {
			return 0
		}
		return float64(latencies[int(float64(len(latencies)-1)*p)].Microseconds()) / 1000.0
	}

	report := summary{
		Target:        *url,
		Requests:      *requests,
		Concurrency:   *concurrency,
		Success:       success,
		Failure:       failure,
		DurationMS:    totalDuration.Milliseconds(),
		ThroughputRPS: float64(success+failure) / totalDuration.Seconds(),
		StatusCodes:   statusCodes,
		Bodies:        bodies,
		P50MS:         pick(0.50),
		P90MS:         pick(0.90),
		P95MS:         pick(0.95),
		P99MS:         pick(0.99),
	}

	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s\n", report.Target)
	fmt.Printf("Requests: %d  Concurrency: %d\n", report.Requests, report.Concurrency)
	fmt.Printf("Success: %d  Failure: %d\n", report.Success, report.Failure)
	fmt.Printf("Duration: %v  Throughput: %.2f req/s\n", totalDuration, report.ThroughputRPS)
	fmt.Printf("Latency ms: p50=%.2f p90=%.2f p95=%.2f p99=%.2f\n", report.P50MS, report.P90MS, report.P95MS, report.P99MS)

	fmt.Println("\nStatus codes:")
	var codes []int
	for k := range statusCodes {
		codes = append(codes, k)
	}
	sort.Ints(codes)
	for _, k := range codes {
		fmt.Printf("  %d -> %d\n", k, statusCodes[k])
	}

	fmt.Printf("\nDistinct bodies: %d\n", len(bodies))
	fmt.Printf("GOMAXPROCS=%d  NumGoroutine=%d\n", runtime.GOMAXPROCS(0), runtime.NumGoroutine())

	if *outJSON != "" {
		f, err := os.Create(*outJSON)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create json file: %v\n", err)
			os.Exit(1)
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		enc.Encode(report)
		f.Close()
		fmt.Printf("Wrote JSON summary to %s\n", *outJSON)
	}

	if failure > 0 {
		os.Exit(2)
	}
	if len(bodies) > 1 {
		os.Exit(3)
	}
}
