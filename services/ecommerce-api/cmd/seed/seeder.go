// Seeder populates a running API with products, customers and orders over HTTP.
//
// Example:
//
//	go run ./services/ecommerce-api/cmd/seed \
//	  -products=50 -customers=200 -orders=1000 \
//	  -workers=20 -rps=200 \
//	  -apiUrl=http://localhost:8080
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nimeshabuddhika/ecommerce-data-api/pkg"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// --------- CLI flags ---------
var (
	noOfProducts       = flag.Int("products", 20, "Number of products to create")
	noOfCustomers      = flag.Int("customers", 50, "Number of customers to create")
	noOfOrders         = flag.Int("orders", 100, "Number of orders to create")
	maxProductsPerOrd  = flag.Int("maxProductsPerOrder", 5, "Upper bound of products linked to one order")
	workers            = flag.Int("workers", 10, "Max in-flight HTTP requests (worker pool size)")
	rps                = flag.Int("rps", 100, "Global requests-per-second limit")
	apiURL             = flag.String("apiUrl", "http://localhost:8080", "API base URL")
	httpClientTimeoutS = flag.Int("httpClientTimeoutS", 5, "Total HTTP client timeout (s)")
)

// request is one POST to the API; onCreated receives the id from the response data.
type request struct {
	path      string
	body      any
	onCreated func(id int64)
}

type Seeder struct {
	apiURL     string
	workers    int
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *zap.Logger

	sent int64
	ok   int64
	fail int64
}

func main() {
	flag.Parse()

	pkg.InitLogger()
	logger := pkg.Logger
	defer logger.Sync()

	if *rps <= 0 || *workers <= 0 {
		logger.Fatal("rps and workers must be positive")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	s := &Seeder{
		apiURL:  *apiURL,
		workers: *workers,
		limiter: rate.NewLimiter(rate.Limit(*rps), *rps),
		httpClient: &http.Client{
			Timeout: time.Duration(*httpClientTimeoutS) * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: *workers,
				DialContext: (&net.Dialer{
					Timeout:   3 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
			},
		},
		logger: logger,
	}

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		logger.Error("seeding failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("seeding completed",
		zap.Duration("duration", time.Since(start)),
		zap.Int64("sent", atomic.LoadInt64(&s.sent)),
		zap.Int64("success", atomic.LoadInt64(&s.ok)),
		zap.Int64("failed", atomic.LoadInt64(&s.fail)),
	)
}

// Run seeds products and customers first, then orders that reference them.
func (s *Seeder) Run(ctx context.Context) error {
	var mu sync.Mutex
	var productIDs, customerIDs []int64
	collect := func(ids *[]int64) func(int64) {
		return func(id int64) {
			mu.Lock()
			*ids = append(*ids, id)
			mu.Unlock()
		}
	}

	var reqs []request
	for i := 0; i < *noOfProducts; i++ {
		reqs = append(reqs, request{
			path: "/products",
			body: map[string]any{
				"name":  fmt.Sprintf("Product %d", i+1),
				"price": float64(rand.Intn(10000)) / 100,
			},
			onCreated: collect(&productIDs),
		})
	}
	for i := 0; i < *noOfCustomers; i++ {
		tag := uuid.NewString()[:8]
		reqs = append(reqs, request{
			path: "/customers",
			body: map[string]any{
				"name":  fmt.Sprintf("Customer %s", tag),
				"email": fmt.Sprintf("%s@example.com", tag),
				"phone": fmt.Sprintf("555%07d", rand.Intn(10_000_000)),
			},
			onCreated: collect(&customerIDs),
		})
	}
	s.dispatch(ctx, reqs)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if len(customerIDs) == 0 {
		return fmt.Errorf("no customers available to place orders")
	}

	reqs = reqs[:0]
	for i := 0; i < *noOfOrders; i++ {
		reqs = append(reqs, request{
			path: "/orders",
			body: map[string]any{
				"customer_id": customerIDs[rand.Intn(len(customerIDs))],
				"product_ids": pick(productIDs, rand.Intn(*maxProductsPerOrd+1)),
			},
		})
	}
	s.dispatch(ctx, reqs)
	return ctx.Err()
}

// dispatch sends reqs through the worker pool, throttled by the limiter, and
// returns once every request has completed.
func (s *Seeder) dispatch(ctx context.Context, reqs []request) {
	jobs := make(chan request, min(len(reqs), 1000))
	var wg sync.WaitGroup
	wg.Add(s.workers)
	for i := 0; i < s.workers; i++ {
		go func() {
			defer wg.Done()
			for r := range jobs {
				if err := s.limiter.Wait(ctx); err != nil {
					s.logger.Warn("limiter wait interrupted", zap.Error(err))
					return
				}
				s.post(ctx, r)
			}
		}()
	}

enqueue:
	for _, r := range reqs {
		select {
		case <-ctx.Done():
			break enqueue
		case jobs <- r:
		}
	}
	close(jobs)
	wg.Wait()
}

func (s *Seeder) post(ctx context.Context, r request) {
	atomic.AddInt64(&s.sent, 1)
	body, _ := json.Marshal(r.body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL+r.path, bytes.NewReader(body))
	if err != nil {
		atomic.AddInt64(&s.fail, 1)
		s.logger.Error("build request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(pkg.HeaderTraceId, uuid.NewString())
	req.Header.Set(pkg.HeaderRequestId, uuid.NewString())

	start := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		atomic.AddInt64(&s.fail, 1)
		s.logger.Error("api call failed", zap.String("path", r.path), zap.Error(err))
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		atomic.AddInt64(&s.fail, 1)
		s.logger.Error("api call rejected",
			zap.String("path", r.path),
			zap.Int("status_code", resp.StatusCode),
			zap.String(pkg.TraceId, resp.Header.Get(pkg.HeaderTraceId)),
		)
		return
	}
	atomic.AddInt64(&s.ok, 1)

	if r.onCreated != nil {
		var created struct {
			Data struct {
				ID int64 `json:"id"`
			} `json:"data"`
		}
		if err = json.NewDecoder(resp.Body).Decode(&created); err == nil && created.Data.ID > 0 {
			r.onCreated(created.Data.ID)
		}
	}
	s.logger.Debug("api call completed",
		zap.String("path", r.path),
		zap.String(pkg.TraceId, resp.Header.Get(pkg.HeaderTraceId)),
		zap.Duration("latency", time.Since(start)),
	)
}

// pick returns up to n random ids from ids, possibly repeating.
func pick(ids []int64, n int) []int64 {
	out := make([]int64, 0, n)
	if len(ids) == 0 {
		return out
	}
	for i := 0; i < n; i++ {
		out = append(out, ids[rand.Intn(len(ids))])
	}
	return out
}
