package leetcode

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
)

// ─── Test helpers ────────────────────────────────────────────────────────────

const twoSumJSON = `{"data":{"question":{
	"questionId":"1","questionFrontendId":"1","title":"Two Sum","titleSlug":"two-sum",
	"difficulty":"Easy","content":"<p>Given an array of integers...</p>",
	"topicTags":[{"name":"Array","slug":"array"},{"name":"Hash Table","slug":"hash-table"}],
	"codeSnippets":[{"lang":"Python3","langSlug":"python3","code":"class Solution:\n    pass"}],
	"exampleTestcases":"[2,7,11,15]\n9","sampleTestCase":"[2,7,11,15]\n9",
	"hints":["A hint"]}}}`

// testConfig returns a config pointed at ts with millisecond retries.
func testConfig(ts *httptest.Server) Config {
	cfg := DefaultConfig()
	cfg.GraphQLURL = ts.URL + "/graphql/"
	cfg.RESTURL = ts.URL + "/api/problems/all/"
	cfg.Timeout = 2 * time.Second
	cfg.RateLimit = 1000
	cfg.Retry = RetryPolicy{MaxRetries: 2, Base: time.Millisecond, Cap: 5 * time.Millisecond}
	return cfg
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// newTestClient starts a server with handler and returns a client aimed at it.
func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return New(testConfig(ts), quietLogger(), nil), ts
}

// decodeGraphQL reads the POSTed GraphQL request.
func decodeGraphQL(t *testing.T, r *http.Request) graphQLRequest {
	t.Helper()
	var req graphQLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		t.Errorf("decoding graphql request: %v", err)
	}
	return req
}

// ─── FetchBySlug ─────────────────────────────────────────────────────────────

func TestFetchBySlug_Success(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, twoSumJSON)
	})

	p, err := client.FetchBySlug(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("FetchBySlug: %v", err)
	}
	if p == nil {
		t.Fatal("expected a problem, got nil")
	}
	if p.Title != "Two Sum" || p.QuestionFrontendID != "1" || p.Difficulty != DifficultyEasy {
		t.Errorf("unexpected problem: %+v", p)
	}
	if len(p.TopicTags) != 2 || p.TopicTags[1].Slug != "hash-table" {
		t.Errorf("topic tags = %+v", p.TopicTags)
	}
	if len(p.CodeSnippets) != 1 || p.CodeSnippets[0].LangSlug != "python3" {
		t.Errorf("code snippets = %+v", p.CodeSnippets)
	}
	if p.ExampleTestcases == nil || *p.ExampleTestcases != "[2,7,11,15]\n9" {
		t.Errorf("example test cases = %v", p.ExampleTestcases)
	}
}

func TestFetchBySlug_RequestFormat(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		if got := r.Header.Get("Referer"); got != DefaultReferer {
			t.Errorf("Referer = %q", got)
		}
		req := decodeGraphQL(t, r)
		if !strings.Contains(req.Query, "question(titleSlug: $titleSlug)") {
			t.Errorf("unexpected query: %s", req.Query)
		}
		if req.Variables["titleSlug"] != "binary-tree-level-order-traversal-ii" {
			t.Errorf("titleSlug variable = %v", req.Variables["titleSlug"])
		}
		_, _ = io.WriteString(w, twoSumJSON)
	})

	if _, err := client.FetchBySlug(context.Background(), "binary-tree-level-order-traversal-ii"); err != nil {
		t.Fatalf("FetchBySlug: %v", err)
	}
}

func TestFetchBySlug_AbsentIsNotAnError(t *testing.T) {
	bodies := map[string]string{
		"null question": `{"data":{"question":null}}`,
		"null data":     `{"data":null}`,
		"empty object":  `{}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = io.WriteString(w, body)
			})

			p, err := client.FetchBySlug(context.Background(), "non-existent")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if p != nil {
				t.Errorf("expected nil problem, got %+v", p)
			}
		})
	}
}

func TestFetchBySlug_OptionalFieldsMissing(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"data":{"question":{
			"questionId":"100","questionFrontendId":"100","title":"Minimal Problem",
			"titleSlug":"minimal-problem","difficulty":"Easy","content":"<p>Minimal</p>",
			"topicTags":[],"codeSnippets":[],"exampleTestcases":null,"sampleTestCase":null}}}`)
	})

	p, err := client.FetchBySlug(context.Background(), "minimal-problem")
	if err != nil {
		t.Fatalf("FetchBySlug: %v", err)
	}
	if p.ExampleTestcases != nil || p.SampleTestCase != nil {
		t.Error("expected nil test cases")
	}
	if p.Hints == nil || len(p.Hints) != 0 {
		t.Errorf("hints = %#v, want empty slice", p.Hints)
	}
}

func TestFetchBySlug_GraphQLErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = io.WriteString(w, `{"errors":[{"message":"Error 1"},{"message":"Error 2"},{"message":"Error 3"}]}`)
	})

	_, err := client.FetchBySlug(context.Background(), "two-sum")
	if KindOf(err) != KindUpstreamReported {
		t.Fatalf("kind = %v, want upstream error (err: %v)", KindOf(err), err)
	}
	if !strings.Contains(err.Error(), "GraphQL errors: Error 1, Error 2, Error 3") {
		t.Errorf("error message = %q", err.Error())
	}
	if IsRetryable(err) {
		t.Error("upstream-reported errors must not be retryable")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("attempts = %d, want 1", got)
	}
}

func TestFetchBySlug_MalformedIsNotRetried(t *testing.T) {
	bodies := map[string]string{
		"invalid json":     `{"data": {`,
		"wrong types":      `{"data":{"question":{"questionId":1}}}`,
		"missing required": `{"data":{"question":{"questionId":"1","title":"Two Sum","titleSlug":"two-sum"}}}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32
			client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				_, _ = io.WriteString(w, body)
			})

			_, err := client.FetchBySlug(context.Background(), "two-sum")
			if KindOf(err) != KindMalformed {
				t.Fatalf("kind = %v, want malformed (err: %v)", KindOf(err), err)
			}
			if got := calls.Load(); got != 1 {
				t.Errorf("attempts = %d, want 1", got)
			}
		})
	}
}

// ─── Retry policy ────────────────────────────────────────────────────────────

func TestRetry_TwoFailuresThenSuccess(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		_, _ = io.WriteString(w, twoSumJSON)
	}))
	defer ts.Close()

	reg := prometheus.NewRegistry()
	metrics, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	client := New(testConfig(ts), quietLogger(), metrics)

	p, err := client.FetchBySlug(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if p == nil || p.Title != "Two Sum" {
		t.Errorf("unexpected problem: %+v", p)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
	if got := testutil.ToFloat64(metrics.retriesTotal.WithLabelValues(opFetchProblem)); got != 2 {
		t.Errorf("retries metric = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.requestsTotal.WithLabelValues(opFetchProblem, "transient")); got != 2 {
		t.Errorf("transient attempts metric = %v, want 2", got)
	}
}

func TestRetry_ExhaustedAfterThreeAttempts(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.FetchBySlug(context.Background(), "two-sum")
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	var upErr *Error
	if !errors.As(err, &upErr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if upErr.Kind != KindTransient || upErr.Status != http.StatusInternalServerError {
		t.Errorf("error = %+v, want transient 500", upErr)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRetry_ClientErrorStatusIsTransient(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, twoSumJSON)
	})

	if _, err := client.FetchBySlug(context.Background(), "two-sum"); err != nil {
		t.Fatalf("FetchBySlug: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestRetry_ConnectionDropped(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			hj, ok := w.(http.Hijacker)
			if !ok {
				t.Error("response writer does not support hijacking")
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				_ = conn.Close()
			}
			return
		}
		_, _ = io.WriteString(w, twoSumJSON)
	})

	p, err := client.FetchBySlug(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("expected success after dropped connections, got %v", err)
	}
	if p == nil {
		t.Fatal("expected a problem")
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("attempts = %d, want 3", got)
	}
}

func TestRetry_Timeout(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
			return
		}
		_, _ = io.WriteString(w, twoSumJSON)
	}))
	defer ts.Close()

	cfg := testConfig(ts)
	cfg.Timeout = 50 * time.Millisecond
	client := New(cfg, quietLogger(), nil)

	if _, err := client.FetchBySlug(context.Background(), "two-sum"); err != nil {
		t.Fatalf("expected success on second attempt, got %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("attempts = %d, want 2", got)
	}
}

func TestRetry_CancelledContextStops(t *testing.T) {
	var calls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "boom", http.StatusServiceUnavailable)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchBySlug(ctx, "two-sum")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := calls.Load(); got != 0 {
		t.Errorf("attempts = %d, want 0", got)
	}
}

// ─── Rate limiting ───────────────────────────────────────────────────────────

func TestRateLimit_ExcessRequestsWait(t *testing.T) {
	const window = 400 * time.Millisecond

	run := func(n int) time.Duration {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, twoSumJSON)
		}))
		defer ts.Close()

		cfg := testConfig(ts)
		cfg.RateLimit = 10
		cfg.RateWindow = window
		client := New(cfg, quietLogger(), nil)

		var wg sync.WaitGroup
		var failures atomic.Int32
		start := time.Now()
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p, err := client.FetchBySlug(context.Background(), "two-sum")
				if err != nil || p == nil {
					failures.Add(1)
				}
			}()
		}
		wg.Wait()
		if f := failures.Load(); f != 0 {
			t.Errorf("%d of %d requests failed", f, n)
		}
		return time.Since(start)
	}

	withinLimit := run(10)
	overLimit := run(12)

	if overLimit < window {
		t.Errorf("12 requests took %v, want at least one window (%v)", overLimit, window)
	}
	if overLimit <= withinLimit {
		t.Errorf("12 requests (%v) should take longer than 10 (%v)", overLimit, withinLimit)
	}
}

func TestWindowLimiter_ReservesSlotsInOrder(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newWindowLimiter(2, time.Second)
	l.now = func() time.Time { return base }

	for i := 0; i < 2; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}

	// Window is full: the next callers must wait, and a cancelled caller
	// returns immediately with its context error.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait on full window = %v, want context.Canceled", err)
	}
	if err := l.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("second Wait on full window = %v, want context.Canceled", err)
	}

	want := []time.Time{base, base, base.Add(time.Second), base.Add(time.Second)}
	if len(l.admitted) != len(want) {
		t.Fatalf("admitted = %v, want %v", l.admitted, want)
	}
	for i := range want {
		if !l.admitted[i].Equal(want[i]) {
			t.Errorf("admitted[%d] = %v, want %v", i, l.admitted[i], want[i])
		}
	}

	// Once the window has passed, old admissions are pruned.
	l.now = func() time.Time { return base.Add(3 * time.Second) }
	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("Wait after window: %v", err)
	}
	if len(l.admitted) != 1 {
		t.Errorf("admitted after prune = %d entries, want 1", len(l.admitted))
	}
}

// ─── Config / metrics ────────────────────────────────────────────────────────

func TestNew_AppliesDefaults(t *testing.T) {
	c := New(Config{}, nil, nil)
	if c.cfg.GraphQLURL != DefaultGraphQLURL || c.cfg.RESTURL != DefaultRESTURL {
		t.Errorf("urls = %q %q", c.cfg.GraphQLURL, c.cfg.RESTURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
	if c.limiter.limit != DefaultRateLimit || c.limiter.window != DefaultRateWindow {
		t.Errorf("limiter = %d/%v", c.limiter.limit, c.limiter.window)
	}
	if c.retry.MaxRetries != 0 || c.retry.Base != DefaultRetryBase || c.retry.Cap != DefaultRetryCap {
		t.Errorf("retry = %+v", c.retry)
	}
}

func TestNewMetrics_DuplicateRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewMetrics(reg); err != nil {
		t.Fatalf("first NewMetrics: %v", err)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Error("expected error registering metrics twice")
	}
}
