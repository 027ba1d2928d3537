package leetcode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// catalogFixture serves a GraphQL catalog of n entries plus a REST
// fallback. failAtSkip makes the page at that skip structurally broken
// (-1 disables).
type catalogFixture struct {
	mu         sync.Mutex
	n          int
	failAtSkip int
	failREST   bool
	skips      []int
	restCalls  atomic.Int32
}

func (f *catalogFixture) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/problems/all") {
			f.restCalls.Add(1)
			if f.failREST {
				_, _ = io.WriteString(w, `not json`)
				return
			}
			// Newest first, as the real endpoint returns it.
			_, _ = io.WriteString(w, `{"stat_status_pairs":[
				{"stat":{"frontend_question_id":15,"question__title":"3Sum","question__title_slug":"3sum"},"difficulty":{"level":2}},
				{"stat":{"frontend_question_id":0,"question__title":"","question__title_slug":""},"difficulty":{"level":1}},
				{"stat":{"frontend_question_id":2,"question__title":"Add Two Numbers","question__title_slug":"add-two-numbers"},"difficulty":{"level":2}},
				{"stat":{"frontend_question_id":1,"question__title":"Two Sum","question__title_slug":"two-sum"},"difficulty":{"level":1}},
				{"stat":{"frontend_question_id":42,"question__title":"Trapping Rain Water","question__title_slug":"trapping-rain-water"},"difficulty":{"level":3}}
			]}`)
			return
		}

		req := decodeGraphQL(t, r)
		skip := int(req.Variables["skip"].(float64))
		limit := int(req.Variables["limit"].(float64))
		if _, ok := req.Variables["filters"].(map[string]any); !ok {
			t.Errorf("filters variable = %#v, want empty object", req.Variables["filters"])
		}

		f.mu.Lock()
		f.skips = append(f.skips, skip)
		f.mu.Unlock()

		if skip == f.failAtSkip {
			_, _ = io.WriteString(w, `{"data":{"problemsetQuestionList":null}}`)
			return
		}

		var questions []CatalogEntry
		for i := skip; i < skip+limit && i < f.n; i++ {
			questions = append(questions, CatalogEntry{
				QuestionFrontendID: fmt.Sprint(i + 1),
				Title:              fmt.Sprintf("Problem %d", i+1),
				TitleSlug:          fmt.Sprintf("problem-%d", i+1),
				Difficulty:         DifficultyMedium,
			})
		}
		resp := map[string]any{"data": map[string]any{
			"problemsetQuestionList": map[string]any{"total": f.n, "questions": questions},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func newCatalogClient(t *testing.T, f *catalogFixture, pageSize int) (*Client, *Metrics) {
	t.Helper()
	ts := httptest.NewServer(f.handler(t))
	t.Cleanup(ts.Close)
	cfg := testConfig(ts)
	cfg.PageSize = pageSize
	metrics, err := NewMetrics(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	return New(cfg, quietLogger(), metrics), metrics
}

// ─── FetchCatalogPage ────────────────────────────────────────────────────────

func TestFetchCatalogPage(t *testing.T) {
	f := &catalogFixture{n: 5, failAtSkip: -1}
	client, _ := newCatalogClient(t, f, 2)

	total, page, err := client.FetchCatalogPage(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("FetchCatalogPage: %v", err)
	}
	if total != 5 {
		t.Errorf("total = %d, want 5", total)
	}
	if len(page) != 2 || page[0].TitleSlug != "problem-3" || page[1].QuestionFrontendID != "4" {
		t.Errorf("page = %+v", page)
	}
}

func TestFetchCatalogPage_MissingListIsMalformed(t *testing.T) {
	f := &catalogFixture{n: 5, failAtSkip: 0}
	client, _ := newCatalogClient(t, f, 2)

	_, _, err := client.FetchCatalogPage(context.Background(), 0, 2)
	if KindOf(err) != KindMalformed {
		t.Fatalf("kind = %v, want malformed (err: %v)", KindOf(err), err)
	}
}

// ─── FetchFullCatalog ────────────────────────────────────────────────────────

func TestFetchFullCatalog_Paginates(t *testing.T) {
	f := &catalogFixture{n: 5, failAtSkip: -1}
	client, metrics := newCatalogClient(t, f, 2)

	cat, err := client.FetchFullCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchFullCatalog: %v", err)
	}
	if cat.Source != SourceGraphQL {
		t.Errorf("source = %q, want graphql", cat.Source)
	}
	if len(cat.Entries) != 5 {
		t.Fatalf("entries = %d, want 5", len(cat.Entries))
	}
	for i, e := range cat.Entries {
		if want := fmt.Sprint(i + 1); e.QuestionFrontendID != want {
			t.Errorf("entry %d id = %s, want %s (order must be preserved)", i, e.QuestionFrontendID, want)
		}
	}
	if got := fmt.Sprint(f.skips); got != "[0 2 4]" {
		t.Errorf("skips = %s, want [0 2 4]", got)
	}
	if f.restCalls.Load() != 0 {
		t.Error("fallback should not be used when pagination succeeds")
	}
	if got := testutil.ToFloat64(metrics.catalogEntries); got != 5 {
		t.Errorf("catalog entries gauge = %v, want 5", got)
	}
}

func TestFetchFullCatalog_StopsOnEmptyPage(t *testing.T) {
	// total claims more rows than the listing actually returns.
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		req := decodeGraphQL(t, r)
		if req.Variables["skip"].(float64) == 0 {
			_, _ = io.WriteString(w, `{"data":{"problemsetQuestionList":{"total":100,"questions":[
				{"questionFrontendId":"1","title":"Two Sum","titleSlug":"two-sum","difficulty":"Easy"}]}}}`)
			return
		}
		_, _ = io.WriteString(w, `{"data":{"problemsetQuestionList":{"total":100,"questions":[]}}}`)
	})
	client.cfg.PageSize = 1

	cat, err := client.FetchFullCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchFullCatalog: %v", err)
	}
	if len(cat.Entries) != 1 || cat.Entries[0].TitleSlug != "two-sum" {
		t.Errorf("entries = %+v", cat.Entries)
	}
}

func TestFetchFullCatalog_FallsBackOnStructuralError(t *testing.T) {
	f := &catalogFixture{n: 5, failAtSkip: 2}
	client, metrics := newCatalogClient(t, f, 2)

	cat, err := client.FetchFullCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchFullCatalog: %v", err)
	}
	if cat.Source != SourceREST {
		t.Errorf("source = %q, want rest", cat.Source)
	}
	if f.restCalls.Load() != 1 {
		t.Errorf("rest calls = %d, want 1", f.restCalls.Load())
	}

	// Partial GraphQL pages are discarded; the REST list replaces them,
	// sorted by frontend id, with empty slugs skipped.
	want := []CatalogEntry{
		{QuestionFrontendID: "1", Title: "Two Sum", TitleSlug: "two-sum", Difficulty: DifficultyEasy},
		{QuestionFrontendID: "2", Title: "Add Two Numbers", TitleSlug: "add-two-numbers", Difficulty: DifficultyMedium},
		{QuestionFrontendID: "15", Title: "3Sum", TitleSlug: "3sum", Difficulty: DifficultyMedium},
		{QuestionFrontendID: "42", Title: "Trapping Rain Water", TitleSlug: "trapping-rain-water", Difficulty: DifficultyHard},
	}
	if len(cat.Entries) != len(want) {
		t.Fatalf("entries = %+v, want %+v", cat.Entries, want)
	}
	for i := range want {
		if cat.Entries[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, cat.Entries[i], want[i])
		}
	}
	if got := testutil.ToFloat64(metrics.fallbacksTotal); got != 1 {
		t.Errorf("fallbacks metric = %v, want 1", got)
	}
}

func TestFetchFullCatalog_FallsBackOnGraphQLErrors(t *testing.T) {
	var restCalls atomic.Int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			restCalls.Add(1)
			_, _ = io.WriteString(w, `{"stat_status_pairs":[
				{"stat":{"frontend_question_id":1,"question__title":"Two Sum","question__title_slug":"two-sum"},"difficulty":{"level":1}}]}`)
			return
		}
		_, _ = io.WriteString(w, `{"errors":[{"message":"rate limited"}]}`)
	})

	cat, err := client.FetchFullCatalog(context.Background())
	if err != nil {
		t.Fatalf("FetchFullCatalog: %v", err)
	}
	if cat.Source != SourceREST || len(cat.Entries) != 1 {
		t.Errorf("catalog = %+v", cat)
	}
	if restCalls.Load() != 1 {
		t.Errorf("rest calls = %d, want 1", restCalls.Load())
	}
}

func TestFetchFullCatalog_BothSourcesFail(t *testing.T) {
	f := &catalogFixture{n: 5, failAtSkip: 0, failREST: true}
	client, _ := newCatalogClient(t, f, 2)

	_, err := client.FetchFullCatalog(context.Background())
	if err == nil {
		t.Fatal("expected error when both catalog sources fail")
	}
	if KindOf(err) != KindMalformed {
		t.Errorf("kind = %v, want malformed from fallback (err: %v)", KindOf(err), err)
	}
	if f.restCalls.Load() != 1 {
		t.Errorf("rest calls = %d, want exactly 1 (fallback is not retried for malformed bodies)", f.restCalls.Load())
	}
}

func TestDifficultyFromLevel(t *testing.T) {
	tests := []struct {
		level int
		want  Difficulty
	}{
		{1, DifficultyEasy},
		{2, DifficultyMedium},
		{3, DifficultyHard},
		{0, ""},
		{4, ""},
	}
	for _, tt := range tests {
		if got := difficultyFromLevel(tt.level); got != tt.want {
			t.Errorf("difficultyFromLevel(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
