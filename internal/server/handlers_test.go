package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/campusqa/prashna/internal/cascade"
	"github.com/campusqa/prashna/internal/config"
	"github.com/campusqa/prashna/internal/models"
	"github.com/campusqa/prashna/internal/querylog"
	"github.com/campusqa/prashna/internal/rules"
)

type stubTier struct {
	results    []models.SearchResult
	confidence float64
}

func (s stubTier) Search(ctx context.Context, query string, topK int, threshold float64) ([]models.SearchResult, float64) {
	if s.confidence < threshold {
		return nil, s.confidence
	}
	return s.results, s.confidence
}

type stubSynth struct{}

func (stubSynth) Synthesize(ctx context.Context, contextText, question string) string {
	return "generated"
}

type stubCorpus struct{ curated, documents int }

func (s stubCorpus) CuratedSize() int  { return s.curated }
func (s stubCorpus) DocumentSize() int { return s.documents }

func (s stubCorpus) CuratedCategories() map[string]int {
	return map[string]int{"General": s.curated}
}

type stubStats struct{ stats querylog.Stats }

func (s stubStats) Stats(ctx context.Context) (querylog.Stats, error) { return s.stats, nil }

func testServer(t *testing.T, stats querylog.StatsProvider) *Server {
	t.Helper()
	curated := stubTier{
		results: []models.SearchResult{{
			Item: models.KnowledgeItem{
				ID: "1", Text: "Separate boys/girls hostels.", Question: "What hostels are available?",
				Category: "Hostel", Origin: models.TierCurated,
			},
			Score: 0.9,
		}},
		confidence: 0.9,
	}
	engine := cascade.NewEngine(
		rules.NewEngine(rules.Builtin()),
		curated, stubTier{},
		config.CascadeConfig{
			Curated:   config.TierConfig{DirectThreshold: 0.80, RetrievalThreshold: 0.30, TopK: 3},
			Documents: config.TierConfig{DirectThreshold: 0.50, RetrievalThreshold: 0.20, TopK: 3},
		},
		stubSynth{}, querylog.Nop{}, zap.NewNop(),
	)
	return NewServer(engine, stats, stubCorpus{curated: 1, documents: 4},
		&config.ServerConfig{Host: "localhost", Port: 0}, zap.NewNop())
}

func TestHandleChat(t *testing.T) {
	srv := testServer(t, nil)
	router := srv.Router()

	body, _ := json.Marshal(map[string]string{"message": "hostel facilities"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resp.Reply, "Separate boys/girls hostels.") {
		t.Errorf("reply=%q", resp.Reply)
	}
}

func TestHandleChat_InvalidBody(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", strings.NewReader("{broken"))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status=%d", w.Code)
	}
}

func TestHandleChat_SmallTalk(t *testing.T) {
	srv := testServer(t, nil)
	body, _ := json.Marshal(map[string]string{"message": "hello"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	var resp struct {
		Reply string `json:"reply"`
	}
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Reply != rules.GreetingResponse {
		t.Errorf("reply=%q", resp.Reply)
	}
}

func TestHandleStats(t *testing.T) {
	stats := stubStats{stats: querylog.Stats{
		Total:    5,
		ByStatus: map[string]int64{models.StatusSuccess: 4, models.StatusRejected: 1},
		ByTier:   map[string]int64{"CURATED": 4, "REJECTED": 1},
	}}
	srv := testServer(t, stats)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp struct {
		CuratedItems      int            `json:"curated_items"`
		DocumentItems     int            `json:"document_items"`
		CuratedCategories map[string]int `json:"curated_categories"`
		Queries           *querylog.Stats
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.CuratedItems != 1 || resp.DocumentItems != 4 {
		t.Errorf("corpus sizes: %d/%d", resp.CuratedItems, resp.DocumentItems)
	}
	if resp.CuratedCategories["General"] != 1 {
		t.Errorf("categories: %v", resp.CuratedCategories)
	}
	if resp.Queries == nil || resp.Queries.Total != 5 {
		t.Errorf("queries: %+v", resp.Queries)
	}
}

func TestHandleStats_NoDatabase(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if strings.Contains(w.Body.String(), `"queries"`) {
		t.Error("stats without a database should omit query history")
	}
}

func TestHandleHealth(t *testing.T) {
	srv := testServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body=%s", w.Body.String())
	}
}
