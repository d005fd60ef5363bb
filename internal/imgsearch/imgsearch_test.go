package imgsearch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/abelbrown/glossia/internal/apperr"
	"github.com/abelbrown/glossia/internal/config"
)

func braveConfig() config.ImageConfig {
	return config.ImageConfig{
		Provider:     "brave",
		APIKey:       "brave-key",
		Timeout:      5 * time.Second,
		DefaultCount: 5,
		MaxCount:     20,
	}
}

func newTestBrave(t *testing.T, handler http.HandlerFunc) (*Brave, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	b, err := NewBrave(braveConfig())
	if err != nil {
		t.Fatal(err)
	}
	b.baseURL = srv.URL
	return b, srv
}

func TestBraveSearchParsesAndFilters(t *testing.T) {
	b, _ := newTestBrave(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Subscription-Token") != "brave-key" {
			t.Error("subscription token header missing")
		}
		if got := r.URL.Query().Get("q"); got != "hermit on sea" {
			t.Errorf("q = %q", got)
		}
		if got := r.URL.Query().Get("count"); got != "5" {
			t.Errorf("count = %q, want the default", got)
		}
		w.Write([]byte(`{"results":[
			{"url":"https://img.example.com/a.jpg","title":"Hermit","thumbnail":{"src":"https://img.example.com/a_t.jpg"}},
			{"properties":{"url":"https://img.example.com/b.jpg"}},
			{"title":"no url at all"},
			{"url":"https://img.example.com/small.jpg","width":100,"height":100},
			{"properties":{"url":"https://img.example.com/tiny.jpg","width":120,"height":90}},
			{"title":"Crab","properties":{"url":"https://img.example.com/c.jpg","width":800,"height":600}}
		]}`))
	})

	results, err := b.SearchImages(context.Background(), "hermit on sea", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("results = %d, want 3 (URL-less and undersized entries dropped)", len(results))
	}
	if results[0].Title != "Hermit" || results[0].ThumbnailURL != "https://img.example.com/a_t.jpg" {
		t.Errorf("first result = %+v", results[0])
	}
	if results[1].Title != "Untitled" {
		t.Errorf("missing title should default to Untitled, got %q", results[1].Title)
	}
	if results[1].ThumbnailURL != "https://img.example.com/b.jpg" {
		t.Errorf("missing thumbnail should fall back to the URL, got %q", results[1].ThumbnailURL)
	}
	if results[2].Width != 800 || results[2].Height != 600 {
		t.Errorf("dimensions from properties not carried through: %+v", results[2])
	}
}

func TestBraveCountClamping(t *testing.T) {
	var sawCount string
	b, _ := newTestBrave(t, func(w http.ResponseWriter, r *http.Request) {
		sawCount = r.URL.Query().Get("count")
		w.Write([]byte(`{"results":[]}`))
	})

	if _, err := b.SearchImages(context.Background(), "castle", 100); err != nil {
		t.Fatal(err)
	}
	if sawCount != "20" {
		t.Errorf("count = %s, want clamped to 20", sawCount)
	}
}

func TestBraveEmptyQuery(t *testing.T) {
	b, _ := newTestBrave(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("empty query must not reach the server")
	})
	_, err := b.SearchImages(context.Background(), "   ", 5)
	if err == nil {
		t.Fatal("empty query should be rejected")
	}
	if apperr.KindOf(err) != apperr.KindAPI {
		t.Errorf("kind = %v, want api", apperr.KindOf(err))
	}
}

func TestBraveRequiresKey(t *testing.T) {
	cfg := braveConfig()
	cfg.APIKey = ""
	if _, err := NewBrave(cfg); err == nil {
		t.Error("missing key should be rejected")
	}
}

func TestBraveHealthCheck(t *testing.T) {
	b, _ := newTestBrave(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[{"url":"https://img.example.com/a.jpg"}]}`))
	})
	if err := b.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck error: %v", err)
	}

	empty, _ := newTestBrave(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results":[]}`))
	})
	if err := empty.HealthCheck(context.Background()); err == nil {
		t.Error("empty test search should fail the health check")
	}
}

func TestMockCannedAndSynthesized(t *testing.T) {
	m := NewMock()

	results, err := m.SearchImages(context.Background(), "hermit", 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Errorf("synthesized results = %d, want 3", len(results))
	}

	m.WithResults("hermit", nil)
	results, _ = m.SearchImages(context.Background(), "hermit", 3)
	if len(results) != 0 {
		t.Errorf("canned empty results should win, got %d", len(results))
	}

	m.FailWith(apperr.Network("down"))
	if _, err := m.SearchImages(context.Background(), "hermit", 3); err == nil {
		t.Error("configured failure should surface")
	}
}

func TestFactory(t *testing.T) {
	p, err := New(config.ImageConfig{Provider: "mock"})
	if err != nil {
		t.Fatal(err)
	}
	if p.ProviderName() != "Mock" {
		t.Errorf("ProviderName = %q", p.ProviderName())
	}
	if _, err := New(config.ImageConfig{Provider: "bing"}); err == nil {
		t.Error("unknown provider should be rejected")
	}
}
