package providers_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jlambert/stancewatch/internal/providers"
	"github.com/jlambert/stancewatch/internal/roster"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func personContext() providers.PersonContext {
	return providers.PersonContext{
		Person: roster.Person{Slug: "jane-doe", Name: "Jane Doe", Office: "mp"},
		Query:  `"Jane Doe" AND ("MP")`,
	}
}

func TestNewsAPINormalization(t *testing.T) {
	var gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		w.Write([]byte(`{
			"status": "ok",
			"articles": [
				{
					"source": {"name": "The Gazette"},
					"author": "A. Reporter",
					"title": "Doe speaks on sovereignty",
					"description": "Remarks in the house.",
					"url": "https://example.com/doe-sovereignty",
					"publishedAt": "2026-06-10T08:00:00Z"
				},
				{
					"source": {"name": "No URL Outlet"},
					"title": "Dropped item",
					"url": "",
					"publishedAt": "2026-06-10T08:00:00Z"
				},
				{
					"source": {"name": "Bad Date Outlet"},
					"title": "Also dropped",
					"url": "https://example.com/bad-date",
					"publishedAt": "sometime maybe zz"
				}
			]
		}`))
	}))
	defer server.Close()

	ad := providers.NewNewsAPIWithBaseURL("test-key", server.URL, server.Client(), discardLogger())

	res, err := ad.Search(context.Background(), personContext(), 365, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotKey != "test-key" {
		t.Errorf("api key header: got %q", gotKey)
	}
	if len(res.Articles) != 1 {
		t.Fatalf("expected 1 normalized article, got %d", len(res.Articles))
	}

	a := res.Articles[0]
	if a.Provider != "newsapi" {
		t.Errorf("provider: got %q", a.Provider)
	}
	if a.PersonSlug != "jane-doe" {
		t.Errorf("person slug: got %q", a.PersonSlug)
	}
	if a.ID == "" {
		t.Error("fingerprint not set")
	}
	if a.ProviderMeta["source"] != "The Gazette" {
		t.Errorf("source meta: got %q", a.ProviderMeta["source"])
	}
	if len(res.Raw) == 0 {
		t.Error("raw payload not retained")
	}
}

func TestNewsAPIThrottled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	ad := providers.NewNewsAPIWithBaseURL("test-key", server.URL, server.Client(), discardLogger())

	_, err := ad.Search(context.Background(), personContext(), 365, 1)
	if !errors.Is(err, providers.ErrThrottled) {
		t.Errorf("expected ErrThrottled, got %v", err)
	}
}

func TestGNewsThrottledOnUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ad := providers.NewGNewsWithBaseURL("test-key", server.URL, server.Client(), discardLogger())

	_, err := ad.Search(context.Background(), personContext(), 365, 1)
	if !errors.Is(err, providers.ErrThrottled) {
		t.Errorf("expected ErrThrottled, got %v", err)
	}
}

func TestGNewsQueryParams(t *testing.T) {
	var gotQuery, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotKey = r.URL.Query().Get("apikey")
		w.Write([]byte(`{"totalArticles": 0, "articles": []}`))
	}))
	defer server.Close()

	ad := providers.NewGNewsWithBaseURL("gnews-key", server.URL, server.Client(), discardLogger())

	res, err := ad.Search(context.Background(), personContext(), 30, 2)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if gotQuery != `"Jane Doe" AND ("MP")` {
		t.Errorf("query param: got %q", gotQuery)
	}
	if gotKey != "gnews-key" {
		t.Errorf("apikey param: got %q", gotKey)
	}
	if len(res.Articles) != 0 {
		t.Errorf("expected empty page, got %d articles", len(res.Articles))
	}
}

func TestSerperRelativeDates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-API-KEY"); got != "serper-key" {
			t.Errorf("api key header: got %q", got)
		}
		w.Write([]byte(`{
			"news": [
				{
					"title": "Doe on national unity",
					"link": "https://example.com/doe-unity",
					"snippet": "A brief mention.",
					"date": "3 hours ago",
					"source": "Le Devoir",
					"position": 1
				}
			]
		}`))
	}))
	defer server.Close()

	ad := providers.NewSerperWithBaseURL("serper-key", server.URL, server.Client(), discardLogger())

	res, err := ad.Search(context.Background(), personContext(), 365, 1)
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if len(res.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(res.Articles))
	}

	a := res.Articles[0]
	if a.PublishedAt.IsZero() {
		t.Error("relative date not resolved")
	}
	if a.ProviderMeta["position"] != "1" {
		t.Errorf("position meta: got %q", a.ProviderMeta["position"])
	}
}

func TestDisabledAdapters(t *testing.T) {
	logger := discardLogger()

	adapters := []providers.Adapter{
		providers.NewNewsAPI("", logger),
		providers.NewGNews("", logger),
		providers.NewSerper("", logger),
	}

	for _, ad := range adapters {
		t.Run(ad.Name(), func(t *testing.T) {
			if ad.Enabled() {
				t.Error("adapter without credential should be disabled")
			}

			res, err := ad.Search(context.Background(), personContext(), 365, 1)
			if err != nil {
				t.Fatalf("disabled adapter should not error: %v", err)
			}
			if len(res.Articles) != 0 {
				t.Errorf("disabled adapter returned %d articles", len(res.Articles))
			}
		})
	}
}
