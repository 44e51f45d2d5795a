package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jlambert/stancewatch/pkg/routes"
)

func TestRegisterNestedGroups(t *testing.T) {
	var hits []string
	record := func(name string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			hits = append(hits, name)
		}
	}

	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/ingest",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/{slug}", Handler: record("one")},
		},
		Children: []routes.Group{
			{
				Prefix: "/admin",
				Routes: []routes.Route{
					{Method: http.MethodGet, Pattern: "/stats", Handler: record("stats")},
				},
			},
		},
	})

	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"top level route", http.MethodPost, "/ingest/jane-doe", "one"},
		{"nested route", http.MethodGet, "/ingest/admin/stats", "stats"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits = nil
			mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
			if len(hits) != 1 || hits[0] != tt.want {
				t.Errorf("hits: got %v, want [%s]", hits, tt.want)
			}
		})
	}
}

func TestRegisterMethodBinding(t *testing.T) {
	mux := http.NewServeMux()
	routes.Register(mux, routes.Group{
		Prefix: "/screening",
		Routes: []routes.Route{
			{Method: http.MethodPost, Pattern: "/run", Handler: func(w http.ResponseWriter, r *http.Request) {}},
		},
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/screening/run", nil))

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("wrong method status: got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
