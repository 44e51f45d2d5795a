package screening_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jlambert/stancewatch/internal/screening"
)

func TestClassify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"relevance_score": 0.85, "relevant": true, "ties_to_subject": true, "reason": "direct statement"}`))
	}))
	defer server.Close()

	c := screening.NewClassifier(server.URL, server.Client())

	result, err := c.Classify(context.Background(), screening.ClassifyRequest{
		Name:  "Jane Doe",
		Title: "Doe on sovereignty",
	})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}

	if result.RelevanceScore != 0.85 || !result.Relevant || !result.TiesToSubject {
		t.Errorf("unexpected result: %+v", result)
	}
	if result.Reason != "direct statement" {
		t.Errorf("reason: got %q", result.Reason)
	}
}

func TestClassifyFencedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("```json\n{\"relevance_score\": 0.2, \"relevant\": false, \"ties_to_subject\": false, \"reason\": \"passing mention\"}\n```"))
	}))
	defer server.Close()

	c := screening.NewClassifier(server.URL, server.Client())

	result, err := c.Classify(context.Background(), screening.ClassifyRequest{Name: "Jane Doe"})
	if err != nil {
		t.Fatalf("classify failed: %v", err)
	}
	if result.Relevant {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestClassifySchemaMismatch(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing field", `{"relevance_score": 0.5, "relevant": true, "reason": "x"}`},
		{"not json", `definitely relevant`},
		{"empty object", `{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := screening.NewClassifier(server.URL, server.Client())
			_, err := c.Classify(context.Background(), screening.ClassifyRequest{Name: "Jane Doe"})
			if !errors.Is(err, screening.ErrSchemaMismatch) {
				t.Errorf("expected ErrSchemaMismatch, got %v", err)
			}
		})
	}
}

func TestClassifyServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := screening.NewClassifier(server.URL, server.Client())
	if _, err := c.Classify(context.Background(), screening.ClassifyRequest{Name: "Jane Doe"}); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestClassifyNotConfigured(t *testing.T) {
	c := screening.NewClassifier("", nil)
	if _, err := c.Classify(context.Background(), screening.ClassifyRequest{}); !errors.Is(err, screening.ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}
