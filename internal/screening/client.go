package screening

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/jlambert/stancewatch/pkg/formatting"
)

// ClassifyRequest carries the row fields sent to the classification service.
// Missing source fields are coerced to empty strings before this point.
type ClassifyRequest struct {
	Name    string `json:"name"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Result is the fixed-schema classification outcome for one row.
// Once appended to the output logs it is never mutated.
type Result struct {
	RowID          string  `json:"row_id"`
	RelevanceScore float64 `json:"relevance_score"`
	Relevant       bool    `json:"relevant"`
	TiesToSubject  bool    `json:"ties_to_subject"`
	Reason         string  `json:"reason"`
}

// Classifier is the narrow interface to the external classification service.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (Result, error)
}

type httpClassifier struct {
	endpoint string
	client   *http.Client
}

// NewClassifier creates an HTTP classifier against the given endpoint.
func NewClassifier(endpoint string, client *http.Client) Classifier {
	if client == nil {
		client = &http.Client{}
	}
	return &httpClassifier{
		endpoint: endpoint,
		client:   client,
	}
}

// responseShape mirrors the expected schema with pointer fields so a missing
// field is distinguishable from a zero value.
type responseShape struct {
	RelevanceScore *float64 `json:"relevance_score"`
	Relevant       *bool    `json:"relevant"`
	TiesToSubject  *bool    `json:"ties_to_subject"`
	Reason         *string  `json:"reason"`
}

func (c *httpClassifier) Classify(ctx context.Context, req ClassifyRequest) (Result, error) {
	if c.endpoint == "" {
		return Result{}, ErrNotConfigured
	}

	body, err := json.Marshal(req)
	if err != nil {
		return Result{}, fmt.Errorf("encode classify request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("classify request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("classify call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("classification service returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read classify response: %w", err)
	}

	shape, err := formatting.Parse[responseShape](string(raw))
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
	}

	if shape.RelevanceScore == nil || shape.Relevant == nil ||
		shape.TiesToSubject == nil || shape.Reason == nil {
		return Result{}, fmt.Errorf("%w: missing required field", ErrSchemaMismatch)
	}

	return Result{
		RelevanceScore: *shape.RelevanceScore,
		Relevant:       *shape.Relevant,
		TiesToSubject:  *shape.TiesToSubject,
		Reason:         *shape.Reason,
	}, nil
}
