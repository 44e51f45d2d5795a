package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
)

const serperBaseURL = "https://google.serper.dev"

// serper adapts the Serper news search endpoint. Authentication is an
// X-API-KEY header; dates arrive as relative phrases like "3 hours ago".
type serper struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewSerper creates the Serper adapter. An empty key yields a disabled adapter.
func NewSerper(apiKey string, logger *slog.Logger) Adapter {
	return NewSerperWithBaseURL(apiKey, serperBaseURL, newHTTPClient(), logger)
}

// NewSerperWithBaseURL creates a Serper adapter against a custom base URL (for testing).
func NewSerperWithBaseURL(apiKey, baseURL string, client *http.Client, logger *slog.Logger) Adapter {
	return &serper{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		logger:  logger.With("provider", "serper"),
	}
}

func (s *serper) Name() string { return "serper" }

func (s *serper) Enabled() bool { return s.apiKey != "" }

type serperRequest struct {
	Query string `json:"q"`
	Page  int    `json:"page"`
	Num   int    `json:"num"`
}

type serperResponse struct {
	News []struct {
		Title    string `json:"title"`
		Link     string `json:"link"`
		Snippet  string `json:"snippet"`
		Date     string `json:"date"`
		Source   string `json:"source"`
		Position int    `json:"position"`
	} `json:"news"`
}

func (s *serper) Search(ctx context.Context, pc PersonContext, windowDays, page int) (Result, error) {
	if !s.Enabled() {
		return Result{}, nil
	}

	now := time.Now()

	body, err := json.Marshal(serperRequest{
		Query: pc.Query,
		Page:  page,
		Num:   100,
	})
	if err != nil {
		return Result{}, fmt.Errorf("serper encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/news", bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("serper request: %w", err)
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("serper search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, statusError("serper", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("serper read response: %w", err)
	}

	var payload serperResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("serper decode response: %w", err)
	}

	result := Result{Raw: raw}
	for _, item := range payload.News {
		if item.Link == "" {
			continue
		}

		published, err := ParseDate(item.Date, now)
		if err != nil {
			s.logger.Debug("skipping article with unparseable date", "url", item.Link, "date", item.Date)
			continue
		}

		result.Articles = append(result.Articles, articles.Article{
			ID:          articles.Fingerprint(item.Link),
			URL:         item.Link,
			Title:       item.Title,
			PublishedAt: published,
			Snippet:     item.Snippet,
			Provider:    s.Name(),
			PersonSlug:  pc.Person.Slug,
			ProviderMeta: map[string]string{
				"source":   item.Source,
				"position": strconv.Itoa(item.Position),
			},
		})
	}

	return result, nil
}
