package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jlambert/stancewatch/internal/articles"
)

const gnewsBaseURL = "https://gnews.io/api/v4"

const gnewsPageSize = 25

// gnews adapts the GNews /api/v4/search endpoint. Authentication is an
// apikey query parameter; dates are RFC3339.
type gnews struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewGNews creates the GNews adapter. An empty key yields a disabled adapter.
func NewGNews(apiKey string, logger *slog.Logger) Adapter {
	return NewGNewsWithBaseURL(apiKey, gnewsBaseURL, newHTTPClient(), logger)
}

// NewGNewsWithBaseURL creates a GNews adapter against a custom base URL (for testing).
func NewGNewsWithBaseURL(apiKey, baseURL string, client *http.Client, logger *slog.Logger) Adapter {
	return &gnews{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		logger:  logger.With("provider", "gnews"),
	}
}

func (g *gnews) Name() string { return "gnews" }

func (g *gnews) Enabled() bool { return g.apiKey != "" }

type gnewsResponse struct {
	TotalArticles int `json:"totalArticles"`
	Articles      []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
		Source      struct {
			Name string `json:"name"`
			URL  string `json:"url"`
		} `json:"source"`
	} `json:"articles"`
}

func (g *gnews) Search(ctx context.Context, pc PersonContext, windowDays, page int) (Result, error) {
	if !g.Enabled() {
		return Result{}, nil
	}

	now := time.Now()

	params := url.Values{}
	params.Set("q", pc.Query)
	params.Set("from", windowStart(now, windowDays).Format(time.RFC3339))
	params.Set("max", strconv.Itoa(gnewsPageSize))
	params.Set("page", strconv.Itoa(page))
	params.Set("apikey", g.apiKey)

	endpoint := fmt.Sprintf("%s/search?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("gnews request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("gnews search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, statusError("gnews", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("gnews read response: %w", err)
	}

	var payload gnewsResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("gnews decode response: %w", err)
	}

	result := Result{Raw: raw}
	for _, item := range payload.Articles {
		if item.URL == "" {
			continue
		}

		published, err := ParseDate(item.PublishedAt, now)
		if err != nil {
			g.logger.Debug("skipping article with unparseable date", "url", item.URL, "date", item.PublishedAt)
			continue
		}

		result.Articles = append(result.Articles, articles.Article{
			ID:          articles.Fingerprint(item.URL),
			URL:         item.URL,
			Title:       item.Title,
			PublishedAt: published,
			Snippet:     item.Description,
			Provider:    g.Name(),
			PersonSlug:  pc.Person.Slug,
			ProviderMeta: map[string]string{
				"source": item.Source.Name,
			},
		})
	}

	return result, nil
}
