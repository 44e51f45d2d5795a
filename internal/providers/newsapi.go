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

const newsapiBaseURL = "https://newsapi.org/v2"

const newsapiPageSize = 50

// newsapi adapts the NewsAPI /v2/everything endpoint. Authentication is an
// X-Api-Key header; dates are RFC3339.
type newsapi struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// NewNewsAPI creates the NewsAPI adapter. An empty key yields a disabled adapter.
func NewNewsAPI(apiKey string, logger *slog.Logger) Adapter {
	return NewNewsAPIWithBaseURL(apiKey, newsapiBaseURL, newHTTPClient(), logger)
}

// NewNewsAPIWithBaseURL creates a NewsAPI adapter against a custom base URL (for testing).
func NewNewsAPIWithBaseURL(apiKey, baseURL string, client *http.Client, logger *slog.Logger) Adapter {
	return &newsapi{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  client,
		logger:  logger.With("provider", "newsapi"),
	}
}

func (n *newsapi) Name() string { return "newsapi" }

func (n *newsapi) Enabled() bool { return n.apiKey != "" }

type newsapiResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Author      string `json:"author"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

func (n *newsapi) Search(ctx context.Context, pc PersonContext, windowDays, page int) (Result, error) {
	if !n.Enabled() {
		return Result{}, nil
	}

	now := time.Now()

	params := url.Values{}
	params.Set("q", pc.Query)
	params.Set("from", windowStart(now, windowDays).Format("2006-01-02"))
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(newsapiPageSize))
	params.Set("page", strconv.Itoa(page))

	endpoint := fmt.Sprintf("%s/everything?%s", n.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Result{}, fmt.Errorf("newsapi request: %w", err)
	}
	req.Header.Set("X-Api-Key", n.apiKey)

	resp, err := n.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("newsapi search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Result{}, statusError("newsapi", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("newsapi read response: %w", err)
	}

	var payload newsapiResponse
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Result{}, fmt.Errorf("newsapi decode response: %w", err)
	}

	result := Result{Raw: raw}
	for _, item := range payload.Articles {
		if item.URL == "" {
			continue
		}

		published, err := ParseDate(item.PublishedAt, now)
		if err != nil {
			n.logger.Debug("skipping article with unparseable date", "url", item.URL, "date", item.PublishedAt)
			continue
		}

		result.Articles = append(result.Articles, articles.Article{
			ID:          articles.Fingerprint(item.URL),
			URL:         item.URL,
			Title:       item.Title,
			PublishedAt: published,
			Author:      item.Author,
			Snippet:     item.Description,
			Provider:    n.Name(),
			PersonSlug:  pc.Person.Slug,
			ProviderMeta: map[string]string{
				"source": item.Source.Name,
			},
		})
	}

	return result, nil
}
