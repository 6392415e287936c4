package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"assistgen-gateway/internal/config"
	"assistgen-gateway/internal/models"
)

// SearchClient queries the DuckDuckGo Instant Answer API. The API needs no
// credentials, so the client is always constructible.
type SearchClient struct {
	httpClient *http.Client
	endpoint   string
	maxResults int
	logger     zerolog.Logger
}

func NewSearchClient(cfg *config.SearchConfig, logger zerolog.Logger) *SearchClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 5
	}

	return &SearchClient{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(cfg.Endpoint, "/"),
		maxResults: maxResults,
		logger:     logger,
	}
}

type instantAnswer struct {
	Heading       string `json:"Heading"`
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Search returns up to MaxResults hits for the query. Topic groups without
// their own text are skipped.
func (c *SearchClient) Search(ctx context.Context, query string) ([]models.SearchResult, error) {
	endpoint := fmt.Sprintf("%s/?q=%s&format=json&no_html=1&skip_disambig=1",
		c.endpoint, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	results := make([]models.SearchResult, 0, c.maxResults)
	if answer.AbstractText != "" {
		results = append(results, models.SearchResult{
			Title:   answer.Heading,
			URL:     answer.AbstractURL,
			Snippet: answer.AbstractText,
		})
	}

	for _, topic := range answer.RelatedTopics {
		if len(results) >= c.maxResults {
			break
		}
		if topic.Text == "" || topic.FirstURL == "" {
			continue
		}
		title, snippet := splitTopicText(topic.Text)
		results = append(results, models.SearchResult{
			Title:   title,
			URL:     topic.FirstURL,
			Snippet: snippet,
		})
	}

	c.logger.Debug().Str("query", query).Int("results", len(results)).Msg("Search completed")
	return results, nil
}

// splitTopicText separates the "Title - description" form DuckDuckGo uses
// for related topics.
func splitTopicText(text string) (string, string) {
	if title, snippet, found := strings.Cut(text, " - "); found {
		return title, snippet
	}
	return text, text
}
