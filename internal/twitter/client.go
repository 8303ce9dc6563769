package twitter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"buzzboard/internal/models"
)

// ErrEmptyKeyword is returned before any network call when the query is blank.
var ErrEmptyKeyword = errors.New("keyword is required")

// Client calls the recent tweet counts API.
type Client struct {
	baseURL     string
	bearerToken string
	httpClient  *http.Client
}

// NewClient creates a counts API client for the given base URL and credential.
func NewClient(baseURL, bearerToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		bearerToken: bearerToken,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
	}
}

// countsResponse mirrors the counts endpoint's wire format.
type countsResponse struct {
	Data []struct {
		Start      string `json:"start"`
		End        string `json:"end"`
		TweetCount int64  `json:"tweet_count"`
	} `json:"data"`
	Meta struct {
		TotalTweetCount int64 `json:"total_tweet_count"`
	} `json:"meta"`
}

// RecentCounts fetches the daily mention counts for a keyword over the API's
// recent window. An empty result set is a valid empty series, not an error.
func (c *Client) RecentCounts(ctx context.Context, keyword string) (models.Series, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return models.Series{}, ErrEmptyKeyword
	}

	parsed, err := url.Parse(fmt.Sprintf("%s/2/tweets/counts/recent", c.baseURL))
	if err != nil {
		return models.Series{}, fmt.Errorf("invalid counts api url: %w", err)
	}
	query := parsed.Query()
	query.Set("query", keyword)
	query.Set("granularity", "day")
	parsed.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return models.Series{}, fmt.Errorf("failed to build counts request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Series{}, fmt.Errorf("failed to fetch counts for %q: %w", keyword, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Series{}, parseAPIError(resp)
	}

	var payload countsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return models.Series{}, fmt.Errorf("failed to decode counts response: %w", err)
	}

	series := models.Series{Keyword: keyword}
	for _, bucket := range payload.Data {
		start, err := time.Parse(time.RFC3339, bucket.Start)
		if err != nil {
			continue
		}
		series.Points = append(series.Points, models.SeriesPoint{Date: start.UTC(), Count: bucket.TweetCount})
	}
	return series, nil
}
