// Package client implements the state machinery a feed client needs:
// an HTTP API wrapper, optimistic toggle state, and a feed pager that
// serializes page loads and discards stale responses.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"glimpse/internal/models"
)

// aggregationTimeout bounds a single feed aggregation call.
const aggregationTimeout = 10 * time.Second

// FeedPage is the decoded wire response for a page of posts.
type FeedPage struct {
	Success bool           `json:"success"`
	Data    []*models.Post `json:"data"`
	Count   int64          `json:"count"`
	HasMore bool           `json:"has_more"`
}

// ToggleResponse is the decoded wire response for a relation toggle.
type ToggleResponse struct {
	Success     bool  `json:"success"`
	Liked       *bool `json:"liked,omitempty"`
	IsFollowing *bool `json:"is_following,omitempty"`
	Bookmarked  *bool `json:"bookmarked,omitempty"`
	Changed     bool  `json:"changed"`
}

// APIClient talks to the backend over HTTP.
type APIClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewAPIClient builds a client for the given base URL. An empty token
// means anonymous browsing.
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: aggregationTimeout,
		},
	}
}

// FetchFeed loads one page of the feed.
func (c *APIClient) FetchFeed(ctx context.Context, limit, offset int) (*FeedPage, error) {
	url := fmt.Sprintf("%s/api/posts?limit=%d&offset=%d", c.baseURL, limit, offset)

	var page FeedPage
	if err := c.doJSON(ctx, http.MethodGet, url, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetRelation establishes a relation (POST) or removes it (DELETE).
func (c *APIClient) SetRelation(ctx context.Context, kind models.RelationKind, targetID uint, active bool) (*ToggleResponse, error) {
	var path, field string
	switch kind {
	case models.RelationLike:
		path, field = "/api/likes", "post_id"
	case models.RelationFollow:
		path, field = "/api/follows", "following_id"
	case models.RelationBookmark:
		path, field = "/api/bookmarks", "post_id"
	default:
		return nil, fmt.Errorf("unknown relation kind %q", kind)
	}

	method := http.MethodPost
	if !active {
		method = http.MethodDelete
	}

	body := map[string]uint{field: targetID}
	var result ToggleResponse
	if err := c.doJSON(ctx, method, c.baseURL+path, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *APIClient) doJSON(ctx context.Context, method, url string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr models.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return fmt.Errorf("api error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}
