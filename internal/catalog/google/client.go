package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limiting: keep well under the Google Books per-user quota
	rateLimit = 5
	rateBurst = 10

	requestTimeout = 10 * time.Second

	defaultMaxResults = 20
)

// ErrVolumeNotFound is returned when the catalog has no volume for the given ID.
var ErrVolumeNotFound = errors.New("volume not found")

// Client handles Google Books API requests with rate limiting.
//
// Failures are surfaced immediately: the caller decides whether a local
// fallback view exists, so no retry logic lives here.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new Google Books API client
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetVolume fetches a single volume by its catalog ID
func (c *Client) GetVolume(ctx context.Context, id string) (*Volume, error) {
	endpoint := fmt.Sprintf("/volumes/%s", url.PathEscape(id))

	var volume Volume
	if err := c.doRequest(ctx, endpoint, nil, &volume); err != nil {
		if errors.Is(err, ErrVolumeNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to fetch volume %s: %w", id, err)
	}

	return &volume, nil
}

// Search performs a free-text search against the catalog
func (c *Client) Search(ctx context.Context, query string, maxResults int) (*VolumeList, error) {
	if maxResults < 1 || maxResults > 40 {
		maxResults = defaultMaxResults
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", maxResults))

	var list VolumeList
	if err := c.doRequest(ctx, "/volumes", params, &list); err != nil {
		return nil, fmt.Errorf("failed to search volumes: %w", err)
	}

	// totalItems can be positive while items is empty on far pages; normalize
	if list.Items == nil {
		list.Items = []Volume{}
	}

	return &list, nil
}

// doRequest performs a rate-limited GET and decodes the JSON response
func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	fullURL := c.baseURL + endpoint
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Bookly/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return ErrVolumeNotFound
	default:
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
