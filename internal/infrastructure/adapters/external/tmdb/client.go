package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/narwhalmedia/marquee/internal/catalog"
)

// Client represents a TMDB API client
type Client struct {
	baseURL    string
	apiKey     string
	language   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithLanguage sets the language query parameter.
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithTimeout bounds every request.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new TMDB client
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKey:   apiKey,
		language: "en-US",
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// listResponse represents a paged TMDB list response
type listResponse struct {
	Page    int                    `json:"page"`
	Results []catalog.CatalogMovie `json:"results"`
}

// genreResponse represents the TMDB genre list response
type genreResponse struct {
	Genres []catalog.Genre `json:"genres"`
}

// StatusError reports a non-200 response.
type StatusError struct {
	Endpoint   catalog.Endpoint
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status code: %d", e.Endpoint, e.StatusCode)
}

// FetchMovies retrieves the first page of a list endpoint
func (c *Client) FetchMovies(ctx context.Context, endpoint catalog.Endpoint) ([]catalog.CatalogMovie, error) {
	query := url.Values{}
	query.Set("page", "1")

	var resp listResponse
	if err := c.get(ctx, endpoint, query, &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		return []catalog.CatalogMovie{}, nil
	}
	return resp.Results, nil
}

// FetchGenres retrieves the movie genre list
func (c *Client) FetchGenres(ctx context.Context) ([]catalog.Genre, error) {
	var resp genreResponse
	if err := c.get(ctx, catalog.EndpointGenres, url.Values{}, &resp); err != nil {
		return nil, err
	}
	if resp.Genres == nil {
		return []catalog.Genre{}, nil
	}
	return resp.Genres, nil
}

func (c *Client) get(ctx context.Context, endpoint catalog.Endpoint, query url.Values, out interface{}) error {
	query.Set("api_key", c.apiKey)
	query.Set("language", c.language)
	reqURL := c.baseURL + string(endpoint) + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

var _ catalog.Provider = (*Client)(nil)
