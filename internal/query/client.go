package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/zjrosen/acro/internal/glossary"
	"github.com/zjrosen/acro/internal/log"
	"github.com/zjrosen/acro/internal/tracing"
)

// Client is a Querier backed by a remote query server. Transport failures
// are logged and surface as "not found" or empty listings.
type Client struct {
	base string
	http *http.Client
}

var _ Querier = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// NewClient talks to the server at baseURL, e.g. "http://localhost:19998".
// A bare host:port is accepted.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	c := &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: 2 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolveContext resolves id remotely. It returns ErrUnknownAcronym when
// the server has no such entry.
func (c *Client) ResolveContext(ctx context.Context, id string, classes []string) (string, error) {
	q := url.Values{}
	for _, class := range classes {
		q.Add("class", class)
	}
	path := "/acronyms/" + url.PathEscape(id)
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp ResolveResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// ListAcronymsContext fetches the remote listing.
func (c *Client) ListAcronymsContext(ctx context.Context) ([]glossary.Summary, error) {
	var resp ListAcronymsResponse
	if err := c.get(ctx, "/acronyms", &resp); err != nil {
		return nil, err
	}
	return resp.Acronyms, nil
}

// ListClassesContext fetches the remote class list.
func (c *Client) ListClassesContext(ctx context.Context) ([]string, error) {
	var resp ListClassesResponse
	if err := c.get(ctx, "/classes", &resp); err != nil {
		return nil, err
	}
	return resp.Classes, nil
}

// Health reports the server's item count.
func (c *Client) Health(ctx context.Context) (HealthResponse, error) {
	var resp HealthResponse
	err := c.get(ctx, "/health", &resp)
	return resp, err
}

// Resolve implements Querier.
func (c *Client) Resolve(id string, classes []string) (string, bool) {
	text, err := c.ResolveContext(context.Background(), id, classes)
	if err != nil {
		if !errors.Is(err, ErrUnknownAcronym) {
			log.ErrorErr(log.CatServer, "Remote resolve failed", err, "id", id)
		}
		return "", false
	}
	return text, true
}

// ListAcronyms implements Querier.
func (c *Client) ListAcronyms() []glossary.Summary {
	items, err := c.ListAcronymsContext(context.Background())
	if err != nil {
		log.ErrorErr(log.CatServer, "Remote listing failed", err)
		return nil
	}
	return items
}

// ListClasses implements Querier.
func (c *Client) ListClasses() []string {
	classes, err := c.ListClassesContext(context.Background())
	if err != nil {
		log.ErrorErr(log.CatServer, "Remote class listing failed", err)
		return nil
	}
	return classes
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	id := tracing.RequestIDFromContext(ctx)
	if id == "" {
		id = tracing.NewRequestID()
	}
	req.Header.Set(RequestIDHeader, id)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e ErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if resp.StatusCode == http.StatusNotFound && e.Code == CodeUnknownAcronym {
			return ErrUnknownAcronym
		}
		return fmt.Errorf("GET %s: status %d: %s", path, resp.StatusCode, e.Error)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}
